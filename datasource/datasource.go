// Package datasource reads tabular files into columns for the bit matrix
// encoder. The first row is the header; every cell is a category label.
package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"guha/dataset"
)

// Table is a loaded file: header names and one string slice per data row,
// padded to the header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Load picks the reader by file extension: .csv, .tsv or .xlsx. sheet is
// only used for workbooks; "" selects the first sheet.
func Load(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadDelimited(path, ',')
	case ".tsv":
		return loadDelimited(path, '\t')
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, sheet)
	}
	return nil, fmt.Errorf("unsupported data file %q", path)
}

func loadDelimited(path string, comma rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file, comma)
}

// ReadCSV reads delimited text. Rows may be shorter than the header.
func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, E.Wrap(err, "failed to read delimited data")
	}
	return newTable(records)
}

// LoadXLSX reads one sheet of a workbook.
func LoadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, E.Wrapf(err, "failed to open workbook %s", path)
	}
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, E.Wrapf(err, "failed to read sheet %q", sheet)
	}
	log.WithFields(log.Fields{"file": path, "sheet": sheet, "rows": len(rows)}).Debug("Read workbook sheet.")
	return newTable(rows)
}

func newTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
		if header[i] == "" {
			return nil, fmt.Errorf("header column %d has no name", i+1)
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", n+2, len(rec), len(header))
		}
		row := make([]string, len(header))
		for i, cell := range rec {
			row[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}
	return &Table{Header: header, Rows: rows}, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Columns transposes the table into encoder columns.
func (t *Table) Columns() []dataset.Column {
	columns := make([]dataset.Column, len(t.Header))
	for i, name := range t.Header {
		values := make([]string, len(t.Rows))
		for r, row := range t.Rows {
			values[r] = row[i]
		}
		columns[i] = dataset.Column{Name: name, Values: values}
	}
	return columns
}

// Encode builds the bit matrix of the table.
func (t *Table) Encode(maxCategories int) (*dataset.Dataset, []*dataset.EncodingError, error) {
	return dataset.Encode(len(t.Rows), t.Columns(), maxCategories)
}
