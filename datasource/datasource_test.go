package datasource

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	raw := "Income, Churn\nlow,no\n high ,yes\n\nmid\n"
	table, err := ReadCSV(strings.NewReader(raw), ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"Income", "Churn"}, table.Header)
	assert.Equal(t, [][]string{{"low", "no"}, {"high", "yes"}, {"mid", ""}}, table.Rows)

	d, warnings, err := table.Encode(0)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 3, d.RowCount)
	row, err := d.Decode(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "yes"}, row)
}

func TestReadCSVErrors(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"blank name":  "A,,C\n1,2,3\n",
		"wide row":    "A,B\n1,2,3\n",
		"bad quoting": "A,B\n\"1,2\n",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(raw), ',')
			assert.Error(t, err)
		})
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "data.tsv")
	require.NoError(t, ioutil.WriteFile(tsv, []byte("X\tY\na\tp\nb\tq\n"), 0644))

	table, err := Load(tsv, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, table.Header)
	assert.Len(t, table.Rows, 2)

	_, err = Load(filepath.Join(dir, "data.parquet"), "")
	assert.Error(t, err)
	_, err = Load(filepath.Join(dir, "missing.csv"), "")
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Plan", "Churn"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"basic", "yes"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"premium"}))
	f.NewSheet("Other")
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]interface{}{"Z"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]interface{}{3}))
	require.NoError(t, f.SaveAs(path))

	table, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Plan", "Churn"}, table.Header)
	assert.Equal(t, [][]string{{"basic", "yes"}, {"premium", ""}}, table.Rows)

	table, err = LoadXLSX(path, "Other")
	require.NoError(t, err)
	assert.Equal(t, []string{"Z"}, table.Header)
	assert.Equal(t, [][]string{{"3"}}, table.Rows)

	cols := table.Columns()
	require.Len(t, cols, 1)
	assert.Equal(t, "Z", cols[0].Name)
	assert.Equal(t, []string{"3"}, cols[0].Values)
}
