package dataset

import (
	"fmt"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"guha/bitset"
)

// DefaultMaxCategories bounds the number of distinct categories a column may
// have before it is dropped from the bit matrix.
const DefaultMaxCategories = 100

// Column is one raw categorical column, one label per row. Categories
// optionally fixes the category order; when empty the distinct labels are
// sorted, numerically if every label is a number.
type Column struct {
	Name       string
	Values     []string
	Categories []string
}

// EncodingError describes a column that could not be encoded. The encoder
// drops such columns and reports the error as a warning.
type EncodingError struct {
	Column string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("column %q not encoded: %s", e.Column, e.Reason)
}

// Encode builds the bit matrix for rowCount rows. Columns that cannot be
// encoded are left out of the dataset and returned as warnings; only a
// malformed input as a whole (duplicate column names) is an error.
func Encode(rowCount int, columns []Column, maxCategories int) (*Dataset, []*EncodingError, error) {
	if maxCategories <= 0 {
		maxCategories = DefaultMaxCategories
	}
	names := make(map[string]bool, len(columns))
	for _, col := range columns {
		if names[col.Name] {
			return nil, nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		names[col.Name] = true
	}

	warnings := make([]*EncodingError, 0)
	variables := make([]Variable, 0, len(columns))
	for _, col := range columns {
		v, encErr := encodeColumn(rowCount, col, maxCategories)
		if encErr != nil {
			log.WithFields(log.Fields{"column": col.Name, "reason": encErr.Reason}).
				Warn("Dropping column from bit matrix.")
			warnings = append(warnings, encErr)
			continue
		}
		variables = append(variables, v)
	}

	d, err := New(rowCount, variables)
	if err != nil {
		return nil, warnings, err
	}
	log.WithFields(log.Fields{"rows": rowCount, "variables": len(variables),
		"dropped": len(warnings)}).Debug("Encoded dataset.")
	return d, warnings, nil
}

func encodeColumn(rowCount int, col Column, maxCategories int) (Variable, *EncodingError) {
	if len(col.Values) != rowCount {
		return Variable{}, &EncodingError{Column: col.Name,
			Reason: fmt.Sprintf("has %d values, expected %d", len(col.Values), rowCount)}
	}

	categories := col.Categories
	if len(categories) == 0 {
		categories = distinctSorted(col.Values)
	} else {
		seen := make(map[string]bool, len(categories))
		for _, c := range categories {
			if seen[c] {
				return Variable{}, &EncodingError{Column: col.Name,
					Reason: fmt.Sprintf("category %q listed twice", c)}
			}
			seen[c] = true
		}
	}
	if len(categories) > maxCategories {
		return Variable{}, &EncodingError{Column: col.Name,
			Reason: fmt.Sprintf("%d categories exceed the limit of %d", len(categories), maxCategories)}
	}

	v := Variable{
		Name:          col.Name,
		Categories:    append([]string(nil), categories...),
		CategoryMasks: make([]bitset.Mask, len(categories)),
	}
	for c := range v.CategoryMasks {
		v.CategoryMasks[c] = bitset.New(rowCount)
	}
	for r, label := range col.Values {
		c, ok := v.CategoryIndex(label)
		if !ok {
			return Variable{}, &EncodingError{Column: col.Name,
				Reason: fmt.Sprintf("row %d value %q is not a listed category", r, label)}
		}
		v.CategoryMasks[c].Set(r)
	}
	return v, nil
}

func distinctSorted(values []string) []string {
	seen := make(map[string]bool)
	distinct := make([]string, 0)
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}

	numbers := make(map[string]float64, len(distinct))
	numeric := true
	for _, v := range distinct {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			numeric = false
			break
		}
		numbers[v] = f
	}
	if numeric {
		sort.SliceStable(distinct, func(i, j int) bool {
			return numbers[distinct[i]] < numbers[distinct[j]]
		})
	} else {
		sort.Strings(distinct)
	}
	return distinct
}
