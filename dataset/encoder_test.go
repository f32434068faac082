package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guha/bitset"
)

func TestEncodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, rows := range []int{1, 10, 64, 65, 300} {
		columns := []Column{
			{Name: "colour"}, {Name: "size"}, {Name: "grade"},
		}
		labels := [][]string{{"red", "green", "blue"}, {"S", "M", "L", "XL"}, {"1", "2", "10"}}
		for c := range columns {
			columns[c].Values = make([]string, rows)
			for r := 0; r < rows; r++ {
				columns[c].Values[r] = labels[c][rng.Intn(len(labels[c]))]
			}
		}

		d, warnings, err := Encode(rows, columns, 0)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, d.Variables, 3)

		for r := 0; r < rows; r++ {
			for vi := range d.Variables {
				set := 0
				for _, m := range d.Variables[vi].CategoryMasks {
					if m.Has(r) {
						set++
					}
				}
				assert.Equal(t, 1, set, fmt.Sprintf("row %d variable %d", r, vi))
			}
			decoded, err := d.Decode(r)
			require.NoError(t, err)
			assert.Equal(t, []string{columns[0].Values[r], columns[1].Values[r], columns[2].Values[r]}, decoded)
		}
	}
}

func TestEncodeCategoryOrder(t *testing.T) {
	d, _, err := Encode(5, []Column{
		{Name: "n", Values: []string{"10", "2", "1", "2", "10"}},
		{Name: "s", Values: []string{"b", "a", "c", "a", "b"}},
		{Name: "e", Values: []string{"lo", "hi", "mid", "lo", "hi"}, Categories: []string{"lo", "mid", "hi"}},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, d.Variables[0].Categories)
	assert.Equal(t, []string{"a", "b", "c"}, d.Variables[1].Categories)
	assert.Equal(t, []string{"lo", "mid", "hi"}, d.Variables[2].Categories)
	assert.Equal(t, []int{0, 3}, d.Variables[2].CategoryMasks[0].Rows())
	assert.Equal(t, []int{1, 4}, d.Variables[2].CategoryMasks[2].Rows())
}

func TestEncodeDropsColumns(t *testing.T) {
	values := make([]string, 12)
	for i := range values {
		values[i] = fmt.Sprintf("v%d", i)
	}
	d, warnings, err := Encode(12, []Column{
		{Name: "wide", Values: values},
		{Name: "short", Values: []string{"a"}},
		{Name: "unlisted", Values: append(make([]string, 11), "x"), Categories: []string{""}},
		{Name: "ok", Values: make([]string, 12)},
	}, 10)
	require.NoError(t, err)
	require.Len(t, warnings, 3)
	assert.Equal(t, "wide", warnings[0].Column)
	assert.Equal(t, "short", warnings[1].Column)
	assert.Equal(t, "unlisted", warnings[2].Column)

	var encErr *EncodingError
	assert.True(t, errors.As(error(warnings[0]), &encErr))

	require.Len(t, d.Variables, 1)
	assert.Equal(t, "ok", d.Variables[0].Name)
	_, ok := d.VariableIndex("wide")
	assert.False(t, ok)
}

func TestEncodeDuplicateColumns(t *testing.T) {
	_, _, err := Encode(1, []Column{{Name: "a", Values: []string{"x"}}, {Name: "a", Values: []string{"y"}}}, 0)
	assert.Error(t, err)
}

func TestNewValidatesExclusiveCategories(t *testing.T) {
	_, err := New(3, []Variable{{
		Name:          "x",
		Categories:    []string{"a", "b"},
		CategoryMasks: []bitset.Mask{bitset.FromRows(3, 0, 1), bitset.FromRows(3, 1, 2)},
	}})
	assert.Error(t, err)

	_, err = New(3, []Variable{{
		Name:          "x",
		Categories:    []string{"a", "b"},
		CategoryMasks: []bitset.Mask{bitset.FromRows(3, 0), bitset.FromRows(3, 1)},
	}})
	assert.Error(t, err)

	d, err := New(3, []Variable{{
		Name:          "x",
		Categories:    []string{"a", "b"},
		CategoryMasks: []bitset.Mask{bitset.FromRows(3, 0, 2), bitset.FromRows(3, 1)},
	}})
	require.NoError(t, err)
	i, ok := d.Variables[0].CategoryIndex("b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, err = d.Decode(3)
	assert.Error(t, err)
}
