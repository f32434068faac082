package dataset

import (
	"fmt"

	"guha/bitset"
)

// Variable is one categorical column: a label and a row mask per category.
type Variable struct {
	Name          string        `json:"name"`
	Categories    []string      `json:"categories"`
	CategoryMasks []bitset.Mask `json:"-"`

	categoryIndex map[string]int
}

// CategoryIndex returns the position of a category label.
func (v *Variable) CategoryIndex(label string) (int, bool) {
	if v.categoryIndex == nil {
		v.categoryIndex = make(map[string]int, len(v.Categories))
		for i, c := range v.Categories {
			v.categoryIndex[c] = i
		}
	}
	i, ok := v.categoryIndex[label]
	return i, ok
}

// Dataset is the bit matrix the miner searches over. It is built once and
// read only afterwards.
type Dataset struct {
	RowCount  int        `json:"rows"`
	Variables []Variable `json:"variables"`

	variableIndex map[string]int
}

// New builds a dataset from already encoded variables and checks that every
// row carries exactly one category of each variable.
func New(rowCount int, variables []Variable) (*Dataset, error) {
	d := &Dataset{
		RowCount:      rowCount,
		Variables:     variables,
		variableIndex: make(map[string]int, len(variables)),
	}
	for i := range variables {
		name := variables[i].Name
		if _, exists := d.variableIndex[name]; exists {
			return nil, fmt.Errorf("duplicate variable %q", name)
		}
		d.variableIndex[name] = i
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the one-category-per-row invariant of every variable.
func (d *Dataset) Validate() error {
	full := bitset.Full(d.RowCount)
	for i := range d.Variables {
		v := &d.Variables[i]
		if len(v.CategoryMasks) != len(v.Categories) {
			return fmt.Errorf("variable %q has %d categories but %d masks",
				v.Name, len(v.Categories), len(v.CategoryMasks))
		}
		seen := bitset.New(d.RowCount)
		total := 0
		for _, m := range v.CategoryMasks {
			seen = seen.Or(m)
			total += m.Count()
		}
		if total != d.RowCount || !seen.Equal(full) {
			return fmt.Errorf("variable %q does not assign exactly one category per row", v.Name)
		}
	}
	return nil
}

// VariableIndex returns the position of a variable by name.
func (d *Dataset) VariableIndex(name string) (int, bool) {
	if d.variableIndex == nil {
		d.variableIndex = make(map[string]int, len(d.Variables))
		for i := range d.Variables {
			d.variableIndex[d.Variables[i].Name] = i
		}
	}
	i, ok := d.variableIndex[name]
	return i, ok
}

// Variable returns the variable at index i.
func (d *Dataset) Variable(i int) *Variable {
	return &d.Variables[i]
}

// All is the all-true mask over the dataset's rows.
func (d *Dataset) All() bitset.Mask {
	return bitset.Full(d.RowCount)
}

// Decode reads back row r as one category label per variable.
func (d *Dataset) Decode(r int) ([]string, error) {
	if r < 0 || r >= d.RowCount {
		return nil, fmt.Errorf("row %d out of range [0, %d)", r, d.RowCount)
	}
	labels := make([]string, len(d.Variables))
	for i := range d.Variables {
		v := &d.Variables[i]
		found := false
		for c, m := range v.CategoryMasks {
			if m.Has(r) {
				labels[i] = v.Categories[c]
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("row %d has no category for variable %q", r, v.Name)
		}
	}
	return labels, nil
}
