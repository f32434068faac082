package cedent

import (
	"fmt"
	"strings"

	"guha/dataset"
)

// Policy governs which category subsets of one attribute form literals.
type Policy int

const (
	// Subset: any non-empty subset of the categories.
	Subset Policy = iota
	// Sequence: runs of consecutive categories.
	Sequence
	// LeftCut: runs starting at the first category.
	LeftCut
	// RightCut: runs ending at the last category.
	RightCut
	// Fixed: one externally given category.
	Fixed
)

var policyNames = map[Policy]string{
	Subset:   "subset",
	Sequence: "seq",
	LeftCut:  "lcut",
	RightCut: "rcut",
	Fixed:    "one",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the short names used in task files as well as the
// spelled out ones.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "subset":
		return Subset, nil
	case "seq", "sequence":
		return Sequence, nil
	case "lcut", "leftcut":
		return LeftCut, nil
	case "rcut", "rightcut":
		return RightCut, nil
	case "one", "fixed":
		return Fixed, nil
	}
	return 0, fmt.Errorf("unknown enumeration policy %q", s)
}

// Combinator folds literal masks into the cedent mask.
type Combinator int

const (
	Conjunctive Combinator = iota
	Disjunctive
)

func (c Combinator) String() string {
	switch c {
	case Conjunctive:
		return "con"
	case Disjunctive:
		return "dis"
	}
	return fmt.Sprintf("Combinator(%d)", int(c))
}

func ParseCombinator(s string) (Combinator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "con", "and", "conjunctive":
		return Conjunctive, nil
	case "dis", "or", "disjunctive":
		return Disjunctive, nil
	}
	return 0, fmt.Errorf("unknown cedent type %q", s)
}

// AttributeSlot restricts one attribute of a cedent definition.
type AttributeSlot struct {
	Attribute string
	Policy    Policy
	MinLen    int
	MaxLen    int
	// Value is the category of a Fixed slot.
	Value string
}

// Definition describes one cedent role of a task.
type Definition struct {
	Combinator Combinator
	Slots      []AttributeSlot
	MinAttrs   int
	MaxAttrs   int
}

// Empty is the cedent with no literal at all, always true.
func Empty() Definition {
	return Definition{Combinator: Conjunctive}
}

// SlotError points at the slot of a definition that failed to compile.
type SlotError struct {
	Slot   int
	Reason string
}

func (e *SlotError) Error() string {
	if e.Slot < 0 {
		return e.Reason
	}
	return fmt.Sprintf("attributes[%d]: %s", e.Slot, e.Reason)
}

type slot struct {
	attr     int
	variable *dataset.Variable
	policy   Policy
	minLen   int
	maxLen   int
	fixed    int
}

// Compiled is a definition resolved against a dataset, ready to enumerate.
type Compiled struct {
	Definition
	slots []slot
	ds    *dataset.Dataset
	masks *MaskCache
}

// Compile resolves attribute and category names and checks the length
// bounds of the definition.
func Compile(def Definition, ds *dataset.Dataset, masks *MaskCache) (*Compiled, error) {
	if def.MinAttrs < 0 || def.MaxAttrs < 0 {
		return nil, &SlotError{Slot: -1, Reason: "minlen and maxlen must not be negative"}
	}
	if def.MinAttrs > def.MaxAttrs {
		return nil, &SlotError{Slot: -1,
			Reason: fmt.Sprintf("minlen %d is greater than maxlen %d", def.MinAttrs, def.MaxAttrs)}
	}
	if def.MinAttrs > len(def.Slots) {
		return nil, &SlotError{Slot: -1,
			Reason: fmt.Sprintf("minlen %d exceeds the %d attributes listed", def.MinAttrs, len(def.Slots))}
	}
	if def.Combinator != Conjunctive && def.Combinator != Disjunctive {
		return nil, &SlotError{Slot: -1, Reason: fmt.Sprintf("unknown cedent type %v", def.Combinator)}
	}
	if masks == nil {
		masks = NewMaskCache(ds, 0)
	}

	c := &Compiled{Definition: def, ds: ds, masks: masks, slots: make([]slot, 0, len(def.Slots))}
	for i, as := range def.Slots {
		attr, ok := ds.VariableIndex(as.Attribute)
		if !ok {
			return nil, &SlotError{Slot: i, Reason: fmt.Sprintf("attribute %q not found in dataset", as.Attribute)}
		}
		v := ds.Variable(attr)
		s := slot{attr: attr, variable: v, policy: as.Policy, minLen: as.MinLen, maxLen: as.MaxLen, fixed: -1}
		switch as.Policy {
		case Fixed:
			cat, ok := v.CategoryIndex(as.Value)
			if !ok {
				return nil, &SlotError{Slot: i,
					Reason: fmt.Sprintf("category %q not found in attribute %q", as.Value, as.Attribute)}
			}
			s.fixed = cat
			s.minLen, s.maxLen = 1, 1
		case Subset, Sequence, LeftCut, RightCut:
			if as.MaxLen > 0 && as.MaxLen < as.MinLen {
				return nil, &SlotError{Slot: i,
					Reason: fmt.Sprintf("minlen %d is greater than maxlen %d", as.MinLen, as.MaxLen)}
			}
			// maxlen 0 leaves the literal length unbounded.
			if s.minLen < 1 {
				s.minLen = 1
			}
			if s.maxLen == 0 || s.maxLen > len(v.Categories) {
				s.maxLen = len(v.Categories)
			}
		default:
			return nil, &SlotError{Slot: i, Reason: fmt.Sprintf("unknown enumeration policy %v", as.Policy)}
		}
		c.slots = append(c.slots, s)
	}
	return c, nil
}

// eachLiteral calls fn with the category indices of every literal the slot
// admits, in enumeration order. fn returns false to stop.
func (s *slot) eachLiteral(fn func(cats []int) bool) bool {
	n := len(s.variable.Categories)
	switch s.policy {
	case Fixed:
		return fn([]int{s.fixed})
	case Subset:
		buf := make([]int, 0, s.maxLen)
		return s.subsets(buf, 0, n, fn)
	case Sequence:
		for length := s.minLen; length <= s.maxLen; length++ {
			for start := 0; start+length <= n; start++ {
				if !fn(window(start, length)) {
					return false
				}
			}
		}
	case LeftCut:
		for length := s.minLen; length <= s.maxLen; length++ {
			if !fn(window(0, length)) {
				return false
			}
		}
	case RightCut:
		for length := s.minLen; length <= s.maxLen; length++ {
			if !fn(window(n-length, length)) {
				return false
			}
		}
	}
	return true
}

// subsets walks subsets depth first by prefix extension:
// {A} {A,B} {A,B,C} {A,C} {B} {B,C} {C}.
func (s *slot) subsets(prefix []int, from, n int, fn func(cats []int) bool) bool {
	for c := from; c < n; c++ {
		cur := append(prefix, c)
		if len(cur) >= s.minLen && !fn(cur) {
			return false
		}
		if len(cur) < s.maxLen && !s.subsets(cur, c+1, n, fn) {
			return false
		}
	}
	return true
}

func window(start, length int) []int {
	cats := make([]int, length)
	for i := range cats {
		cats[i] = start + i
	}
	return cats
}
