package cedent

import (
	"strings"

	"guha/bitset"
	"guha/dataset"
)

// Literal restricts one attribute to a subset of its categories.
type Literal struct {
	Attribute  int   `json:"attribute"`
	Categories []int `json:"categories"`
}

// Format renders the literal as Name(cat1 cat2).
func (l Literal) Format(ds *dataset.Dataset) string {
	v := ds.Variable(l.Attribute)
	labels := make([]string, len(l.Categories))
	for i, c := range l.Categories {
		labels[i] = v.Categories[c]
	}
	return v.Name + "(" + strings.Join(labels, " ") + ")"
}

// Instance is the cedent state the enumerator is currently at. It is only
// valid during the Visitor call that receives it; anything kept afterwards
// must be copied (see Snapshot).
type Instance struct {
	Literals []Literal
	Mask     bitset.Mask

	def *Compiled
}

// Len is the number of literals chosen so far.
func (in *Instance) Len() int {
	return len(in.Literals)
}

// Valid reports whether the instance has reached the definition's minimum
// length. The maximum is never exceeded by the enumerator.
func (in *Instance) Valid() bool {
	return len(in.Literals) >= in.def.MinAttrs
}

// Attributes returns the attribute indices of the chosen literals, ascending
// by slot.
func (in *Instance) Attributes() []int {
	attrs := make([]int, len(in.Literals))
	for i, l := range in.Literals {
		attrs[i] = l.Attribute
	}
	return attrs
}

// Snapshot copies the chosen literals.
func (in *Instance) Snapshot() []Literal {
	lits := make([]Literal, len(in.Literals))
	for i, l := range in.Literals {
		lits[i] = Literal{Attribute: l.Attribute, Categories: append([]int(nil), l.Categories...)}
	}
	return lits
}

// Trace renders the instance, literals joined by & or | per combinator.
func (in *Instance) Trace() string {
	sep := " & "
	if in.def.Combinator == Disjunctive {
		sep = " | "
	}
	parts := make([]string, len(in.Literals))
	for i, l := range in.Literals {
		parts[i] = l.Format(in.def.ds)
	}
	return strings.Join(parts, sep)
}

// Action tells the enumerator how to continue after a visit.
type Action int

const (
	// Continue extends the instance with further literals.
	Continue Action = iota
	// Prune skips every extension of the instance.
	Prune
	// Stop ends the enumeration.
	Stop
)

// Visitor receives every instance the enumerator reaches, including the ones
// still shorter than the minimum length, so callers can prune early.
type Visitor func(in *Instance) Action

// Enumerate walks every instance of the definition depth first. Slots are
// chosen in ascending order and literals of a slot in policy order, so each
// combination is reached exactly once and always in the same order. With a
// minimum length of zero the empty instance comes first: all rows for a
// conjunction, no rows for a disjunction. It returns false when the visitor
// stopped the walk.
func (c *Compiled) Enumerate(visit Visitor) bool {
	in := &Instance{
		Literals: make([]Literal, 0, c.MaxAttrs),
		Mask:     c.identity(),
		def:      c,
	}
	if c.MinAttrs == 0 {
		switch visit(in) {
		case Stop:
			return false
		case Prune:
			return true
		}
	}
	if c.MaxAttrs == 0 {
		return true
	}
	return c.extend(in, 0, visit)
}

func (c *Compiled) identity() bitset.Mask {
	if c.Combinator == Disjunctive {
		return bitset.New(c.ds.RowCount)
	}
	return c.ds.All()
}

func (c *Compiled) extend(in *Instance, from int, visit Visitor) bool {
	for si := from; si < len(c.slots); si++ {
		s := &c.slots[si]
		ok := s.eachLiteral(func(cats []int) bool {
			prev := in.Mask
			lit := c.masks.Mask(s.attr, cats)
			switch {
			case len(in.Literals) == 0:
				in.Mask = lit
			case c.Combinator == Disjunctive:
				in.Mask = prev.Or(lit)
			default:
				in.Mask = prev.And(lit)
			}
			in.Literals = append(in.Literals, Literal{Attribute: s.attr, Categories: cats})

			cont := true
			switch visit(in) {
			case Stop:
				cont = false
			case Continue:
				if len(in.Literals) < c.MaxAttrs {
					cont = c.extend(in, si+1, visit)
				}
			}

			in.Literals = in.Literals[:len(in.Literals)-1]
			in.Mask = prev
			return cont
		})
		if !ok {
			return false
		}
	}
	return true
}
