package bitset

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Mask is a set of row numbers in [0, Width). Operations never modify their
// operands and always return a fresh mask, so masks can be shared freely
// between cedent instances once built.
type Mask struct {
	bits  *roaring.Bitmap
	width int
}

// New returns an all-false mask over width rows.
func New(width int) Mask {
	return Mask{bits: roaring.New(), width: width}
}

// Full returns an all-true mask over width rows.
func Full(width int) Mask {
	bits := roaring.New()
	if width > 0 {
		bits.AddRange(0, uint64(width))
	}
	return Mask{bits: bits, width: width}
}

// FromRows returns a mask over width rows with the given rows set.
func FromRows(width int, rows ...int) Mask {
	m := New(width)
	for _, r := range rows {
		m.Set(r)
	}
	return m
}

// Set marks row r. It mutates the mask in place and must only be used while
// a mask is being built.
func (m *Mask) Set(r int) {
	if m.bits == nil {
		m.bits = roaring.New()
	}
	if r < 0 {
		return
	}
	if r >= m.width {
		m.width = r + 1
	}
	m.bits.Add(uint32(r))
}

func (m Mask) bitmap() *roaring.Bitmap {
	if m.bits == nil {
		return roaring.New()
	}
	return m.bits
}

func widest(a, b Mask) int {
	if a.width > b.width {
		return a.width
	}
	return b.width
}

// Width is the number of rows the mask ranges over.
func (m Mask) Width() int {
	return m.width
}

func (m Mask) And(o Mask) Mask {
	return Mask{bits: roaring.And(m.bitmap(), o.bitmap()), width: widest(m, o)}
}

func (m Mask) Or(o Mask) Mask {
	return Mask{bits: roaring.Or(m.bitmap(), o.bitmap()), width: widest(m, o)}
}

func (m Mask) AndNot(o Mask) Mask {
	return Mask{bits: roaring.AndNot(m.bitmap(), o.bitmap()), width: widest(m, o)}
}

// Not complements the mask within its width.
func (m Mask) Not() Mask {
	return Mask{bits: roaring.Flip(m.bitmap(), 0, uint64(m.width)), width: m.width}
}

// Count returns the number of set rows.
func (m Mask) Count() int {
	return int(m.bitmap().GetCardinality())
}

// AndCount returns |m ∧ o| without materialising the intersection.
func (m Mask) AndCount(o Mask) int {
	return int(m.bitmap().AndCardinality(o.bitmap()))
}

func (m Mask) Has(r int) bool {
	if r < 0 || r >= m.width {
		return false
	}
	return m.bitmap().Contains(uint32(r))
}

// Equal reports whether both masks have the same width and rows.
func (m Mask) Equal(o Mask) bool {
	return m.width == o.width && m.bitmap().Equals(o.bitmap())
}

// Rows lists the set rows in ascending order.
func (m Mask) Rows() []int {
	arr := m.bitmap().ToArray()
	rows := make([]int, len(arr))
	for i, r := range arr {
		rows[i] = int(r)
	}
	return rows
}

// String renders the mask as a bit string, row 0 first.
func (m Mask) String() string {
	var sb strings.Builder
	sb.Grow(m.width)
	for r := 0; r < m.width; r++ {
		if m.Has(r) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
