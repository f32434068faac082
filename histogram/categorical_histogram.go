package histogram

import (
	"guha/bitset"
	"guha/dataset"
)

// CategoricalHistogram counts rows per category of one variable, keeping
// the variable's category order. The CF procedure reads its shape.
type CategoricalHistogram struct {
	Categories []string `json:"cats"`
	Counts     []uint64 `json:"cnts"`
	Total      uint64   `json:"tot"`
}

func NewCategoricalHistogram(categories []string) *CategoricalHistogram {
	return &CategoricalHistogram{
		Categories: categories,
		Counts:     make([]uint64, len(categories)),
	}
}

// FromMasks builds the histogram of v over the rows set in within.
func FromMasks(v *dataset.Variable, within bitset.Mask) *CategoricalHistogram {
	h := NewCategoricalHistogram(v.Categories)
	for i, m := range v.CategoryMasks {
		n := uint64(m.AndCount(within))
		h.Counts[i] = n
		h.Total += n
	}
	return h
}

func (h *CategoricalHistogram) Count() uint64 {
	return h.Total
}

func (h *CategoricalHistogram) Max() uint64 {
	var max uint64
	for i, c := range h.Counts {
		if i == 0 || c > max {
			max = c
		}
	}
	return max
}

func (h *CategoricalHistogram) Min() uint64 {
	var min uint64
	for i, c := range h.Counts {
		if i == 0 || c < min {
			min = c
		}
	}
	return min
}

// StepsUp is the longest run of consecutive strict increases between
// neighbouring categories.
func (h *CategoricalHistogram) StepsUp() int {
	return h.longestRun(func(prev, cur uint64) bool { return cur > prev })
}

// StepsDown is the longest run of consecutive strict decreases.
func (h *CategoricalHistogram) StepsDown() int {
	return h.longestRun(func(prev, cur uint64) bool { return cur < prev })
}

func (h *CategoricalHistogram) longestRun(step func(prev, cur uint64) bool) int {
	best, run := 0, 0
	for i := 1; i < len(h.Counts); i++ {
		if step(h.Counts[i-1], h.Counts[i]) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// Ints returns the counts as ints.
func (h *CategoricalHistogram) Ints() []int {
	out := make([]int, len(h.Counts))
	for i, c := range h.Counts {
		out[i] = int(c)
	}
	return out
}
