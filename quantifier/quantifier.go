package quantifier

import (
	"fmt"
	"sort"
	"strings"
)

// Map is the user supplied threshold per quantifier name.
type Map map[string]float64

// Comparison is the direction a threshold is checked in.
type Comparison int

const (
	// AtLeast passes when threshold <= observed.
	AtLeast Comparison = iota
	// AtMost passes when observed <= threshold; used by the _leq quantifiers.
	AtMost
)

// Spec declares one quantifier a procedure understands.
type Spec struct {
	Name    string
	Aliases []string
	// Stat is the statistic key the quantifier reads.
	Stat string
	Cmp  Comparison
	// BoundRoles lists the cedent roles whose conjunction bounds the
	// statistic from above. Only base (support) quantifiers have them; they
	// are the ones that can prune the search.
	BoundRoles []string
	// Relative thresholds are fractions of the row count.
	Relative bool
}

// Monotone reports whether the quantifier can only fail more often as
// conjunctive literals are added.
func (s Spec) Monotone() bool {
	return len(s.BoundRoles) > 0 && s.Cmp == AtLeast
}

// Normalize is the canonical form of a quantifier name. Names are matched
// case-insensitively, so Base, BASE and base are the same quantifier.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Threshold is a Spec bound to its user value.
type Threshold struct {
	Spec
	Value float64
}

// Passes checks the threshold against a statistics map. A statistic that is
// missing (undefined for this combination) fails.
func (t Threshold) Passes(stats map[string]float64) bool {
	observed, ok := stats[t.Stat]
	if !ok {
		return false
	}
	if t.Cmp == AtMost {
		return observed <= t.Value
	}
	return t.Value <= observed
}

// Reaches reports whether a row count still passes a base threshold. A
// relative threshold is compared as the ratio the verifier reports, so
// pruning and verification agree on rounding.
func (t Threshold) Reaches(count, rowCount int) bool {
	observed := float64(count)
	if t.Relative {
		if rowCount == 0 {
			return false
		}
		observed /= float64(rowCount)
	}
	return t.Value <= observed
}

// Set is a compiled quantifier map, ordered by name for determinism.
type Set []Threshold

// Compile resolves every name in m against specs. Unknown names and names
// given twice (e.g. conf and its alias pim) are errors.
func Compile(m Map, specs []Spec) (Set, error) {
	byName := make(map[string]Spec, len(specs))
	for _, s := range specs {
		byName[Normalize(s.Name)] = s
		for _, a := range s.Aliases {
			byName[Normalize(a)] = s
		}
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make(Set, 0, len(m))
	used := make(map[string]string, len(m))
	for _, name := range names {
		spec, ok := byName[Normalize(name)]
		if !ok {
			return nil, fmt.Errorf("unknown quantifier %q", name)
		}
		if prev, dup := used[spec.Name]; dup {
			return nil, fmt.Errorf("quantifier %q given twice (as %q and %q)", spec.Name, prev, name)
		}
		used[spec.Name] = name
		set = append(set, Threshold{Spec: spec, Value: m[name]})
	}
	return set, nil
}

// Check reports whether every threshold passes.
func (s Set) Check(stats map[string]float64) bool {
	for _, t := range s {
		if !t.Passes(stats) {
			return false
		}
	}
	return true
}

// Monotone returns the thresholds usable for pruning.
func (s Set) Monotone() []Threshold {
	out := make([]Threshold, 0)
	for _, t := range s {
		if t.Monotone() {
			out = append(out, t)
		}
	}
	return out
}
