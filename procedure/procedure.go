package procedure

import (
	"fmt"
	"strings"

	"guha/bitset"
	"guha/dataset"
	Q "guha/quantifier"
)

// Cedent role names.
const (
	Cond        = "cond"
	Ante        = "ante"
	Succ        = "succ"
	First       = "frst"
	Second      = "scnd"
	AnteVar     = "antv"
	SuccVar     = "sucv"
	AnteVarPre  = "antv-"
	AnteVarPost = "antv+"
	SuccVarPre  = "sucv-"
	SuccVarPost = "sucv+"
)

// Kind selects one of the verification procedures.
type Kind int

const (
	CF Kind = iota
	FourFt
	SD4ft
	Act4ft
	NewAct4ft
)

var kindNames = []string{"CFMiner", "4ftMiner", "SD4ftMiner", "Act4ftMiner", "NewAct4ftMiner"}

func (k Kind) String() string {
	if k < CF || k > NewAct4ft {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Parse maps a procedure name to its kind. Names are case-insensitive and
// the Miner suffix is optional.
func Parse(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "miner")
	switch n {
	case "cf":
		return CF, nil
	case "4ft":
		return FourFt, nil
	case "sd4ft":
		return SD4ft, nil
	case "act4ft":
		return Act4ft, nil
	case "newact4ft":
		return NewAct4ft, nil
	}
	return 0, fmt.Errorf("unsupported procedure %q", name)
}

// Roles lists the cedent roles of the procedure in search nesting order.
func (k Kind) Roles() []string {
	switch k {
	case CF:
		return []string{Cond}
	case FourFt:
		return []string{Cond, Ante, Succ}
	case SD4ft:
		return []string{Cond, First, Second, Ante, Succ}
	case Act4ft:
		return []string{Cond, AnteVarPre, AnteVarPost, SuccVarPre, SuccVarPost, Ante, Succ}
	case NewAct4ft:
		return []string{Cond, AnteVar, SuccVar, Ante, Succ}
	}
	return nil
}

// OptionalRoles may be left out of a task; they default to the empty cedent.
func (k Kind) OptionalRoles() []string {
	return []string{Cond}
}

// VariantPairs lists role pairs whose instances must use the same attribute
// set: the before and after value of the same flexible attributes.
func (k Kind) VariantPairs() [][2]string {
	if k == Act4ft {
		return [][2]string{{AnteVarPre, AnteVarPost}, {SuccVarPre, SuccVarPost}}
	}
	return nil
}

// NeedsTarget reports whether the procedure reads a target variable.
func (k Kind) NeedsTarget() bool {
	return k == CF
}

// Quantifiers declares the quantifiers the procedure understands.
func (k Kind) Quantifiers() []Q.Spec {
	switch k {
	case CF:
		return cfQuantifiers
	case FourFt:
		return fourFtQuantifiers
	case SD4ft:
		return sd4ftQuantifiers
	case Act4ft:
		return actQuantifiers(
			[]string{Cond, AnteVarPre, Ante, Succ, SuccVarPre},
			[]string{Cond, AnteVarPost, Ante, Succ, SuccVarPost})
	case NewAct4ft:
		// The pre rule negates the variant cedents, so only the stable
		// roles bound its base.
		return actQuantifiers(
			[]string{Cond, Ante, Succ},
			[]string{Cond, AnteVar, Ante, Succ, SuccVar})
	}
	return nil
}

// Input is one fully materialised combination of cedents.
type Input struct {
	RowCount int
	Masks    map[string]bitset.Mask
	Target   *dataset.Variable
}

// Outcome is what a verifier computed. Defined is false when the
// combination has no meaningful statistics (a zero denominator the
// procedure cannot do without); such combinations are rejected regardless
// of quantifiers.
type Outcome struct {
	Stats     map[string]float64
	Histogram []int
	Defined   bool
}

// Verify computes the procedure statistics of one combination.
func (k Kind) Verify(in *Input) Outcome {
	switch k {
	case CF:
		return verifyCF(in)
	case FourFt:
		return verify4ft(in)
	case SD4ft:
		return verifySD4ft(in)
	case Act4ft:
		return verifyAct4ft(in)
	case NewAct4ft:
		return verifyNewAct4ft(in)
	}
	return Outcome{}
}

func ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

func setRatio(stats map[string]float64, key string, num, den float64) bool {
	v, ok := ratio(num, den)
	if ok {
		stats[key] = v
	}
	return ok
}
