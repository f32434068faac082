package procedure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guha/bitset"
	"guha/dataset"
	Q "guha/quantifier"
)

func TestParse(t *testing.T) {
	tests := map[string]Kind{
		"CFMiner":        CF,
		"4ftMiner":       FourFt,
		"4FTMINER":       FourFt,
		"4ft":            FourFt,
		"SD4ftMiner":     SD4ft,
		"Act4ftMiner":    Act4ft,
		"NewAct4ftMiner": NewAct4ft,
	}
	for name, want := range tests {
		k, err := Parse(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, k, name)
	}
	_, err := Parse("UICMiner")
	assert.Error(t, err)
	assert.Equal(t, "SD4ftMiner", SD4ft.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestRoles(t *testing.T) {
	assert.Equal(t, []string{"cond"}, CF.Roles())
	assert.Equal(t, []string{"cond", "ante", "succ"}, FourFt.Roles())
	assert.Equal(t, []string{"cond", "frst", "scnd", "ante", "succ"}, SD4ft.Roles())
	assert.Equal(t, []string{"cond", "antv-", "antv+", "sucv-", "sucv+", "ante", "succ"}, Act4ft.Roles())
	assert.Equal(t, []string{"cond", "antv", "sucv", "ante", "succ"}, NewAct4ft.Roles())
	assert.True(t, CF.NeedsTarget())
	assert.False(t, FourFt.NeedsTarget())
	assert.Len(t, Act4ft.VariantPairs(), 2)
	assert.Empty(t, NewAct4ft.VariantPairs())
}

// Bound roles of every base quantifier must be roles of the procedure,
// otherwise pruning would read a mask that is never set.
func TestBoundRolesBelongToProcedure(t *testing.T) {
	for _, k := range []Kind{CF, FourFt, SD4ft, Act4ft, NewAct4ft} {
		roles := make(map[string]bool)
		for _, r := range k.Roles() {
			roles[r] = true
		}
		for _, spec := range k.Quantifiers() {
			for _, r := range spec.BoundRoles {
				assert.True(t, roles[r], "%s %s bound role %s", k, spec.Name, r)
			}
		}
	}
}

// a=3 b=1 c=2 d=4 on ten rows.
func fourfoldMasks() (cond, ante, succ bitset.Mask) {
	return bitset.Full(10), bitset.FromRows(10, 0, 1, 2, 3), bitset.FromRows(10, 0, 1, 2, 4, 5)
}

func TestVerify4ft(t *testing.T) {
	cond, ante, succ := fourfoldMasks()
	out := FourFt.Verify(&Input{RowCount: 10, Masks: map[string]bitset.Mask{Cond: cond, Ante: ante, Succ: succ}})
	require.True(t, out.Defined)

	assert.Equal(t, 3.0, out.Stats["a"])
	assert.Equal(t, 1.0, out.Stats["b"])
	assert.Equal(t, 2.0, out.Stats["c"])
	assert.Equal(t, 4.0, out.Stats["d"])
	assert.Equal(t, 3.0, out.Stats["base"])
	assert.InDelta(t, 0.3, out.Stats["rel_base"], 1e-9)
	assert.InDelta(t, 0.75, out.Stats["conf"], 1e-9)
	a, b, c, d := 3.0, 1.0, 2.0, 4.0
	aad := a*(a+b+c+d)/((a+b)*(a+c)) - 1
	assert.InDelta(t, aad, out.Stats["aad"], 1e-9)
	assert.InDelta(t, 0.5, out.Stats["aad"], 1e-9)
	assert.InDelta(t, -0.5, out.Stats["bad"], 1e-9)

	set, err := Q.Compile(Q.Map{"Base": 3, "conf": 0.75, "aad": 0.5}, FourFt.Quantifiers())
	require.NoError(t, err)
	assert.True(t, set.Check(out.Stats))
	set, err = Q.Compile(Q.Map{"Base": 4}, FourFt.Quantifiers())
	require.NoError(t, err)
	assert.False(t, set.Check(out.Stats))
}

func TestVerify4ftRestrictedToCondition(t *testing.T) {
	_, ante, succ := fourfoldMasks()
	cond := bitset.FromRows(10, 0, 3, 4, 6)
	out := FourFt.Verify(&Input{RowCount: 10, Masks: map[string]bitset.Mask{Cond: cond, Ante: ante, Succ: succ}})
	require.True(t, out.Defined)
	assert.Equal(t, []float64{1, 1, 1, 1},
		[]float64{out.Stats["a"], out.Stats["b"], out.Stats["c"], out.Stats["d"]})
	assert.InDelta(t, 0.5, out.Stats["conf"], 1e-9)
	assert.InDelta(t, 0.0, out.Stats["aad"], 1e-9)
}

func TestVerify4ftZeroDenominator(t *testing.T) {
	out := FourFt.Verify(&Input{RowCount: 4, Masks: map[string]bitset.Mask{
		Cond: bitset.FromRows(4, 0, 1), Ante: bitset.FromRows(4, 2, 3), Succ: bitset.Full(4),
	}})
	assert.False(t, out.Defined)
	_, ok := out.Stats["conf"]
	assert.False(t, ok)
	assert.Equal(t, 0.0, out.Stats["base"])
}

func TestVerifyCF(t *testing.T) {
	d, _, err := dataset.Encode(8, []dataset.Column{
		{Name: "T", Values: []string{"1", "2", "2", "3", "3", "3", "1", "2"}},
	}, 0)
	require.NoError(t, err)

	out := CF.Verify(&Input{RowCount: 8, Target: d.Variable(0),
		Masks: map[string]bitset.Mask{Cond: bitset.FromRows(8, 0, 1, 2, 3, 4, 5)}})
	require.True(t, out.Defined)
	assert.Equal(t, []int{1, 2, 3}, out.Histogram)
	assert.Equal(t, 6.0, out.Stats["base"])
	assert.Equal(t, 2.0, out.Stats["s_up"])
	assert.Equal(t, 0.0, out.Stats["s_down"])
	assert.Equal(t, 2.0, out.Stats["s_any"])
	assert.Equal(t, 3.0, out.Stats["max"])
	assert.Equal(t, 1.0, out.Stats["min"])
	assert.InDelta(t, 0.5, out.Stats["rel_max"], 1e-9)
	assert.InDelta(t, 0.75, out.Stats["rel_base"], 1e-9)

	empty := CF.Verify(&Input{RowCount: 8, Target: d.Variable(0),
		Masks: map[string]bitset.Mask{Cond: bitset.New(8)}})
	_, ok := empty.Stats["rel_max"]
	assert.False(t, ok)

	assert.False(t, CF.Verify(&Input{RowCount: 8, Masks: map[string]bitset.Mask{Cond: bitset.Full(8)}}).Defined)
}

func TestVerifySD4ft(t *testing.T) {
	cond, ante, succ := fourfoldMasks()
	frst := bitset.FromRows(10, 0, 1, 2, 3, 4) // a=3 b=1 -> conf 0.75
	scnd := bitset.FromRows(10, 2, 3, 5, 6, 7) // a=1 b=1 -> conf 0.5
	out := SD4ft.Verify(&Input{RowCount: 10, Masks: map[string]bitset.Mask{
		Cond: cond, First: frst, Second: scnd, Ante: ante, Succ: succ,
	}})
	require.True(t, out.Defined)
	assert.Equal(t, 3.0, out.Stats["base1"])
	assert.Equal(t, 1.0, out.Stats["base2"])
	assert.InDelta(t, 0.75, out.Stats["conf1"], 1e-9)
	assert.InDelta(t, 0.5, out.Stats["conf2"], 1e-9)
	assert.InDelta(t, 0.25, out.Stats["deltaconf"], 1e-9)
	assert.InDelta(t, 1.5, out.Stats["ratioconf"], 1e-9)

	set, err := Q.Compile(Q.Map{"BASE1": 2, "Base2": 1, "DeltaConf": 0.2, "RatioConf": 1.4}, SD4ft.Quantifiers())
	require.NoError(t, err)
	assert.True(t, set.Check(out.Stats))

	noSecond := SD4ft.Verify(&Input{RowCount: 10, Masks: map[string]bitset.Mask{
		Cond: cond, First: frst, Second: bitset.FromRows(10, 8, 9), Ante: ante, Succ: succ,
	}})
	assert.False(t, noSecond.Defined)
}

func TestVerifyAct4ft(t *testing.T) {
	full := bitset.Full(8)
	out := Act4ft.Verify(&Input{RowCount: 8, Masks: map[string]bitset.Mask{
		Cond:        full,
		Ante:        full,
		Succ:        full,
		AnteVarPre:  bitset.FromRows(8, 0, 1, 2, 3),
		AnteVarPost: bitset.FromRows(8, 4, 5, 6, 7),
		SuccVarPre:  bitset.FromRows(8, 0, 4, 5, 6),
		SuccVarPost: bitset.FromRows(8, 1, 2, 3, 7),
	}})
	require.True(t, out.Defined)
	// before: rows 0-3, one of them with sucv-; after: rows 4-7, one with sucv+.
	assert.Equal(t, 1.0, out.Stats["pre_base"])
	assert.Equal(t, 1.0, out.Stats["post_base"])
	assert.InDelta(t, 0.25, out.Stats["pre_conf"], 1e-9)
	assert.InDelta(t, 0.25, out.Stats["post_conf"], 1e-9)

	out = Act4ft.Verify(&Input{RowCount: 8, Masks: map[string]bitset.Mask{
		Cond:        full,
		Ante:        full,
		Succ:        full,
		AnteVarPre:  bitset.FromRows(8, 0, 1, 2, 3),
		AnteVarPost: bitset.FromRows(8, 4, 5, 6, 7),
		SuccVarPre:  bitset.FromRows(8, 0, 1, 6),
		SuccVarPost: bitset.FromRows(8, 4, 5, 6),
	}})
	require.True(t, out.Defined)
	assert.InDelta(t, 0.5, out.Stats["pre_conf"], 1e-9)
	assert.InDelta(t, 0.75, out.Stats["post_conf"], 1e-9)
	assert.InDelta(t, 0.25, out.Stats["deltaconf"], 1e-9)
	assert.InDelta(t, 1.5, out.Stats["ratioconf"], 1e-9)
}

func TestVerifyNewAct4ft(t *testing.T) {
	full := bitset.Full(8)
	out := NewAct4ft.Verify(&Input{RowCount: 8, Masks: map[string]bitset.Mask{
		Cond:    full,
		Ante:    bitset.FromRows(8, 0, 1, 2, 3, 4, 5),
		Succ:    full,
		AnteVar: bitset.FromRows(8, 4, 5, 6, 7),
		SuccVar: bitset.FromRows(8, 3, 4),
	}})
	require.True(t, out.Defined)
	// without change: ante rows 0-3, succ without sucv rows 0-2 -> 3/4.
	// with change: ante rows 4,5, succ with sucv row 4 -> 1/2.
	assert.InDelta(t, 0.75, out.Stats["pre_conf"], 1e-9)
	assert.InDelta(t, 0.5, out.Stats["post_conf"], 1e-9)
	assert.InDelta(t, -0.25, out.Stats["deltaconf"], 1e-9)
	assert.Equal(t, 3.0, out.Stats["pre_base"])
	assert.Equal(t, 1.0, out.Stats["post_base"])

	set, err := Q.Compile(Q.Map{"DeltaConf_leq": -0.2, "PreBase": 3}, NewAct4ft.Quantifiers())
	require.NoError(t, err)
	assert.True(t, set.Check(out.Stats))
}
