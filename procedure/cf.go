package procedure

import (
	Hist "guha/histogram"
	Q "guha/quantifier"
)

var cfQuantifiers = []Q.Spec{
	{Name: "Base", Stat: "base", BoundRoles: []string{Cond}},
	{Name: "RelBase", Stat: "rel_base", BoundRoles: []string{Cond}, Relative: true},
	{Name: "S_Up", Stat: "s_up"},
	{Name: "S_Down", Stat: "s_down"},
	{Name: "S_Any", Stat: "s_any"},
	{Name: "Max", Stat: "max"},
	{Name: "Min", Stat: "min"},
	{Name: "RelMax", Stat: "rel_max"},
	{Name: "RelMin", Stat: "rel_min"},
	{Name: "RelMax_leq", Stat: "rel_max", Cmp: Q.AtMost},
	{Name: "RelMin_leq", Stat: "rel_min", Cmp: Q.AtMost},
}

// verifyCF reads the histogram of the target variable within cond.
func verifyCF(in *Input) Outcome {
	if in.Target == nil {
		return Outcome{}
	}
	h := Hist.FromMasks(in.Target, in.Masks[Cond])
	base := float64(h.Count())
	up, down := h.StepsUp(), h.StepsDown()
	sAny := up
	if down > sAny {
		sAny = down
	}

	stats := map[string]float64{
		"base":   base,
		"s_up":   float64(up),
		"s_down": float64(down),
		"s_any":  float64(sAny),
		"max":    float64(h.Max()),
		"min":    float64(h.Min()),
	}
	setRatio(stats, "rel_base", base, float64(in.RowCount))
	setRatio(stats, "rel_max", float64(h.Max()), base)
	setRatio(stats, "rel_min", float64(h.Min()), base)
	return Outcome{Stats: stats, Histogram: h.Ints(), Defined: true}
}
