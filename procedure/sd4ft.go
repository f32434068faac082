package procedure

import (
	Q "guha/quantifier"
)

var sd4ftQuantifiers = []Q.Spec{
	{Name: "Base1", Stat: "base1", BoundRoles: []string{Cond, First, Ante, Succ}},
	{Name: "Base2", Stat: "base2", BoundRoles: []string{Cond, Second, Ante, Succ}},
	{Name: "RelBase1", Stat: "rel_base1", BoundRoles: []string{Cond, First, Ante, Succ}, Relative: true},
	{Name: "RelBase2", Stat: "rel_base2", BoundRoles: []string{Cond, Second, Ante, Succ}, Relative: true},
	{Name: "conf1", Aliases: []string{"pim1"}, Stat: "conf1"},
	{Name: "conf2", Aliases: []string{"pim2"}, Stat: "conf2"},
	{Name: "DeltaConf", Aliases: []string{"Deltapim"}, Stat: "deltaconf"},
	{Name: "RatioConf", Aliases: []string{"Ratiopim"}, Stat: "ratioconf"},
	{Name: "DeltaConf_leq", Aliases: []string{"Deltapim_leq"}, Stat: "deltaconf", Cmp: Q.AtMost},
	{Name: "RatioConf_leq", Aliases: []string{"Ratiopim_leq"}, Stat: "ratioconf", Cmp: Q.AtMost},
}

// verifySD4ft compares the 4ft rule ante => succ on two subgroups of cond.
func verifySD4ft(in *Input) Outcome {
	cond := in.Masks[Cond]
	t1 := tableOf(cond.And(in.Masks[First]), in.Masks[Ante], in.Masks[Succ])
	t2 := tableOf(cond.And(in.Masks[Second]), in.Masks[Ante], in.Masks[Succ])

	stats := make(map[string]float64, 16)
	t1.put(stats, "", "1")
	t2.put(stats, "", "2")
	stats["base1"] = float64(t1.a)
	stats["base2"] = float64(t2.a)
	setRatio(stats, "rel_base1", float64(t1.a), float64(in.RowCount))
	setRatio(stats, "rel_base2", float64(t2.a), float64(in.RowCount))

	conf1, ok1 := t1.conf()
	conf2, ok2 := t2.conf()
	if !ok1 || !ok2 {
		return Outcome{Stats: stats}
	}
	stats["conf1"] = conf1
	stats["conf2"] = conf2
	stats["deltaconf"] = conf1 - conf2
	setRatio(stats, "ratioconf", conf1, conf2)
	return Outcome{Stats: stats, Defined: true}
}
