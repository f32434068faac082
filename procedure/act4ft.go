package procedure

import (
	"guha/bitset"
	Q "guha/quantifier"
)

func actQuantifiers(preRoles, postRoles []string) []Q.Spec {
	return []Q.Spec{
		{Name: "PreBase", Stat: "pre_base", BoundRoles: preRoles},
		{Name: "PostBase", Stat: "post_base", BoundRoles: postRoles},
		{Name: "RelPreBase", Stat: "rel_pre_base", BoundRoles: preRoles, Relative: true},
		{Name: "RelPostBase", Stat: "rel_post_base", BoundRoles: postRoles, Relative: true},
		{Name: "PreConf", Aliases: []string{"Prepim"}, Stat: "pre_conf"},
		{Name: "PostConf", Aliases: []string{"Postpim"}, Stat: "post_conf"},
		{Name: "DeltaConf", Aliases: []string{"Deltapim"}, Stat: "deltaconf"},
		{Name: "RatioConf", Aliases: []string{"Ratiopim"}, Stat: "ratioconf"},
		{Name: "DeltaConf_leq", Aliases: []string{"Deltapim_leq"}, Stat: "deltaconf", Cmp: Q.AtMost},
		{Name: "RatioConf_leq", Aliases: []string{"Ratiopim_leq"}, Stat: "ratioconf", Cmp: Q.AtMost},
	}
}

// verifyAct4ft compares the rule before the change (ante & antv- => succ &
// sucv-) with the rule after it (ante & antv+ => succ & sucv+), both within
// cond.
func verifyAct4ft(in *Input) Outcome {
	m := in.Masks
	return actionOutcome(in.RowCount, m[Cond],
		m[Ante].And(m[AnteVarPre]), m[Succ].And(m[SuccVarPre]),
		m[Ante].And(m[AnteVarPost]), m[Succ].And(m[SuccVarPost]))
}

// verifyNewAct4ft uses one change indicator per side: the rule without the
// change (ante & ¬antv => succ & ¬sucv) against the rule with it
// (ante & antv => succ & sucv).
func verifyNewAct4ft(in *Input) Outcome {
	m := in.Masks
	return actionOutcome(in.RowCount, m[Cond],
		m[Ante].AndNot(m[AnteVar]), m[Succ].AndNot(m[SuccVar]),
		m[Ante].And(m[AnteVar]), m[Succ].And(m[SuccVar]))
}

func actionOutcome(rowCount int, cond, preAnte, preSucc, postAnte, postSucc bitset.Mask) Outcome {
	pre := tableOf(cond, preAnte, preSucc)
	post := tableOf(cond, postAnte, postSucc)

	stats := make(map[string]float64, 16)
	pre.put(stats, "pre_", "")
	post.put(stats, "post_", "")
	stats["pre_base"] = float64(pre.a)
	stats["post_base"] = float64(post.a)
	setRatio(stats, "rel_pre_base", float64(pre.a), float64(rowCount))
	setRatio(stats, "rel_post_base", float64(post.a), float64(rowCount))

	preConf, okPre := pre.conf()
	postConf, okPost := post.conf()
	if !okPre || !okPost {
		return Outcome{Stats: stats}
	}
	stats["pre_conf"] = preConf
	stats["post_conf"] = postConf
	stats["deltaconf"] = postConf - preConf
	setRatio(stats, "ratioconf", postConf, preConf)
	return Outcome{Stats: stats, Defined: true}
}
