package procedure

import (
	"guha/bitset"
	Q "guha/quantifier"
)

var fourFtQuantifiers = []Q.Spec{
	{Name: "Base", Stat: "base", BoundRoles: []string{Cond, Ante, Succ}},
	{Name: "RelBase", Stat: "rel_base", BoundRoles: []string{Cond, Ante, Succ}, Relative: true},
	{Name: "conf", Aliases: []string{"pim"}, Stat: "conf"},
	{Name: "aad", Stat: "aad"},
	{Name: "bad", Stat: "bad"},
}

// fourfold is the 2x2 contingency table of ante x succ within cond:
//
//	        succ  ¬succ
//	ante     a     b
//	¬ante    c     d
type fourfold struct {
	a, b, c, d int
}

func tableOf(cond, ante, succ bitset.Mask) fourfold {
	condAnte := cond.And(ante)
	a := condAnte.AndCount(succ)
	anteCount := condAnte.Count()
	succCount := cond.AndCount(succ)
	n := cond.Count()
	return fourfold{
		a: a,
		b: anteCount - a,
		c: succCount - a,
		d: n - anteCount - succCount + a,
	}
}

func (f fourfold) n() int {
	return f.a + f.b + f.c + f.d
}

// conf is a / (a+b), undefined when the antecedent never holds.
func (f fourfold) conf() (float64, bool) {
	return ratio(float64(f.a), float64(f.a+f.b))
}

// aad is the above average dependence a(a+b+c+d) / ((a+b)(a+c)) - 1.
func (f fourfold) aad() (float64, bool) {
	v, ok := ratio(float64(f.a*f.n()), float64((f.a+f.b)*(f.a+f.c)))
	return v - 1, ok
}

func (f fourfold) put(stats map[string]float64, prefix, suffix string) {
	stats[prefix+"a"+suffix] = float64(f.a)
	stats[prefix+"b"+suffix] = float64(f.b)
	stats[prefix+"c"+suffix] = float64(f.c)
	stats[prefix+"d"+suffix] = float64(f.d)
}

func verify4ft(in *Input) Outcome {
	t := tableOf(in.Masks[Cond], in.Masks[Ante], in.Masks[Succ])
	stats := make(map[string]float64, 9)
	t.put(stats, "", "")
	stats["base"] = float64(t.a)
	setRatio(stats, "rel_base", float64(t.a), float64(in.RowCount))

	conf, ok := t.conf()
	if !ok {
		return Outcome{Stats: stats}
	}
	stats["conf"] = conf
	if aad, ok := t.aad(); ok {
		stats["aad"] = aad
		stats["bad"] = -aad
	}
	return Outcome{Stats: stats, Defined: true}
}
