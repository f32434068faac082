package miner

import (
	"sort"
	"strings"

	"guha/cedent"
	"guha/dataset"
	"guha/procedure"
	Q "guha/quantifier"
)

// Task describes one mining run.
type Task struct {
	Procedure   string                       `json:"procedure"`
	Quantifiers Q.Map                        `json:"quantifiers"`
	Cedents     map[string]cedent.Definition `json:"cedents"`
	// Target names the histogram variable of CFMiner.
	Target string `json:"target,omitempty"`
}

// Options tune the search without changing which rules are found, except
// MaxRules which cuts the search short.
type Options struct {
	DisablePruning   bool `json:"disable_pruning"`
	MaxRules         int  `json:"max_rules"`
	LiteralCacheSize int  `json:"literal_cache_size"`
}

// level is one role of the search, compiled against the dataset.
type level struct {
	role   string
	cedent *cedent.Compiled
	// partner is the index of the earlier level whose attribute set this
	// level has to repeat, or -1.
	partner int
}

type plan struct {
	kind        procedure.Kind
	levels      []level
	quantifiers Q.Set
	bounds      []Q.Threshold
	target      *dataset.Variable
}

// compile validates the task against the dataset. Every error it returns is
// a *ConfigurationError.
func compile(ds *dataset.Dataset, task *Task, cache *cedent.MaskCache) (*plan, error) {
	kind, err := procedure.Parse(task.Procedure)
	if err != nil {
		return nil, configErr("procedure", "%s", err)
	}
	p := &plan{kind: kind}

	if kind.NeedsTarget() {
		if task.Target == "" {
			return nil, configErr("target", "%s needs a target attribute", kind)
		}
		idx, ok := ds.VariableIndex(task.Target)
		if !ok {
			return nil, configErr("target", "attribute %q not found in dataset", task.Target)
		}
		p.target = ds.Variable(idx)
	}

	defs, err := resolveRoles(kind, task.Cedents)
	if err != nil {
		return nil, err
	}
	if err := checkVariantPairs(kind, defs); err != nil {
		return nil, err
	}

	roleIndex := make(map[string]int)
	for i, role := range kind.Roles() {
		roleIndex[role] = i
	}
	partners := make(map[string]string)
	for _, pair := range kind.VariantPairs() {
		partners[pair[1]] = pair[0]
	}

	for _, role := range kind.Roles() {
		c, err := cedent.Compile(defs[role], ds, cache)
		if err != nil {
			return nil, configErr("cedents."+role, "%s", err)
		}
		l := level{role: role, cedent: c, partner: -1}
		if other, ok := partners[role]; ok {
			l.partner = roleIndex[other]
		}
		p.levels = append(p.levels, l)
	}

	p.quantifiers, err = Q.Compile(task.Quantifiers, kind.Quantifiers())
	if err != nil {
		return nil, configErr("quantifiers", "%s", err)
	}
	p.bounds = p.quantifiers.Monotone()
	return p, nil
}

// resolveRoles maps the task's cedents onto the procedure roles. Role names
// are case-insensitive; optional roles that are left out get the empty
// cedent.
func resolveRoles(kind procedure.Kind, cedents map[string]cedent.Definition) (map[string]cedent.Definition, error) {
	known := make(map[string]bool)
	for _, role := range kind.Roles() {
		known[role] = true
	}

	names := make([]string, 0, len(cedents))
	for name := range cedents {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make(map[string]cedent.Definition, len(kind.Roles()))
	for _, name := range names {
		role := strings.ToLower(strings.TrimSpace(name))
		if !known[role] {
			return nil, configErr("cedents."+name, "%s has no %q cedent", kind, name)
		}
		if _, dup := defs[role]; dup {
			return nil, configErr("cedents."+name, "cedent %q given twice", role)
		}
		defs[role] = cedents[name]
	}

	for _, role := range kind.OptionalRoles() {
		if _, ok := defs[role]; !ok {
			defs[role] = cedent.Empty()
		}
	}
	for _, role := range kind.Roles() {
		if _, ok := defs[role]; !ok {
			return nil, configErr("cedents."+role, "%s needs a %q cedent", kind, role)
		}
	}
	return defs, nil
}

// checkVariantPairs requires both sides of a change to list the same
// attributes.
func checkVariantPairs(kind procedure.Kind, defs map[string]cedent.Definition) error {
	for _, pair := range kind.VariantPairs() {
		before, after := attributeNames(defs[pair[0]]), attributeNames(defs[pair[1]])
		if strings.Join(before, ",") != strings.Join(after, ",") {
			return configErr("cedents."+pair[1], "attributes %v differ from the %s attributes %v",
				after, pair[0], before)
		}
	}
	return nil
}

func attributeNames(def cedent.Definition) []string {
	names := make([]string, 0, len(def.Slots))
	for _, s := range def.Slots {
		names = append(names, s.Attribute)
	}
	sort.Strings(names)
	return names
}
