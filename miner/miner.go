package miner

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"guha/bitset"
	"guha/cedent"
	"guha/dataset"
	"guha/procedure"
	Q "guha/quantifier"
)

// RunResult is everything one run produced.
type RunResult struct {
	RunID         string        `json:"run_id"`
	Procedure     string        `json:"procedure"`
	Quantifiers   Q.Map         `json:"quantifiers"`
	Rules         []Rule        `json:"rules"`
	TotalAttempts int           `json:"total_attempts"`
	TotalAccepted int           `json:"total_accepted"`
	// Pruned counts cedent instances whose extensions a base bound skipped.
	Pruned        int           `json:"pruned"`
	Truncated     bool          `json:"truncated"`
	Elapsed       time.Duration `json:"elapsed"`
}

// Run mines every rule of the task that passes its quantifiers. Rules come
// out in enumeration order, which is the same for every run over the same
// dataset and task. Task errors are *ConfigurationError; a cancelled ctx
// aborts the run without a partial result.
func Run(ctx context.Context, ds *dataset.Dataset, task *Task, opts Options) (*RunResult, error) {
	if ds == nil {
		return nil, configErr("dataset", "no dataset given")
	}
	if task == nil {
		return nil, configErr("task", "no task given")
	}

	cache := cedent.NewMaskCache(ds, opts.LiteralCacheSize)
	p, err := compile(ds, task, cache)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logCtx := log.WithFields(log.Fields{"run_id": runID, "procedure": p.kind.String()})
	logCtx.WithFields(log.Fields{"rows": ds.RowCount, "quantifiers": task.Quantifiers,
		"pruning": !opts.DisablePruning}).Info("Starting GUHA run.")

	start := time.Now()
	s := newSearch(ctx, ds, p, opts)
	s.descend(0, s.initialPrefixes())
	if s.err != nil {
		logCtx.WithError(s.err).Error("GUHA run aborted.")
		return nil, E.Wrapf(s.err, "run %s aborted", runID)
	}

	result := &RunResult{
		RunID:         runID,
		Procedure:     p.kind.String(),
		Quantifiers:   task.Quantifiers,
		Rules:         s.collector.Rules(),
		TotalAttempts: s.collector.Attempts(),
		TotalAccepted: s.collector.Accepted(),
		Pruned:        s.pruned,
		Truncated:     s.truncated,
		Elapsed:       time.Since(start),
	}
	logCtx.WithFields(log.Fields{"attempts": result.TotalAttempts, "accepted": result.TotalAccepted,
		"truncated": result.Truncated, "elapsed": result.Elapsed}).Info("Finished GUHA run.")
	logCtx.WithFields(log.Fields{"pruned": s.pruned, "cached_literals": cache.Len()}).Debug("Search statistics.")
	return result, nil
}

// bound is a monotone quantifier with the roles whose masks it counts.
type bound struct {
	Q.Threshold
	roles map[string]bool
}

type search struct {
	ctx       context.Context
	ds        *dataset.Dataset
	plan      *plan
	opts      Options
	bounds    []bound
	collector *Collector

	// State of the levels entered so far.
	masks     map[string]bitset.Mask
	instances []*cedent.Instance

	pruned    int
	truncated bool
	err       error
}

func newSearch(ctx context.Context, ds *dataset.Dataset, p *plan, opts Options) *search {
	s := &search{
		ctx:       ctx,
		ds:        ds,
		plan:      p,
		opts:      opts,
		collector: NewCollector(),
		masks:     make(map[string]bitset.Mask, len(p.levels)),
		instances: make([]*cedent.Instance, len(p.levels)),
	}
	if !opts.DisablePruning {
		for _, t := range p.bounds {
			roles := make(map[string]bool, len(t.BoundRoles))
			for _, r := range t.BoundRoles {
				roles[r] = true
			}
			s.bounds = append(s.bounds, bound{Threshold: t, roles: roles})
		}
	}
	return s
}

// initialPrefixes holds, per bound, the AND of the completed bound roles.
// Before any role is chosen that is every row.
func (s *search) initialPrefixes() []bitset.Mask {
	all := s.ds.All()
	prefixes := make([]bitset.Mask, len(s.bounds))
	for i := range prefixes {
		prefixes[i] = all
	}
	return prefixes
}

// descend enumerates the cedent of level li and, for every valid instance,
// the remaining levels. It returns false once the search has to stop.
func (s *search) descend(li int, prefixes []bitset.Mask) bool {
	if li == len(s.plan.levels) {
		s.verify()
		return !s.truncated
	}
	lv := &s.plan.levels[li]
	conjunctive := lv.cedent.Combinator == cedent.Conjunctive

	return lv.cedent.Enumerate(func(in *cedent.Instance) cedent.Action {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return cedent.Stop
		}

		var partner []int
		if lv.partner >= 0 {
			partner = s.instances[lv.partner].Attributes()
			if !subsetOf(in.Attributes(), partner) {
				return cedent.Prune
			}
		}

		enough := true
		for i, b := range s.bounds {
			if !b.roles[lv.role] {
				continue
			}
			if !b.Reaches(prefixes[i].AndCount(in.Mask), s.ds.RowCount) {
				if conjunctive {
					// Further literals only shrink the mask.
					s.pruned++
					return cedent.Prune
				}
				enough = false
			}
		}
		if !enough || !in.Valid() {
			return cedent.Continue
		}
		if partner != nil && !sameAttributes(in.Attributes(), partner) {
			return cedent.Continue
		}

		s.instances[li] = in
		s.masks[lv.role] = in.Mask
		if !s.descend(li+1, s.narrow(prefixes, lv.role, in.Mask)) {
			return cedent.Stop
		}
		return cedent.Continue
	})
}

func (s *search) narrow(prefixes []bitset.Mask, role string, mask bitset.Mask) []bitset.Mask {
	next := make([]bitset.Mask, len(prefixes))
	for i, b := range s.bounds {
		if b.roles[role] {
			next[i] = prefixes[i].And(mask)
		} else {
			next[i] = prefixes[i]
		}
	}
	return next
}

func (s *search) verify() {
	out := s.plan.kind.Verify(&procedure.Input{
		RowCount: s.ds.RowCount,
		Masks:    s.masks,
		Target:   s.plan.target,
	})
	s.collector.Attempt()
	if !out.Defined || !s.plan.quantifiers.Check(out.Stats) {
		return
	}

	traces := make(map[string]string, len(s.plan.levels))
	literals := make(map[string][]cedent.Literal, len(s.plan.levels))
	for i, lv := range s.plan.levels {
		traces[lv.role] = s.instances[i].Trace()
		literals[lv.role] = s.instances[i].Snapshot()
	}
	id := s.collector.Record(Rule{
		Statistics:    out.Stats,
		Histogram:     out.Histogram,
		CedentTraces:  traces,
		LiteralTraces: literals,
	})
	log.WithFields(log.Fields{"rule_id": id, "cedents": traces}).Debug("Accepted rule.")

	if s.opts.MaxRules > 0 && s.collector.Accepted() >= s.opts.MaxRules {
		s.truncated = true
	}
}

func subsetOf(attrs, of []int) bool {
	for _, a := range attrs {
		found := false
		for _, b := range of {
			if a == b {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sameAttributes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]int(nil), a...)
	y := append([]int(nil), b...)
	sort.Ints(x)
	sort.Ints(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
