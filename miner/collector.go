package miner

import (
	"guha/cedent"
)

// Rule is one accepted combination of cedents.
type Rule struct {
	RuleID     int                `json:"rule_id"`
	Statistics map[string]float64 `json:"statistics"`
	// Histogram is the target histogram of CF rules.
	Histogram     []int                       `json:"histogram,omitempty"`
	CedentTraces  map[string]string           `json:"cedents"`
	LiteralTraces map[string][]cedent.Literal `json:"literals"`
}

// Collector accumulates accepted rules and counts verifications. It does not
// deduplicate: the enumerator never reaches a combination twice.
type Collector struct {
	rules    []Rule
	attempts int
}

func NewCollector() *Collector {
	return &Collector{rules: make([]Rule, 0)}
}

// Attempt counts one verified combination, accepted or not.
func (c *Collector) Attempt() {
	c.attempts++
}

// Record stores r under the next rule id, starting at 1, and returns the id.
func (c *Collector) Record(r Rule) int {
	r.RuleID = len(c.rules) + 1
	c.rules = append(c.rules, r)
	return r.RuleID
}

func (c *Collector) Rules() []Rule {
	return c.rules
}

func (c *Collector) Attempts() int {
	return c.attempts
}

func (c *Collector) Accepted() int {
	return len(c.rules)
}
