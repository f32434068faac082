package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/imdario/mergo"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"guha/cedent"
	"guha/miner"
	Q "guha/quantifier"
)

// AttributeConf is one attribute of a cedent in a task file.
type AttributeConf struct {
	Name string `yaml:"name"`
	// Type is the enumeration policy: subset, seq, lcut, rcut or one.
	Type   string `yaml:"type"`
	MinLen int    `yaml:"minlen"`
	MaxLen int    `yaml:"maxlen"`
	Value  string `yaml:"value"`
}

// CedentConf is one cedent role in a task file. MinLen defaults to 1 and
// MaxLen to the number of attributes.
type CedentConf struct {
	Type       string          `yaml:"type"`
	MinLen     *int            `yaml:"minlen"`
	MaxLen     *int            `yaml:"maxlen"`
	Attributes []AttributeConf `yaml:"attributes"`
}

type OptionsConf struct {
	DisablePruning   bool `yaml:"disable_pruning"`
	MaxRules         int  `yaml:"max_rules"`
	LiteralCacheSize int  `yaml:"literal_cache_size"`
}

// TaskFile is the YAML form of a mining task:
//
//	procedure: 4ftMiner
//	quantifiers: {Base: 20, conf: 0.8}
//	cedents:
//	  ante:
//	    minlen: 1
//	    maxlen: 2
//	    attributes:
//	      - {name: Income, type: seq, minlen: 1, maxlen: 2}
//	  succ:
//	    attributes:
//	      - {name: Churn, type: one, value: "yes"}
type TaskFile struct {
	Procedure   string                `yaml:"procedure"`
	Target      string                `yaml:"target"`
	Quantifiers map[string]float64    `yaml:"quantifiers"`
	Options     OptionsConf           `yaml:"options"`
	Cedents     map[string]CedentConf `yaml:"cedents"`
}

// LoadTaskFile reads and decodes a YAML task file. Unknown keys are errors.
func LoadTaskFile(path string) (*TaskFile, error) {
	absPath, _ := filepath.Abs(path)
	raw, err := ioutil.ReadFile(absPath)
	if err != nil {
		log.WithFields(log.Fields{"file": absPath}).WithError(err).Error("Failed to load task file")
		return nil, err
	}
	return ParseTaskFile(raw)
}

func ParseTaskFile(raw []byte) (*TaskFile, error) {
	var tf TaskFile
	if err := yaml.UnmarshalStrict(raw, &tf); err != nil {
		return nil, E.Wrap(err, "failed to decode task file")
	}
	return &tf, nil
}

// Task converts the file into a miner task. Unknown cedent types and
// policies are reported as configuration errors.
func (tf *TaskFile) Task() (*miner.Task, error) {
	task := &miner.Task{
		Procedure:   tf.Procedure,
		Target:      tf.Target,
		Quantifiers: Q.Map(tf.Quantifiers),
		Cedents:     make(map[string]cedent.Definition, len(tf.Cedents)),
	}
	if task.Quantifiers == nil {
		task.Quantifiers = Q.Map{}
	}
	for role, cc := range tf.Cedents {
		def, err := cc.definition("cedents." + role)
		if err != nil {
			return nil, err
		}
		task.Cedents[role] = def
	}
	return task, nil
}

func (cc CedentConf) definition(field string) (cedent.Definition, error) {
	comb, err := cedent.ParseCombinator(cc.Type)
	if err != nil {
		return cedent.Definition{}, &miner.ConfigurationError{Field: field + ".type", Reason: err.Error()}
	}
	def := cedent.Definition{
		Combinator: comb,
		Slots:      make([]cedent.AttributeSlot, 0, len(cc.Attributes)),
		MinAttrs:   1,
		MaxAttrs:   len(cc.Attributes),
	}
	if len(cc.Attributes) == 0 {
		def.MinAttrs = 0
	}
	if cc.MinLen != nil {
		def.MinAttrs = *cc.MinLen
	}
	if cc.MaxLen != nil {
		def.MaxAttrs = *cc.MaxLen
	}

	for i, ac := range cc.Attributes {
		policy := cedent.Subset
		if ac.Type != "" {
			policy, err = cedent.ParsePolicy(ac.Type)
			if err != nil {
				return cedent.Definition{}, &miner.ConfigurationError{
					Field: fmt.Sprintf("%s.attributes[%d].type", field, i), Reason: err.Error()}
			}
		}
		def.Slots = append(def.Slots, cedent.AttributeSlot{
			Attribute: ac.Name,
			Policy:    policy,
			MinLen:    ac.MinLen,
			MaxLen:    ac.MaxLen,
			Value:     ac.Value,
		})
	}
	return def, nil
}

// MergeOptions lays the options set in the file over defaults, typically
// the ones from the environment. Only non-zero file values override, so a
// file cannot switch pruning back on once the environment disabled it.
func (tf *TaskFile) MergeOptions(defaults miner.Options) (miner.Options, error) {
	merged := defaults
	fileOpts := miner.Options{
		DisablePruning:   tf.Options.DisablePruning,
		MaxRules:         tf.Options.MaxRules,
		LiteralCacheSize: tf.Options.LiteralCacheSize,
	}
	if err := mergo.Merge(&merged, fileOpts, mergo.WithOverride); err != nil {
		return defaults, E.Wrap(err, "failed to merge task options")
	}
	return merged, nil
}
