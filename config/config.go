package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"guha/miner"
)

const DEVELOPMENT = "development"

// envPrefix makes every setting GUHA_<NAME>, e.g. GUHA_MAX_RULES.
const envPrefix = "guha"

type Configuration struct {
	Env              string `envconfig:"ENV" default:"development" json:"env"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" json:"log_level"`
	MaxCategories    int    `envconfig:"MAX_CATEGORIES" default:"100" json:"max_categories"`
	MaxRules         int    `envconfig:"MAX_RULES" default:"0" json:"max_rules"`
	DisablePruning   bool   `envconfig:"DISABLE_PRUNING" default:"false" json:"disable_pruning"`
	LiteralCacheSize int    `envconfig:"LITERAL_CACHE_SIZE" default:"4096" json:"literal_cache_size"`
}

var configuration *Configuration = nil

// Load reads the configuration from the environment.
func Load() (*Configuration, error) {
	var c Configuration
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, E.Wrap(err, "failed to read environment configuration")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Configuration) validate() error {
	if c.MaxCategories < 0 {
		return fmt.Errorf("max categories must not be negative, got %d", c.MaxCategories)
	}
	if c.MaxRules < 0 {
		return fmt.Errorf("max rules must not be negative, got %d", c.MaxRules)
	}
	if c.LiteralCacheSize < 0 {
		return fmt.Errorf("literal cache size must not be negative, got %d", c.LiteralCacheSize)
	}
	return nil
}

// Init loads the configuration once and sets up logging. An env other than
// "" overrides GUHA_ENV.
func Init(env string) error {
	c, err := Load()
	if err != nil {
		return err
	}
	if env != "" {
		c.Env = env
	}
	configuration = c
	return initLogging()
}

func initLogging() error {
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
		return nil
	}
	level, err := log.ParseLevel(configuration.LogLevel)
	if err != nil {
		return E.Wrapf(err, "invalid log level %q", configuration.LogLevel)
	}
	log.SetLevel(level)
	return nil
}

// GetConfig returns the configuration Init loaded, or nil.
func GetConfig() *Configuration {
	return configuration
}

func IsDevelopment() bool {
	return configuration != nil && configuration.Env == DEVELOPMENT
}

// Options are the search options the environment asks for.
func (c *Configuration) Options() miner.Options {
	return miner.Options{
		DisablePruning:   c.DisablePruning,
		MaxRules:         c.MaxRules,
		LiteralCacheSize: c.LiteralCacheSize,
	}
}
