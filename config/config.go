// Package config loads runtime settings from a YAML file and fills in
// defaults for anything left out. An empty path yields the default config,
// so deployments without a file still start.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the deployment-level settings of the runtime.
type Config struct {
	Memory    MemoryConfig    `yaml:"memory"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
}

// MemoryConfig selects the memory backing. An empty RedisAddr keeps memory
// fully in-process; with an address set, records persist to redis and the
// runtime falls back to in-process storage only when the address is
// unreachable at startup.
type MemoryConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// RateLimitConfig configures the keyed limiter. Limits maps a rate-limit
// key (for example "poster:post") to its own bucket; keys without an entry
// use the default rate and burst. A zero DefaultRate means unlimited.
type RateLimitConfig struct {
	Policy       string                `yaml:"policy"` // "block" or "reject"
	DefaultRate  float64               `yaml:"default_rate"`
	DefaultBurst int                   `yaml:"default_burst"`
	Limits       map[string]LimitEntry `yaml:"limits"`
}

// LimitEntry is one per-key bucket configuration.
type LimitEntry struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// WorkflowConfig holds orchestration settings.
type WorkflowConfig struct {
	// ChainAction is the action name used for agent chains.
	ChainAction string `yaml:"chain_action"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load parses the YAML file at path. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RateLimit.Policy == "" {
		c.RateLimit.Policy = "block"
	}
	if c.RateLimit.DefaultBurst == 0 {
		c.RateLimit.DefaultBurst = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Workflow.ChainAction == "" {
		c.Workflow.ChainAction = "generate"
	}
}
