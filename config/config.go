// Package config loads the engine's configuration from a YAML/JSON file
// plus K_-prefixed environment overrides, producing a single immutable
// Config value threaded explicitly through the engine (spec §9: "no hidden
// globals").
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"hybridsched/core/schedule"
	"hybridsched/infra/metrics"
)

// Config is the root configuration tree.
type Config struct {
	Engine  EngineConfig        `json:"engine"`
	Metrics metrics.SinkConfig  `json:"metrics"`
	Logging LoggingConfig       `json:"logging"`
	Runlog  RunlogConfig        `json:"runlog"`
}

// EngineConfig mirrors schedule.EngineConfig with JSON tags so it can be
// loaded from file/env, matching §6's environment-style configuration
// surface (MAX_HORIZON_DAYS, ORTOOLS_TIME_LIMIT, ...).
type EngineConfig struct {
	InitialHorizonDays      int     `json:"initial_horizon_days"`
	HorizonExtensionFactor  float64 `json:"horizon_extension_factor"`
	MaxHorizonDays          int     `json:"max_horizon_days"`
	OrtoolsTimeLimitSeconds float64 `json:"ortools_time_limit_seconds"`
	OrtoolsWorkers          int32   `json:"ortools_workers"`
	OrtoolsLogProgress      bool    `json:"ortools_log_progress"`
	OrtoolsFallbackTimeout  float64 `json:"ortools_fallback_timeout"`
	HybridMode              bool    `json:"hybrid_mode"`
	GreedyThresholdTasks    int     `json:"greedy_threshold_tasks"`
	GreedyThresholdHours    int     `json:"greedy_threshold_hours"`
	GreedyThresholdUsers    int     `json:"greedy_threshold_users"`
	GreedyThresholdAvgHours float64 `json:"greedy_threshold_avg_hours"`
	ResidualMaxTasks        int     `json:"residual_max_tasks"`
}

// ToEngineConfig converts to the schedule package's native config type.
func (c EngineConfig) ToEngineConfig() schedule.EngineConfig {
	return schedule.EngineConfig{
		InitialHorizonDays:      c.InitialHorizonDays,
		HorizonExtensionFactor:  c.HorizonExtensionFactor,
		MaxHorizonDays:          c.MaxHorizonDays,
		OrtoolsTimeLimitSeconds: c.OrtoolsTimeLimitSeconds,
		OrtoolsWorkers:          c.OrtoolsWorkers,
		OrtoolsLogProgress:      c.OrtoolsLogProgress,
		OrtoolsFallbackTimeout:  c.OrtoolsFallbackTimeout,
		HybridMode:              c.HybridMode,
		GreedyThresholdTasks:    c.GreedyThresholdTasks,
		GreedyThresholdHours:    c.GreedyThresholdHours,
		GreedyThresholdUsers:    c.GreedyThresholdUsers,
		GreedyThresholdAvgHours: c.GreedyThresholdAvgHours,
		ResidualMaxTasks:        c.ResidualMaxTasks,
	}
}

// SetDefaults replaces every zero-valued numeric field with its default
// from schedule.DefaultEngineConfig. Boolean fields are left as they are,
// since false cannot be told apart from unset; Load seeds HybridMode's
// default of true before unmarshalling.
func (c *EngineConfig) SetDefaults() {
	def := schedule.DefaultEngineConfig()
	if c.InitialHorizonDays == 0 {
		c.InitialHorizonDays = def.InitialHorizonDays
	}
	if c.HorizonExtensionFactor == 0 {
		c.HorizonExtensionFactor = def.HorizonExtensionFactor
	}
	if c.MaxHorizonDays == 0 {
		c.MaxHorizonDays = def.MaxHorizonDays
	}
	if c.OrtoolsTimeLimitSeconds == 0 {
		c.OrtoolsTimeLimitSeconds = def.OrtoolsTimeLimitSeconds
	}
	if c.OrtoolsWorkers == 0 {
		c.OrtoolsWorkers = def.OrtoolsWorkers
	}
	if c.OrtoolsFallbackTimeout == 0 {
		c.OrtoolsFallbackTimeout = def.OrtoolsFallbackTimeout
	}
	if c.GreedyThresholdTasks == 0 {
		c.GreedyThresholdTasks = def.GreedyThresholdTasks
	}
	if c.GreedyThresholdHours == 0 {
		c.GreedyThresholdHours = def.GreedyThresholdHours
	}
	if c.GreedyThresholdUsers == 0 {
		c.GreedyThresholdUsers = def.GreedyThresholdUsers
	}
	if c.GreedyThresholdAvgHours == 0 {
		c.GreedyThresholdAvgHours = def.GreedyThresholdAvgHours
	}
	if c.ResidualMaxTasks == 0 {
		c.ResidualMaxTasks = def.ResidualMaxTasks
	}
}

// Validate delegates to the native config's invariants.
func (c EngineConfig) Validate() error {
	return c.ToEngineConfig().Validate()
}

// LoggingConfig holds the logging section of the config file. Level is
// loaded and defaulted but not read by infra/logger, which picks its output
// format from APP_ENV and logs at every level.
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// RunlogConfig selects the run-audit-log backend.
type RunlogConfig struct {
	// Backend selects the log store type: "jsonl", "sqlite", or "none".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *RunlogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Path == "" {
		c.Path = "schedule-runs.jsonl"
	}
}

// Validate checks mandatory fields.
func (c RunlogConfig) Validate() error {
	switch c.Backend {
	case "none", "jsonl", "sqlite":
	default:
		return fmt.Errorf("runlog: unknown backend %q", c.Backend)
	}
	if c.Backend != "none" && c.Path == "" {
		return fmt.Errorf("runlog: path is required for backend %q", c.Backend)
	}
	return nil
}

// Load reads a YAML or JSON config file at path, applies K_-prefixed
// environment overrides, fills in defaults, and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	// Unmarshalling only overwrites keys that are present, so a file that
	// omits hybrid_mode keeps this default.
	cfg := Config{Engine: EngineConfig{HybridMode: schedule.DefaultEngineConfig().HybridMode}}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}

	cfg.Engine.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Runlog.SetDefaults()

	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Runlog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
