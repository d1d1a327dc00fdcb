// Package config handles ShootFlow configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/shootflow/shootflow/internal/agent"
	"github.com/shootflow/shootflow/internal/automation"
	"github.com/shootflow/shootflow/internal/engine"
	"github.com/shootflow/shootflow/internal/intelligence"
	"github.com/shootflow/shootflow/internal/skills"
)

// Config holds all configuration. Every scoring constant the engines use is
// overridable from here so studios can retune heuristics without a rebuild.
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Logging
	LogLevel string `json:"log_level"`

	// Engines
	Quality    engine.QualityConfig    `json:"quality"`
	Assignment engine.AssignmentConfig `json:"assignment"`
	Batching   engine.BatchingConfig   `json:"batching"`

	// Skills
	Logistics skills.LogisticsConfig `json:"logistics"`
	Media     skills.MediaConfig     `json:"media"`
	Services  skills.ServicesConfig  `json:"services"`
	Navigator skills.NavigatorConfig `json:"navigator"`

	// Intelligence
	Risk       intelligence.Config    `json:"risk"`
	Classifier agent.ClassifierConfig `json:"classifier"`
	Automation automation.Config      `json:"automation"`

	// Scheduler
	Scheduler SchedulerConfig `json:"scheduler"`
}

// ServerConfig for the HTTP API.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// SchedulerConfig for the daily automation sweep.
type SchedulerConfig struct {
	Enabled   bool   `json:"enabled"`
	DailyHour int    `json:"daily_hour"` // Local hour for the scheduled_daily trigger
	Timezone  string `json:"timezone"`
}

// Default returns default configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir:  filepath.Join(home, ".shootflow"),
		Server:   ServerConfig{Host: "localhost", Port: 8090},
		LogLevel: "info",

		Quality:    engine.DefaultQualityConfig(),
		Assignment: engine.DefaultAssignmentConfig(),
		Batching:   engine.DefaultBatchingConfig(),

		Logistics: skills.DefaultLogisticsConfig(),
		Media:     skills.DefaultMediaConfig(),
		Services:  skills.DefaultServicesConfig(),
		Navigator: skills.DefaultNavigatorConfig(),

		Risk:       intelligence.DefaultConfig(),
		Classifier: agent.DefaultClassifierConfig(),
		Automation: automation.DefaultConfig(),

		Scheduler: SchedulerConfig{Enabled: true, DailyHour: 7, Timezone: "Local"},
	}
}

// Load loads config from file, falling back to defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to file, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DatabasePath is where the run-history database lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "shootflow.db")
}
