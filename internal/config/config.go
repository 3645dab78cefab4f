/*
Package config handles loading and saving dev-advisor configuration.

Configuration is stored in ~/.dev-advisor.json (override with the
DEV_ADVISOR_CONFIG environment variable or the --config flag).

Schema:
  {
    "settings": {
      "dbPath": "~/.dev-advisor/history.db",
      "metricsAddr": "",
      "defaultTopic": "SwiftUI",
      "seed": 0,
      "trackingDisabled": false,
      "toolCallRate": 0,
      "toolCallBurst": 0,
      "maxBatch": 1000,
      "probe": {
        "maxDepth": 6,
        "coverageFiles": ["coverage.out", "lcov.info"]
      }
    }
  }
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanglvm/dev-advisor/internal/probe"
	"github.com/khanglvm/dev-advisor/internal/topic"
)

// Environment variables read by the loader.
const (
	EnvConfigPath  = "DEV_ADVISOR_CONFIG"
	EnvTracking    = "DEV_ADVISOR_TRACKING"
	EnvMetricsAddr = "DEV_ADVISOR_METRICS_ADDR"
)

// DefaultMaxBatch is the batch size limit when settings.maxBatch is unset.
const DefaultMaxBatch = 1000

// Config represents the root configuration structure.
type Config struct {
	// Settings contains global configuration options.
	Settings *Settings `json:"settings"`
}

// Settings contains global configuration options.
type Settings struct {
	// DBPath is the SQLite database file. Empty means ~/.dev-advisor/history.db.
	DBPath string `json:"dbPath,omitempty"`

	// MetricsAddr is the Prometheus listener for `serve`, e.g. ":9090". Empty disables it.
	MetricsAddr string `json:"metricsAddr,omitempty"`

	// DefaultTopic is used by batch generation when no topics are given.
	DefaultTopic string `json:"defaultTopic,omitempty"`

	// Seed makes content generation deterministic when non-zero.
	Seed int64 `json:"seed,omitempty"`

	// TrackingDisabled turns off the impact journal.
	TrackingDisabled bool `json:"trackingDisabled,omitempty"`

	// ToolCallRate limits MCP tool calls per second. Zero means unlimited.
	ToolCallRate float64 `json:"toolCallRate,omitempty"`

	// ToolCallBurst is the burst size for ToolCallRate. Zero means 1.
	ToolCallBurst int `json:"toolCallBurst,omitempty"`

	// MaxBatch caps the item count of one batch request. Zero means DefaultMaxBatch.
	MaxBatch int `json:"maxBatch,omitempty"`

	// Probe configures the filesystem inspector.
	Probe *ProbeSettings `json:"probe,omitempty"`
}

// ProbeSettings configures project inspection.
type ProbeSettings struct {
	// MaxDepth limits directory walks.
	MaxDepth int `json:"maxDepth,omitempty"`

	// CoverageFiles are coverage report paths relative to the project root.
	CoverageFiles []string `json:"coverageFiles,omitempty"`
}

// NewConfig creates a configuration with default settings.
func NewConfig() *Config {
	return &Config{
		Settings: &Settings{
			DefaultTopic: topic.SwiftUI.String(),
			Probe: &ProbeSettings{
				MaxDepth:      probe.DefaultMaxDepth,
				CoverageFiles: append([]string(nil), probe.DefaultCoverageFiles...),
			},
		},
	}
}

// GetDefaultConfigPath returns $DEV_ADVISOR_CONFIG or ~/.dev-advisor.json.
func GetDefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return ExpandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".dev-advisor.json"), nil
}

// LoadOrDefault reads path, or returns defaults when the file does not
// exist. Other errors (permissions, bad JSON) are returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		var notFound *ConfigNotFoundError
		if errors.As(err, &notFound) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces missing sections with defaults.
func (c *Config) fillDefaults() {
	defaults := NewConfig().Settings
	if c.Settings == nil {
		c.Settings = defaults
		return
	}
	if c.Settings.DefaultTopic == "" {
		c.Settings.DefaultTopic = defaults.DefaultTopic
	}
	if c.Settings.Probe == nil {
		c.Settings.Probe = defaults.Probe
		return
	}
	if c.Settings.Probe.MaxDepth == 0 {
		c.Settings.Probe.MaxDepth = defaults.Probe.MaxDepth
	}
	if len(c.Settings.Probe.CoverageFiles) == 0 {
		c.Settings.Probe.CoverageFiles = defaults.Probe.CoverageFiles
	}
}

// ApplyEnv applies environment overrides on top of the file settings.
func (c *Config) ApplyEnv() {
	if c.Settings == nil {
		c.fillDefaults()
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvTracking))); v == "false" || v == "0" || v == "off" {
		c.Settings.TrackingDisabled = true
	}
	if addr := os.Getenv(EnvMetricsAddr); addr != "" {
		c.Settings.MetricsAddr = addr
	}
}

// ResolvedDBPath returns the database path with ~ expanded, or "" for the
// storage default.
func (c *Config) ResolvedDBPath() (string, error) {
	if c.Settings == nil || c.Settings.DBPath == "" {
		return "", nil
	}
	return ExpandPath(c.Settings.DBPath)
}

// BatchLimit returns the effective settings.maxBatch.
func (c *Config) BatchLimit() int {
	if c.Settings == nil || c.Settings.MaxBatch <= 0 {
		return DefaultMaxBatch
	}
	return c.Settings.MaxBatch
}

// Topic returns the parsed default topic.
func (c *Config) Topic() (topic.Topic, error) {
	if c.Settings == nil || c.Settings.DefaultTopic == "" {
		return topic.SwiftUI, nil
	}
	return topic.Parse(c.Settings.DefaultTopic)
}

// Inspector builds a filesystem inspector from the probe settings.
func (c *Config) Inspector() *probe.FSInspector {
	inspector := probe.NewFSInspector()
	if c.Settings == nil || c.Settings.Probe == nil {
		return inspector
	}
	if c.Settings.Probe.MaxDepth > 0 {
		inspector.MaxDepth = c.Settings.Probe.MaxDepth
	}
	if len(c.Settings.Probe.CoverageFiles) > 0 {
		inspector.CoverageFiles = c.Settings.Probe.CoverageFiles
	}
	return inspector
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
