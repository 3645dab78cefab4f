package config

import (
	"net"
	"path/filepath"

	"github.com/khanglvm/dev-advisor/internal/topic"
)

const (
	// maxProbeDepth caps settings.probe.maxDepth.
	maxProbeDepth = 64

	// maxBatchLimit caps settings.maxBatch.
	maxBatchLimit = 100000
)

// Validate checks that settings hold usable values. The first failure is
// returned as a *SettingError.
func Validate(cfg *Config) error {
	if cfg == nil || cfg.Settings == nil {
		return invalidSetting("settings", "missing")
	}
	s := cfg.Settings

	if s.DefaultTopic != "" {
		if _, err := topic.Parse(s.DefaultTopic); err != nil {
			return invalidSetting("settings.defaultTopic", "%v", err)
		}
	}

	if s.Seed < 0 {
		return invalidSetting("settings.seed", "must not be negative, got %d", s.Seed)
	}

	if s.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(s.MetricsAddr); err != nil {
			return invalidSetting("settings.metricsAddr", "%v", err)
		}
	}

	if s.ToolCallRate < 0 {
		return invalidSetting("settings.toolCallRate", "must not be negative, got %v", s.ToolCallRate)
	}
	if s.ToolCallBurst < 0 {
		return invalidSetting("settings.toolCallBurst", "must not be negative, got %d", s.ToolCallBurst)
	}

	if s.MaxBatch < 0 || s.MaxBatch > maxBatchLimit {
		return invalidSetting("settings.maxBatch", "must be between 0 and %d, got %d", maxBatchLimit, s.MaxBatch)
	}

	if s.Probe != nil {
		if s.Probe.MaxDepth < 0 || s.Probe.MaxDepth > maxProbeDepth {
			return invalidSetting("settings.probe.maxDepth", "must be between 0 and %d, got %d", maxProbeDepth, s.Probe.MaxDepth)
		}
		for _, f := range s.Probe.CoverageFiles {
			if f == "" || filepath.IsAbs(f) {
				return invalidSetting("settings.probe.coverageFiles", "%q must be a relative path", f)
			}
		}
	}

	return nil
}
