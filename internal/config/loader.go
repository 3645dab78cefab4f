package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFrom reads, fills and validates the config at path. Failures are
// reported as *ConfigNotFoundError, *PermissionError or *InvalidConfigError.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil, &ConfigNotFoundError{Path: path}
	case os.IsPermission(err):
		return nil, &PermissionError{Path: path, Op: "read", Err: err}
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, newInvalidConfig(path, fmt.Errorf("JSON parse error: %w", err))
	}

	cfg.fillDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, newInvalidConfig(path, err)
	}

	return &cfg, nil
}
