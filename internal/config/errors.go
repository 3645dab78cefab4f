package config

import (
	"errors"
	"fmt"
)

// SettingError names the settings key that failed validation.
type SettingError struct {
	Key    string // e.g. "settings.probe.maxDepth"
	Reason string
}

func (e *SettingError) Error() string {
	return e.Key + ": " + e.Reason
}

func invalidSetting(key, format string, args ...interface{}) *SettingError {
	return &SettingError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// ConfigNotFoundError is returned when no file exists at Path.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s\nRun 'dev-advisor init' to create it, or pass --config", e.Path)
}

// PermissionError is returned when the config file or its directory cannot
// be read or written.
type PermissionError struct {
	Path string
	Op   string // "read" or "write"
	Err  error
}

func (e *PermissionError) Error() string {
	mode := "u+r"
	if e.Op == "write" {
		mode = "u+w"
	}
	return fmt.Sprintf("permission denied (cannot %s config): %s\nFix: chmod %s %s, then run 'dev-advisor verify'",
		e.Op, e.Path, mode, e.Path)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// InvalidConfigError is returned for a config that does not parse or does
// not validate. Key is set when a single setting is at fault.
type InvalidConfigError struct {
	Path string
	Key  string
	Err  error
}

func newInvalidConfig(path string, err error) *InvalidConfigError {
	e := &InvalidConfigError{Path: path, Err: err}
	var setting *SettingError
	if errors.As(err, &setting) {
		e.Key = setting.Key
	}
	return e
}

func (e *InvalidConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid config %s: %v\nRestore %s.bak or run 'dev-advisor init --force'", e.Path, e.Err, e.Path)
	}
	return fmt.Sprintf("invalid config %s: %v\nCorrect %s, then run 'dev-advisor verify'", e.Path, e.Err, e.Key)
}

func (e *InvalidConfigError) Unwrap() error { return e.Err }
