package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Save validates cfg and replaces the file at path atomically. The previous
// file, if any, is kept as path.bak.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return newInvalidConfig(path, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := checkOverwrite(path); err != nil {
		return err
	}

	if err := backupConfig(path); err != nil {
		log.Printf("Warning: failed to back up %s: %v", path, err)
	}

	return atomicWrite(path, append(data, '\n'))
}

// checkOverwrite refuses to replace a config file the user made read-only.
func checkOverwrite(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	switch {
	case err == nil:
		return f.Close()
	case os.IsNotExist(err):
		return nil
	case os.IsPermission(err):
		return &PermissionError{Path: path, Op: "write", Err: err}
	default:
		return fmt.Errorf("failed to access config: %w", err)
	}
}

func backupConfig(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path+".bak", data, 0644)
}

// atomicWrite writes data to a unique temp file beside path and renames it
// into place. Creating the temp file doubles as the directory write check.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		if os.IsPermission(err) {
			return &PermissionError{Path: dir, Op: "write", Err: err}
		}
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err = tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}
