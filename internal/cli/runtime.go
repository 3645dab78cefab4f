/*
Package cli implements the dev-advisor commands.

Every command that touches engine state opens an advisor.Runtime from the
configuration file, performs its operation, and closes the runtime so the
activity journal is flushed before the process exits.
*/
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/khanglvm/dev-advisor/internal/advisor"
	"github.com/khanglvm/dev-advisor/internal/config"
	"github.com/spf13/cobra"
)

// ConfigFlag is the persistent flag that overrides the config file path.
const ConfigFlag = "config"

// configPath resolves the --config flag, falling back to the default path.
func configPath(cmd *cobra.Command) (string, error) {
	if f := cmd.Flags().Lookup(ConfigFlag); f != nil && f.Value.String() != "" {
		return config.ExpandPath(f.Value.String())
	}
	return config.GetDefaultConfigPath()
}

// loadConfig reads the config file (defaults when missing) and applies
// environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// openRuntime loads configuration and opens the engines.
func openRuntime(cmd *cobra.Command) (*advisor.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return advisor.Open(cfg)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
