package cli

import (
	"fmt"
	"os"

	"github.com/khanglvm/dev-advisor/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the 'init' command that writes a default configuration.
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Write a configuration file with default settings.

The file is created at ~/.dev-advisor.json unless --config or
DEV_ADVISOR_CONFIG names another path. An existing file is kept
unless --force is given, in which case it is backed up to .bak first.`,
		Example: `  dev-advisor init
  dev-advisor init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.Save(config.NewConfig(), path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default configuration to %s\n", path)
	return nil
}
