package cli

import (
	"fmt"

	"github.com/khanglvm/dev-advisor/internal/config"
	"github.com/khanglvm/dev-advisor/internal/storage"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the 'verify' command for verifying configuration.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration and storage",
		Long: `Verify that the configuration file is valid and that the history
database can be opened.`,
		Example: `  dev-advisor verify`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd)
		},
	}

	return cmd
}

// runVerify validates the configuration and opens storage.
func runVerify(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	configPath, err := configPath(cmd)
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	cfg.ApplyEnv()

	fmt.Fprintf(out, "✓ Config file: %s\n", configPath)
	fmt.Fprintf(out, "✓ Default topic: %s\n", cfg.Settings.DefaultTopic)
	if cfg.Settings.TrackingDisabled {
		fmt.Fprintln(out, "✓ Activity tracking: disabled")
	} else {
		fmt.Fprintln(out, "✓ Activity tracking: enabled")
	}

	dbPath, err := cfg.ResolvedDBPath()
	if err != nil {
		return err
	}
	store := storage.NewStorage(dbPath)
	defer store.Close()

	if err := store.Init(); err != nil {
		fmt.Fprintf(out, "✗ History database: %s (%v)\n", store.Path(), err)
		return fmt.Errorf("storage unavailable: %w", err)
	}

	upgrades, err := store.ListUpgrades()
	if err != nil {
		return err
	}
	activity, err := store.ListActivity()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ History database: %s (%d upgrades, %d activity events)\n",
		store.Path(), len(upgrades), len(activity))

	return nil
}
