package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/khanglvm/dev-advisor/internal/advisor"
	"github.com/khanglvm/dev-advisor/internal/config"
	"github.com/khanglvm/dev-advisor/internal/mcp"
	"github.com/khanglvm/dev-advisor/internal/metrics"
	"github.com/khanglvm/dev-advisor/internal/version"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the dev-advisor MCP server using stdio transport.

The server exposes the advisor engines as tools:
  • advisor_analyze, advisor_apply, advisor_history
  • content_generate, content_batch, content_count, content_search
  • impact_contribute, impact_learn, impact_metrics, impact_score

Engine state is restored from the history database on start and every
change is persisted while the server runs. Edits to trackingDisabled in
the config file take effect without a restart. When settings.metricsAddr or
DEV_ADVISOR_METRICS_ADDR is set, Prometheus metrics are served on
/metrics at that address.`,
		Example: `  # Run directly
  dev-advisor serve

  # Register with an MCP client
  claude mcp add dev-advisor -- dev-advisor serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	return cmd
}

// runServe starts the MCP server with stdio transport and signal handling.
// Implements graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
func runServe(cmd *cobra.Command) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rt, err := advisor.Open(cfg)
	if err != nil {
		return err
	}

	metrics.StartServer(cfg.Settings.MetricsAddr)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Tracking can be toggled without a restart.
	go func() {
		err := config.Watch(ctx, path, func(c *config.Config) {
			rt.SetTracking(!c.Settings.TrackingDisabled)
			log.Printf("Config reloaded (tracking disabled: %v)", c.Settings.TrackingDisabled)
		})
		if err != nil {
			log.Printf("Warning: config changes will not be picked up: %v", err)
		}
	}()

	server := mcp.NewServer(rt, mcp.WithRateLimit(cfg.Settings.ToolCallRate, cfg.Settings.ToolCallBurst))
	log.Printf("dev-advisor %s serving on stdio (db: %s)", version.Version, rt.Store.Path())

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	// Run server in separate goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	// Wait for either signal or server error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down gracefully...", sig)
		cancel()

		if err := rt.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
			return err
		}

		log.Println("Shutdown complete")
		return nil

	case err := <-errChan:
		// Server.Run() returned (stdin closed or error)
		// Still need to cleanup resources
		if closeErr := rt.Close(); closeErr != nil {
			log.Printf("Error during cleanup: %v", closeErr)
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
