/*
Package main is the entry point for the dev-advisor CLI.

dev-advisor recommends project upgrades, generates learning content and
tracks community impact. The same engines are available as commands and
as tools over an MCP stdio server.

Usage:
  dev-advisor [command]

Available Commands:
  init        Create a default configuration file
  verify      Verify configuration and storage
  analyze     Recommend upgrades for a project
  apply       Record that a recommendation was applied
  history     List applied upgrades
  generate    Generate learning content
  search      Search the content catalog
  impact      Track community contributions and learning time
  export      Export recorded history for offline analysis
  serve       Run the MCP server (stdio transport)
  version     Show version information

Examples:
  # Analyze the current project
  dev-advisor analyze

  # Run as MCP server
  dev-advisor serve
*/
package main

import (
	"fmt"
	"os"

	"github.com/khanglvm/dev-advisor/internal/cli"
	"github.com/khanglvm/dev-advisor/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dev-advisor",
		Short: "Project upgrade advisor, learning content and impact tracker",
		Long: `dev-advisor inspects a project and recommends upgrades (tests,
coverage, CI, backend), generates learning content from a built-in
template catalog, and tracks community contributions and learning time
as a weighted impact score.

State is kept in a local SQLite database so upgrade history and impact
metrics survive restarts.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(cli.ConfigFlag, "", "Config file (default: ~/.dev-advisor.json)")

	// Add subcommands
	rootCmd.AddCommand(cli.NewInitCmd())
	rootCmd.AddCommand(cli.NewVerifyCmd())
	rootCmd.AddCommand(cli.NewAnalyzeCmd())
	rootCmd.AddCommand(cli.NewApplyCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewGenerateCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewImpactCmd())
	rootCmd.AddCommand(cli.NewExportCmd())
	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
