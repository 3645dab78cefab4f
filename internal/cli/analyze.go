package cli

import (
	"fmt"

	"github.com/khanglvm/dev-advisor/internal/advisor"
	"github.com/khanglvm/dev-advisor/internal/recommend"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the 'analyze' command.
func NewAnalyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Recommend upgrades for a project",
		Long: `Inspect a project directory for tests, CI configuration, a backend
and a coverage report, and print prioritized upgrade recommendations.

The path defaults to the current directory.`,
		Example: `  dev-advisor analyze
  dev-advisor analyze ./MyApp --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runAnalyze(cmd, path, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, asJSON bool) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	set, err := rt.Analyze(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	if asJSON {
		return printJSON(cmd.OutOrStdout(), advisor.ViewSet(set))
	}
	printSet(cmd, set)
	return nil
}

func printSet(cmd *cobra.Command, set recommend.Set) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project:  %s\n", set.ProjectPath)
	fmt.Fprintf(out, "Priority: %s\n", set.Priority)

	if len(set.Recommendations) == 0 {
		fmt.Fprintln(out, "\nNo recommendations. The project looks healthy.")
		return
	}

	fmt.Fprintln(out)
	for i, r := range set.Recommendations {
		fmt.Fprintf(out, "  %d. %-18s %s\n", i+1, r.Kind(), recommend.Describe(r))
	}
}
