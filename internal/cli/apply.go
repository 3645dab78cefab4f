package cli

import (
	"fmt"

	"github.com/khanglvm/dev-advisor/internal/recommend"
	"github.com/spf13/cobra"
)

// NewApplyCmd creates the 'apply' command that records an applied upgrade.
func NewApplyCmd() *cobra.Command {
	var current, target int

	cmd := &cobra.Command{
		Use:   "apply <kind> [path]",
		Short: "Record that a recommendation was applied",
		Long: `Record that an upgrade was applied to a project. The record is kept
in the upgrade history in the order it was applied.

Kinds: add_testing, improve_coverage, add_ci, add_backend,
update_dependencies, improve_accessibility, add_documentation.`,
		Example: `  dev-advisor apply add_ci
  dev-advisor apply improve_coverage ./MyApp --current 45 --target 70`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 2 {
				path = args[1]
			}
			return runApply(cmd, args[0], path, current, target)
		},
	}

	cmd.Flags().IntVar(&current, "current", 0, "Current coverage percent (improve_coverage)")
	cmd.Flags().IntVar(&target, "target", 70, "Target coverage percent (improve_coverage)")

	return cmd
}

func runApply(cmd *cobra.Command, name, path string, current, target int) error {
	kind, err := recommend.ParseKind(name)
	if err != nil {
		return err
	}
	rec, err := recommend.New(kind, current, target)
	if err != nil {
		return err
	}

	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	record, err := rt.Apply(rec, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Applied %s to %s\n", recommend.Describe(record.Recommendation), record.ProjectPath)
	return nil
}
