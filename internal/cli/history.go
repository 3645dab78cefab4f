package cli

import (
	"fmt"
	"time"

	"github.com/khanglvm/dev-advisor/internal/advisor"
	"github.com/khanglvm/dev-advisor/internal/recommend"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the 'history' command.
func NewHistoryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List applied upgrades",
		Long:  `List every recorded upgrade in the order it was applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}

func runHistory(cmd *cobra.Command, asJSON bool) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	records := rt.Recommender.History()
	if asJSON {
		return printJSON(cmd.OutOrStdout(), advisor.ViewHistory(records))
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No upgrades recorded.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(out, "%s  %-40s %s\n",
			r.AppliedAt.Local().Format(time.DateTime), recommend.Describe(r.Recommendation), r.ProjectPath)
	}
	return nil
}
