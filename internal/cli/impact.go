package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/khanglvm/dev-advisor/internal/impact"
	"github.com/khanglvm/dev-advisor/internal/topic"
	"github.com/spf13/cobra"
)

// NewImpactCmd creates the 'impact' command group.
func NewImpactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Track community contributions and learning time",
		Long: `Record contributions and learning sessions, and show the impact
metrics and score accumulated so far.`,
	}

	cmd.AddCommand(newImpactRecordCmd())
	cmd.AddCommand(newImpactLearnCmd())
	cmd.AddCommand(newImpactShowCmd())

	return cmd
}

func newImpactRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <type>",
		Short: "Record a contribution",
		Long:  `Record one contribution: post, comment, code_shared or help_provided.`,
		Example: `  dev-advisor impact record post
  dev-advisor impact record help_provided`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := impact.ParseContribution(args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Impact.RecordContribution(c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s (score %.1f)\n", c, rt.Impact.Score())
			return nil
		},
	}
}

func newImpactLearnCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "learn <topic> <minutes>",
		Short:   "Record time spent learning a topic",
		Example: `  dev-advisor impact learn Concurrency 45`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := topic.Parse(args[0])
			if err != nil {
				return err
			}
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid minutes %q: %w", args[1], err)
			}

			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Impact.RecordLearning(t, minutes); err != nil {
				return err
			}
			m := rt.Impact.Metrics()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %d min of %s (%.2f hours total)\n", minutes, t, m.LearningHours)
			return nil
		},
	}
}

func newImpactShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show impact metrics and score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			m := rt.Impact.Metrics()
			score := impact.Score(m)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					impact.Metrics
					Score float64 `json:"score"`
				}{m, score})
			}
			printMetrics(cmd, m, score)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}

func printMetrics(cmd *cobra.Command, m impact.Metrics, score float64) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Contributions:  %d\n", m.TotalContributions)
	fmt.Fprintf(out, "  posts         %d\n", m.PostsCreated)
	fmt.Fprintf(out, "  comments      %d\n", m.CommentsAdded)
	fmt.Fprintf(out, "  code shared   %d\n", m.CodeSnippetsShared)
	fmt.Fprintf(out, "  help provided %d\n", m.HelpfulResponses)
	fmt.Fprintf(out, "Learning hours: %.2f\n", m.LearningHours)

	topics := make([]string, 0, len(m.TopicsLearned))
	for _, t := range m.TopicsLearned.Sorted() {
		topics = append(topics, t.String())
	}
	if len(topics) > 0 {
		fmt.Fprintf(out, "Topics learned: %s\n", strings.Join(topics, ", "))
	}
	if !m.LastUpdated.IsZero() {
		fmt.Fprintf(out, "Last updated:   %s\n", m.LastUpdated.Local().Format(time.DateTime))
	}
	fmt.Fprintf(out, "Score:          %.1f\n", score)
}
