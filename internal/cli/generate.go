package cli

import (
	"fmt"

	"github.com/khanglvm/dev-advisor/internal/content"
	"github.com/khanglvm/dev-advisor/internal/topic"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the 'generate' command.
func NewGenerateCmd() *cobra.Command {
	var count int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate [topic...]",
		Short: "Generate learning content",
		Long: `Generate learning content items from the built-in template catalog.

With no topics the configured default topic is used. With several topics
each item draws its topic at random from the list.

Topics: SwiftUI, SwiftData, Concurrency, Testing, Performance, Security,
Accessibility, Animations.`,
		Example: `  dev-advisor generate Testing
  dev-advisor generate SwiftUI Animations --count 5 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, count, asJSON)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of items to generate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}

func runGenerate(cmd *cobra.Command, names []string, count int, asJSON bool) error {
	topics, err := parseTopics(names)
	if err != nil {
		return err
	}

	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	items, err := rt.GenerateBatch(count, topics)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(cmd.OutOrStdout(), items)
	}
	for i, c := range items {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		printContent(cmd, c)
	}
	return nil
}

func printContent(cmd *cobra.Command, c content.Content) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s [%s, %s, %d min]\n", c.Title, c.Topic, c.Difficulty, c.EstimatedMinutes)
	fmt.Fprintf(out, "%s\n\n", c.Body)
	fmt.Fprintf(out, "%s\n", c.CodeSnippet)
}

func parseTopics(names []string) ([]topic.Topic, error) {
	topics := make([]topic.Topic, 0, len(names))
	for _, name := range names {
		t, err := topic.Parse(name)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, nil
}
