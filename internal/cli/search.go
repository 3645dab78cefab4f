package cli

import (
	"fmt"
	"strings"

	"github.com/khanglvm/dev-advisor/internal/search"
	"github.com/khanglvm/dev-advisor/internal/topic"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command over the content catalog.
func NewSearchCmd() *cobra.Command {
	var scope string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the content catalog",
		Long: `Search the learning content catalog by keyword. Results are ranked by
BM25 relevance over template titles, bodies and tags.`,
		Example: `  dev-advisor search "async await"
  dev-advisor search keychain --topic Security`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), scope, limit, asJSON)
		},
	}

	cmd.Flags().StringVar(&scope, "topic", "", "Restrict results to one topic")
	cmd.Flags().IntVar(&limit, "limit", search.DefaultLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}

func runSearch(cmd *cobra.Command, query, scope string, limit int, asJSON bool) error {
	var scoped *topic.Topic
	if scope != "" {
		t, err := topic.Parse(scope)
		if err != nil {
			return err
		}
		scoped = &t
	}

	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	results, err := rt.Search(query, scoped, limit)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(cmd.OutOrStdout(), results)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No templates match %q.\n", query)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%6.3f  %-13s %s\n", r.Score, r.Topic, r.Title)
	}
	return nil
}
