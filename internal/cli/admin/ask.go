package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/internal/config"
	"github.com/lexwatch/lexwatch/internal/domain"
	"github.com/lexwatch/lexwatch/internal/service"
)

// AskCmd returns the ask command, which runs one question through the
// pipeline locally without starting the server.
func AskCmd() *cobra.Command {
	var (
		topK       int
		sources    []string
		categories []string
		tags       []string
		days       int
		remote     bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Run one question through the pipeline",
		Long:  "Loads the corpus, ranks matching items, and prints the answer with its numbered sources.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			svc, err := buildAskService(cfg)
			if err != nil {
				return err
			}

			input := service.AskInput{
				Messages: []domain.Message{{Role: domain.RoleUser, Content: args[0]}},
				Filters: domain.FilterCriteria{
					Sources:    sources,
					Categories: categories,
					Tags:       tags,
					MaxAgeDays: days,
				},
				TopK:   topK,
				Remote: remote,
			}

			out, err := svc.Ask(context.Background(), input)
			if err != nil {
				return err
			}

			if out.Answer != nil {
				fmt.Println(*out.Answer)
				fmt.Println()
			}

			if len(out.Results) == 0 {
				fmt.Println("No matching items.")
				return nil
			}

			fmt.Printf("Sources (%d):\n", len(out.Results))
			for i, item := range out.Results {
				fmt.Printf("[%d] %s — %s\n", i+1, item.Title, item.Source)
				if item.URL != "" {
					fmt.Printf("    %s\n", item.URL)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "n", 0, "Maximum number of results (config default when 0)")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Filter by source (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Filter by category (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Require tag (repeatable, all must match)")
	cmd.Flags().IntVar(&days, "days", 0, "Only items dated within the last N days")
	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch page extracts for the top results")

	return cmd
}
