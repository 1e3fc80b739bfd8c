package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// AskRequest represents the ask API request.
type AskRequest struct {
	Messages    []Message    `json:"messages"`
	TopK        int          `json:"top_k,omitempty"`
	Filters     Filters      `json:"filters,omitempty"`
	Remote      bool         `json:"remote,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Filters narrows retrieval by facet.
type Filters struct {
	Sources      []string `json:"sources,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	DateFromDays int      `json:"date_from_days,omitempty"`
}

// Attachment is a caller-supplied text block included in the prompt context.
type Attachment struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// AskResult is one ranked corpus item.
type AskResult struct {
	ID      string     `json:"id"`
	Kind    string     `json:"kind"`
	Title   string     `json:"title"`
	URL     string     `json:"url"`
	Source  string     `json:"source"`
	Tags    []string   `json:"tags,omitempty"`
	Summary string     `json:"summary,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// AskResponse represents the ask API response.
type AskResponse struct {
	Answer  *string     `json:"answer"`
	Results []AskResult `json:"results"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var (
		topK        int
		sources     []string
		categories  []string
		tags        []string
		days        int
		remote      bool
		attachFiles []string
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the corpus",
		Long:  "Retrieves matching corpus items and, when the server has a completion provider, a cited answer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			req := AskRequest{
				Messages: []Message{{Role: "user", Content: args[0]}},
				TopK:     topK,
				Filters: Filters{
					Sources:      sources,
					Categories:   categories,
					Tags:         tags,
					DateFromDays: days,
				},
				Remote: remote,
			}
			attachments, err := loadAttachments(attachFiles)
			if err != nil {
				return err
			}
			req.Attachments = attachments
			return runAsk(cmd, req, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "n", 0, "Maximum number of results (server default when 0)")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Filter by source (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Filter by category (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Require tag (repeatable, all must match)")
	cmd.Flags().IntVar(&days, "days", 0, "Only items dated within the last N days")
	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch page extracts for the top results")
	cmd.Flags().StringSliceVar(&attachFiles, "attach", nil, "Text file to include as prompt context (repeatable)")

	return cmd
}

func loadAttachments(paths []string) ([]Attachment, error) {
	var attachments []Attachment
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", p, err)
		}
		attachments = append(attachments, Attachment{
			Name: filepath.Base(p),
			Text: string(data),
		})
	}
	return attachments, nil
}

func runAsk(cmd *cobra.Command, req AskRequest, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	var resp AskResponse
	if err := api.Post("/ask", req, &resp); err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if resp.Answer != nil {
		fmt.Println(*resp.Answer)
		fmt.Println()
	}

	if len(resp.Results) == 0 {
		fmt.Println("No matching items.")
		return nil
	}

	fmt.Printf("Sources (%d):\n", len(resp.Results))
	for i, result := range resp.Results {
		fmt.Printf("[%d] %s — %s\n", i+1, result.Title, result.Source)
		if result.Date != nil {
			fmt.Printf("    %s\n", result.Date.Format("2006-01-02"))
		}
		if result.URL != "" {
			fmt.Printf("    %s\n", result.URL)
		}
	}

	return nil
}
