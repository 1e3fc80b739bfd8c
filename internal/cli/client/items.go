package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ItemsResponse represents the items API response.
type ItemsResponse struct {
	Items []AskResult `json:"items"`
}

// ItemsCmd creates the items command.
func ItemsCmd() *cobra.Command {
	var (
		sources    []string
		categories []string
		tags       []string
		days       int
	)

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List corpus items",
		Long:  "Lists corpus items, optionally narrowed by source, category, tag, or recency.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runItems(cmd, sources, categories, tags, days, outputJSON)
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "Filter by source (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Filter by category (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Require tag (repeatable, all must match)")
	cmd.Flags().IntVar(&days, "days", 0, "Only items dated within the last N days")

	return cmd
}

func runItems(cmd *cobra.Command, sources, categories, tags []string, days int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	params := url.Values{}
	if len(sources) > 0 {
		params.Set("sources", strings.Join(sources, ","))
	}
	if len(categories) > 0 {
		params.Set("categories", strings.Join(categories, ","))
	}
	if len(tags) > 0 {
		params.Set("tags", strings.Join(tags, ","))
	}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}

	path := "/items"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp ItemsResponse
	if err := api.Get(path, &resp); err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(resp.Items) == 0 {
		fmt.Println("No matching items.")
		return nil
	}

	fmt.Printf("Found %d items:\n\n", len(resp.Items))
	for _, item := range resp.Items {
		date := ""
		if item.Date != nil {
			date = item.Date.Format("2006-01-02")
		}
		fmt.Printf("%-10s %-60s %s\n", date, truncate(item.Title, 60), item.Source)
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
