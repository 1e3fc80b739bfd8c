package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/internal/cli"
	"github.com/lexwatch/lexwatch/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexwatch",
		Short: "Lexwatch CLI - Question answering over the regulatory corpus",
		Long: `Lexwatch CLI provides commands to query the lexwatch API.

Environment variables:
  LEXWATCH_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.ItemsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
