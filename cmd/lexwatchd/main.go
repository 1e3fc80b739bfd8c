package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/internal/cli"
	"github.com/lexwatch/lexwatch/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexwatchd",
		Short: "Lexwatch daemon and CLI",
		Long:  "Lexwatch daemon for running the API server and querying the corpus locally",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.AskCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
