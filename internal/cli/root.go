// Package cli implements the perfeval command line client.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the perfeval command tree.
func NewRootCommand() *cobra.Command {
	var apiURL string

	rootCmd := &cobra.Command{
		Use:   "perfeval",
		Short: "Generate employee performance evaluations from activity logs",
		Long: `perfeval talks to a running evaluation server.

Example usage:
  perfeval report --employee E001 --logs logs.txt
  perfeval report -e E002 -l - --pdf e002.pdf < logs.txt
  perfeval health`,
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "evaluation server URL (env API_URL)")

	rootCmd.AddCommand(newReportCommand(&apiURL))
	rootCmd.AddCommand(newHealthCommand(&apiURL))
	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
