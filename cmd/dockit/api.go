package main

import (
	"github.com/spf13/cobra"

	"github.com/AbhinavPrakashCoading/dockit/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Dockit server via HTTP.

These commands require a running server (dockit serve).
Use --server to specify a custom server URL.

Examples:
  dockit api health                        # Check server health
  dockit api status                        # Show registered providers
  dockit api extract-schema <pdf-url>      # Extract a form schema
  dockit api generate-schema <exam-name>   # Generate a fallback schema`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	for _, ep := range endpoints.All() {
		apiCmd.AddCommand(ep.Command(getServerURL))
	}

	rootCmd.AddCommand(apiCmd)
}
