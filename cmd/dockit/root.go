package main

import (
	"github.com/spf13/cobra"

	"github.com/AbhinavPrakashCoading/dockit/internal/api"
	"github.com/AbhinavPrakashCoading/dockit/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "dockit",
	Short: "Form schema extraction pipeline for exam application PDFs",
	Long: `Dockit extracts structured form schemas from exam application PDFs.

The pipeline includes:
  - Text-layer extraction with an OCR fallback for scanned documents
  - Entity inference over the extracted text
  - Regex pattern extraction for common application-form fields
  - Coverage-driven merging of entity and pattern fields
  - Curated fallback schemas for known exam families`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.dockit/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "dockit home directory (default: ~/.dockit)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
