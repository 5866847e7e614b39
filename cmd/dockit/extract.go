package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbhinavPrakashCoading/dockit/internal/api"
	"github.com/AbhinavPrakashCoading/dockit/internal/config"
	"github.com/AbhinavPrakashCoading/dockit/internal/fallback"
	"github.com/AbhinavPrakashCoading/dockit/internal/pipeline"
	"github.com/AbhinavPrakashCoading/dockit/internal/providers"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf-url-or-path>",
	Short: "Extract a form schema without a running server",
	Long: `Extract runs the full pipeline in-process against a PDF URL or a
local file, printing the resolved schema to stdout.

Examples:
  dockit extract https://example.org/application.pdf
  dockit extract ./form.pdf
  dockit extract ./form.pdf -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cm.Get().ToProviderRegistryConfig())

		engine := pipeline.FromConfig(cm.Get(), registry, logger)

		target := args[0]
		var result *pipeline.Result
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			result, err = engine.ProcessURL(cmd.Context(), target)
		} else {
			var data []byte
			data, err = os.ReadFile(target)
			if err == nil {
				result, err = engine.ProcessBytes(cmd.Context(), data)
			}
		}
		if err != nil {
			return err
		}

		return api.Output(result)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <exam-name>",
	Short: "Generate a fallback document schema for an exam",
	Long: `Generate produces a curated document-requirement schema for a named
exam family (banking, SSC, NEET/JEE/GATE, UPSC) without touching any PDF.

Examples:
  dockit generate "SBI PO 2026"
  dockit generate upsc-cse -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.Output(fallback.Generate(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(generateCmd)
}
