package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AbhinavPrakashCoading/dockit/internal/config"
	"github.com/AbhinavPrakashCoading/dockit/internal/home"
	"github.com/AbhinavPrakashCoading/dockit/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Dockit server",
	Long: `Start the Dockit HTTP server.

The server provides:
  - /health                  - Basic server health check
  - /status                  - Server status and registered providers
  - /api/extract-schema      - Extract a form schema from a PDF URL
  - /api/generate-schema     - Generate a fallback schema for an exam

Examples:
  dockit serve                    # Start on default port 8080
  dockit serve --port 3000        # Start on custom port
  dockit serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load config with hot reload
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		// Flags win over config file
		host := serveHost
		if host == "" {
			host = cm.Get().Server.Host
		}
		port := servePort
		if port == "" {
			port = cm.Get().Server.Port
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
