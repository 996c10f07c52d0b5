package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/config"
	"github.com/jonathan/career-compass/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP server that exposes the dashboard REST endpoints.

Without DATABASE_URL the server runs in demo mode: reads return empty data
and writes that need persistence return 503. Without GEMINI_API_KEY resume
analyses come from the built-in fixture provider.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	appCfg, err := config.NewAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort > 0 {
		appCfg.Port = servePort
	}

	cfg := server.Config{
		Port:         appCfg.Port,
		DatabaseURL:  appCfg.DatabaseURL,
		GeminiAPIKey: appCfg.GeminiAPIKey,
		GeminiModel:  appCfg.GeminiModel,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
