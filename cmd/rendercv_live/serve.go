package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/rendercv-live/internal/config"
	"github.com/jonathan/rendercv-live/internal/server"
	"github.com/jonathan/rendercv-live/internal/server/ratelimit"
	"github.com/jonathan/rendercv-live/internal/themes"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the live editor HTTP server",
	Long:  `Start an HTTP server that serves the editor page, renders YAML to PDF, and manages themes.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	store := themes.NewStore(cfg.ThemesDir)
	if err := store.EnsureBuiltins(); err != nil {
		return fmt.Errorf("failed to seed themes: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Store:     store,
		Renderer:  newOrchestrator(cfg),
		RateLimit: ratelimit.LoadConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
