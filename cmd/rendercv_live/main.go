// Package main provides the entry point for the RenderCV live editor server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/rendercv-live/internal/compiler"
	"github.com/jonathan/rendercv-live/internal/config"
	"github.com/jonathan/rendercv-live/internal/generator"
	"github.com/jonathan/rendercv-live/internal/render"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "rendercv_live",
	Short:         "RenderCV live editor",
	SilenceErrors: true,
	Long:          "rendercv_live serves a browser editor that turns RenderCV YAML into a PDF on every keystroke, and exposes the same repair and render steps on the command line.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (environment variables take precedence)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newOrchestrator wires the generator and compiler described by cfg.
func newOrchestrator(cfg *config.Config) *render.Orchestrator {
	gen := generator.NewCommand(cfg.PythonBinary, cfg.GenerateTimeout.Std())
	comp := compiler.NewTypst(cfg.TypstBinary, cfg.FontPaths(), cfg.CompileTimeout.Std())
	return render.New(gen, comp, cfg.IconFontsAvailable())
}
