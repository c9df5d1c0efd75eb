package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/rendercv-live/internal/config"
	"github.com/jonathan/rendercv-live/internal/observability"
	"github.com/jonathan/rendercv-live/internal/render"
	"github.com/jonathan/rendercv-live/internal/themes"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a RenderCV YAML file to PDF",
	Long:  "Repairs, generates, and compiles a RenderCV document exactly like the live editor does, and writes the PDF to --out. With --theme, renders the sample CV in that theme instead.",
	RunE:  runRender,
}

var (
	renderInFile  string
	renderOutFile string
	renderTheme   string
	renderVerbose bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInFile, "in", "i", "", "Path to the YAML file (default stdin)")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Path to write the PDF (required)")
	renderCmd.Flags().StringVarP(&renderTheme, "theme", "t", "", "Render the sample CV in this theme instead of reading YAML")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print repair and render details to stderr")

	_ = renderCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	orch := newOrchestrator(cfg)
	printer := observability.NewPrinter(cmd.ErrOrStderr())

	var doc *render.Document
	if renderTheme != "" {
		store := themes.NewStore(cfg.ThemesDir)
		if err := store.EnsureBuiltins(); err != nil {
			return fmt.Errorf("failed to seed themes: %w", err)
		}
		if _, err := store.Get(renderTheme); err != nil {
			return err
		}
		doc, err = orch.Preview(cmd.Context(), renderTheme)
	} else {
		content, readErr := readInput(cmd.InOrStdin(), renderInFile)
		if readErr != nil {
			return readErr
		}
		doc, err = orch.Render(cmd.Context(), content)
	}
	if err != nil {
		var verr *render.ValidationFailedError
		if errors.As(err, &verr) {
			printer.PrintValidationErrors(verr.Details)
		}
		return err
	}

	if err := os.WriteFile(renderOutFile, doc.PDF, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	if renderVerbose {
		printer.PrintRepairReport(doc.Repair)
		printer.PrintRenderSummary(doc, renderOutFile)
	} else if doc.IconWarning {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no icon fonts found; icons may be missing from the PDF")
	}
	return nil
}
