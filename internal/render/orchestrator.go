// Package render turns a YAML résumé into a PDF: repair, generate markup,
// escalate repair once on validation failure, then compile.
package render

import (
	"context"
	"log"

	"github.com/jonathan/rendercv-live/internal/assets"
	"github.com/jonathan/rendercv-live/internal/compiler"
	"github.com/jonathan/rendercv-live/internal/generator"
	"github.com/jonathan/rendercv-live/internal/repair"
	"github.com/jonathan/rendercv-live/internal/themes"
)

// MaxGenerationAttempts bounds how often the generator sees one document.
const MaxGenerationAttempts = 2

// Orchestrator drives the render pipeline. It holds no per-request state
// and is safe for concurrent use.
type Orchestrator struct {
	Generator generator.Generator
	Compiler  compiler.Compiler

	// IconFontsAvailable clears Document.IconWarning when true
	IconFontsAvailable bool

	// ScratchDir is the parent of per-request workspaces; empty means os.TempDir
	ScratchDir string
}

// New creates an Orchestrator.
func New(gen generator.Generator, comp compiler.Compiler, iconFontsAvailable bool) *Orchestrator {
	return &Orchestrator{
		Generator:          gen,
		Compiler:           comp,
		IconFontsAvailable: iconFontsAvailable,
	}
}

// Markup is generated Typst source and the repair that made it valid.
type Markup struct {
	Source   string
	Repair   *repair.Result
	Attempts int
}

// Document is a rendered PDF.
type Document struct {
	PDF         []byte
	IconWarning bool
	Repair      *repair.Result
	Attempts    int
}

// Generate repairs content and converts it to markup. When the generator
// rejects the structurally repaired text, the regex pass is applied to it
// and the generator runs once more; a second rejection is a
// *ValidationFailedError.
func (o *Orchestrator) Generate(ctx context.Context, content string) (*Markup, error) {
	repaired := repair.Fix(content)
	if repaired.Changed() {
		log.Printf("[render] %s repair applied %d change(s)", repaired.Mode, len(repaired.Changes))
	}

	current := repaired
	for attempt := 1; ; attempt++ {
		res, err := o.Generator.Generate(ctx, current.Content)
		if err != nil {
			return nil, err
		}

		if !res.Invalid() {
			if res.Markup == "" {
				return nil, &RenderError{Message: "failed to generate Typst content", Cause: ErrEmptyResult}
			}
			return &Markup{Source: res.Markup, Repair: current, Attempts: attempt}, nil
		}

		details := generator.FormatAll(res.Errors)
		log.Printf("[render] attempt %d: %d validation error(s)", attempt, len(details))
		for _, d := range details {
			log.Printf("[render]   %s", d)
		}

		if attempt >= MaxGenerationAttempts {
			return nil, &ValidationFailedError{Details: details}
		}

		escalated := repair.FixText(repaired.Content)
		escalated.Changes = append(append([]repair.Change(nil), repaired.Changes...), escalated.Changes...)
		current = escalated
	}
}

// Render runs the full pipeline for content.
func (o *Orchestrator) Render(ctx context.Context, content string) (*Document, error) {
	markup, err := o.Generate(ctx, content)
	if err != nil {
		return nil, err
	}

	pdf, err := o.Compile(ctx, markup.Source)
	if err != nil {
		return nil, err
	}

	if !o.IconFontsAvailable {
		log.Printf("[render] no icon fonts detected; icons may not render correctly in the PDF")
	}

	return &Document{
		PDF:         pdf,
		IconWarning: !o.IconFontsAvailable,
		Repair:      markup.Repair,
		Attempts:    markup.Attempts,
	}, nil
}

// Compile writes markup to a scratch workspace, compiles it and returns the
// PDF bytes. The workspace is removed before Compile returns.
func (o *Orchestrator) Compile(ctx context.Context, markup string) ([]byte, error) {
	ws, err := newWorkspace(o.ScratchDir)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	input, err := ws.writeMarkup(markup)
	if err != nil {
		return nil, err
	}

	if _, err := o.Compiler.Compile(ctx, input, ws.pdfPath()); err != nil {
		return nil, err
	}

	pdf, err := ws.readPDF()
	if err != nil {
		return nil, err
	}
	log.Printf("[render] PDF generated (%d bytes)", len(pdf))
	return pdf, nil
}

// Preview renders the embedded sample CV with design.theme set to theme.
// Callers check that the theme exists.
func (o *Orchestrator) Preview(ctx context.Context, theme string) (*Document, error) {
	sample, err := assets.Get(assets.SampleCV)
	if err != nil {
		return nil, &RenderError{Message: "sample CV unavailable", Cause: err}
	}

	content, err := themes.WithThemeName(sample, theme)
	if err != nil {
		return nil, &RenderError{Message: "failed to apply theme to sample CV", Cause: err}
	}

	return o.Render(ctx, content)
}
