// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/rendercv-live/internal/render"
	"github.com/jonathan/rendercv-live/internal/repair"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the inner box width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		line = string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintRepairReport outputs which pass repaired the document and every change.
func (p *Printer) PrintRepairReport(res *repair.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pass:     %s\n", res.Mode))
	sb.WriteString(fmt.Sprintf("Changes:  %d\n", len(res.Changes)))

	if res.Changed() {
		sb.WriteString("\n")
		count := min(len(res.Changes), maxItemsToShow)
		for _, c := range res.Changes[:count] {
			switch c.Action {
			case repair.KindRemove:
				sb.WriteString(fmt.Sprintf("  - %s\n", c.Path))
			case repair.KindCoerce:
				sb.WriteString(fmt.Sprintf("  ~ %s\n      %q → %q\n", c.Path, c.From, c.To))
			}
		}
		if len(res.Changes) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(res.Changes)-maxItemsToShow))
		}
	}

	p.printBox("YAML REPAIR", sb.String())
}

// PrintValidationErrors outputs the errors that survived every repair attempt.
func (p *Printer) PrintValidationErrors(details []string) {
	if len(details) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d validation errors:\n\n", len(details)))
	for _, d := range details {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", d))
	}

	p.printBox("VALIDATION FAILED", sb.String())
}

// PrintRenderSummary outputs the outcome of a successful render.
func (p *Printer) PrintRenderSummary(doc *render.Document, outPath string) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output:    %s\n", outPath))
	sb.WriteString(fmt.Sprintf("Size:      %d bytes\n", len(doc.PDF)))
	sb.WriteString(fmt.Sprintf("Attempts:  %d\n", doc.Attempts))
	if doc.Repair != nil {
		sb.WriteString(fmt.Sprintf("Repair:    %s pass, %d change(s)\n", doc.Repair.Mode, len(doc.Repair.Changes)))
	}
	if doc.IconWarning {
		sb.WriteString("\n⚠ No icon fonts found; set RENDERCV_FONT_PATH\n")
	}

	p.printBox("PDF RENDERED", sb.String())
}
