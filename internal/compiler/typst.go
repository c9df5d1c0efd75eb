// Package compiler runs the Typst command-line compiler to turn markup into a PDF.
package compiler

import (
	"context"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultTimeout is the maximum time to wait for Typst compilation
	DefaultTimeout = 60 * time.Second

	// MaxLogOutput bounds the diagnostic text returned to callers
	MaxLogOutput = 500
)

// Compiler turns a markup file into a PDF file.
type Compiler interface {
	Compile(ctx context.Context, inputPath, outputPath string) (*Output, error)
}

// Output carries the diagnostic streams of a successful compilation.
type Output struct {
	Stdout string
	Stderr string
}

// Typst invokes `typst compile`.
type Typst struct {
	Binary           string        // Defaults to "typst"
	DiagnosticFormat string        // Defaults to "human"
	FontPaths        []string      // Passed as repeated --font-path flags
	Timeout          time.Duration // Defaults to DefaultTimeout
}

// NewTypst creates a Typst compiler with the given binary and font directories.
func NewTypst(binary string, fontPaths []string, timeout time.Duration) *Typst {
	return &Typst{Binary: binary, FontPaths: fontPaths, Timeout: timeout}
}

func (t *Typst) binary() string {
	if t.Binary == "" {
		return "typst"
	}
	return t.Binary
}

// Args returns the command-line arguments for compiling inputPath to outputPath.
func (t *Typst) Args(inputPath, outputPath string) []string {
	format := t.DiagnosticFormat
	if format == "" {
		format = "human"
	}

	args := []string{"compile", "--diagnostic-format", format}
	for _, p := range t.FontPaths {
		args = append(args, "--font-path", p)
	}
	return append(args, inputPath, outputPath)
}

// Compile runs Typst. Success requires a zero exit code and a non-empty
// output file; anything else is a *CompilationError.
func (t *Typst) Compile(ctx context.Context, inputPath, outputPath string) (*Output, error) {
	binary := t.binary()
	if _, err := exec.LookPath(binary); err != nil {
		return nil, &NotFoundError{Binary: binary, Cause: err}
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, t.Args(inputPath, outputPath)...)
	cmd.WaitDelay = time.Second

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}

	if out.Stdout != "" {
		log.Printf("[typst] stdout:\n%s", out.Stdout)
	}
	if out.Stderr != "" {
		log.Printf("[typst] stderr:\n%s", out.Stderr)
	}

	if runErr != nil {
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		message := "Typst compilation failed"
		if ctx.Err() != nil {
			message = "Typst compilation timed out"
		}
		return nil, &CompilationError{
			Message:   message,
			ExitCode:  exitCode,
			LogOutput: Diagnostics(out),
			Cause:     runErr,
		}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, &CompilationError{
			Message:   "PDF generation failed after compilation (file missing)",
			LogOutput: Diagnostics(out),
			Cause:     err,
		}
	}
	if info.Size() == 0 {
		return nil, &CompilationError{
			Message:   "PDF generation failed after compilation (file is empty)",
			LogOutput: Diagnostics(out),
		}
	}

	return out, nil
}

// Diagnostics picks the most useful stream and truncates it to MaxLogOutput.
func Diagnostics(out *Output) string {
	detail := out.Stderr
	if detail == "" {
		detail = out.Stdout
	}
	if detail == "" {
		detail = "Unknown Typst error"
	}
	return Truncate(detail, MaxLogOutput)
}

// Truncate shortens s to at most n bytes and marks the cut with "...". The
// cut never splits a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
