package generator

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	schemafiles "github.com/jonathan/rendercv-live/schemas"
	"github.com/jonathan/rendercv-live/internal/schemas"
)

//go:embed bridge/rendercv_bridge.py
var bridgeScript string

const (
	// DefaultTimeout bounds a single generator run
	DefaultTimeout = 60 * time.Second

	// exitImportFailure is the bridge's exit code when rendercv cannot be imported
	exitImportFailure = 3

	maxLogOutput = 500
)

// Command runs RenderCV through a Python interpreter in a child process.
type Command struct {
	Python  string        // Interpreter, defaults to python3
	Timeout time.Duration // Defaults to DefaultTimeout
}

// NewCommand creates a Command for the given interpreter.
func NewCommand(python string, timeout time.Duration) *Command {
	return &Command{Python: python, Timeout: timeout}
}

// Generate feeds yamlContent to the bridge script and decodes its envelope.
func (c *Command) Generate(ctx context.Context, yamlContent string) (*Result, error) {
	python := c.Python
	if python == "" {
		python = "python3"
	}
	if _, err := exec.LookPath(python); err != nil {
		return nil, &UnavailableError{Message: python + " not found in PATH", Cause: err}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, python, "-c", bridgeScript)
	cmd.Stdin = strings.NewReader(yamlContent)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logOutput := truncate(stderr.String(), maxLogOutput)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitImportFailure {
			return nil, &UnavailableError{Message: strings.TrimSpace(logOutput), Cause: err}
		}
		if ctx.Err() != nil {
			return nil, &Error{Message: "generator timed out", LogOutput: logOutput, Cause: ctx.Err()}
		}
		return nil, &Error{Message: "generator process failed", LogOutput: logOutput, Cause: err}
	}

	return Decode(stdout.Bytes())
}

// Decode validates a bridge envelope against its schema and unmarshals it.
func Decode(data []byte) (*Result, error) {
	if err := schemas.Validate(schemafiles.GeneratorResult, data); err != nil {
		return nil, &Error{Message: "generator returned a malformed envelope", Cause: err}
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &Error{Message: "failed to decode generator envelope", Cause: err}
	}
	return &res, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
