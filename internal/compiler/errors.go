package compiler

import "fmt"

// NotFoundError indicates the compiler executable is not installed
type NotFoundError struct {
	Binary string
	Cause  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in PATH: %v", e.Binary, e.Cause)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// CompilationError represents a failed compilation: a non-zero exit code, a
// timeout, or a missing or empty output file.
type CompilationError struct {
	Message   string
	ExitCode  int
	LogOutput string // At most MaxLogOutput bytes plus an ellipsis
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}
