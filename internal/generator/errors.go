package generator

import "fmt"

// Error represents a failure to run the generator or read its answer
type Error struct {
	Message   string
	LogOutput string // Truncated stderr of the bridge process, if any
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generator error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generator error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UnavailableError indicates the Python interpreter or the rendercv package is missing
type UnavailableError struct {
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generator unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generator unavailable: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
