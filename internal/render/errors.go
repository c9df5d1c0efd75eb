package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResult is the cause of the RenderError returned when the generator
// produces neither markup nor validation errors.
var ErrEmptyResult = errors.New("generator returned an empty result")

// ValidationFailedError indicates the document still failed schema
// validation after every repair attempt
type ValidationFailedError struct {
	Details []string // One "Field '<path>': <message>" line per violation
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("YAML validation failed: %s", strings.Join(e.Details, "; "))
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
