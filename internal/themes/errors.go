package themes

import "fmt"

// NotFoundError indicates no theme file exists for the name
type NotFoundError struct {
	Name    string
	Message string // Overrides the default message when set
	Cause   error
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Theme '%s' not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// ProtectedError indicates a theme that may not be deleted
type ProtectedError struct {
	Name    string
	Message string
}

func (e *ProtectedError) Error() string {
	return e.Message
}

// InvalidNameError indicates a theme name outside [A-Za-z0-9_]+
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("Invalid theme name '%s': use letters, digits and underscores only", e.Name)
}

// InvalidContentError indicates theme content that is not a YAML mapping
type InvalidContentError struct {
	Message string
	Cause   error
}

func (e *InvalidContentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid theme content: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid theme content: %s", e.Message)
}

func (e *InvalidContentError) Unwrap() error {
	return e.Cause
}
