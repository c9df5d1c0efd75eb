package repair

import "fmt"

// ParseError is returned by the structural pass when the content cannot be
// parsed or re-serialized. Fix recovers from it with the regex pass.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repair parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("repair parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
