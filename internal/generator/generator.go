// Package generator adapts the RenderCV markup generator, which turns a YAML
// résumé into Typst source or reports schema validation errors.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Generator converts a YAML document into Typst markup.
//
// A document the schema validator rejects is not an error: Generate returns a
// Result whose Errors field is non-empty. The error return is reserved for
// failures to run the generator at all.
type Generator interface {
	Generate(ctx context.Context, yamlContent string) (*Result, error)
}

// Func adapts an ordinary function to the Generator interface.
type Func func(ctx context.Context, yamlContent string) (*Result, error)

// Generate calls f(ctx, yamlContent).
func (f Func) Generate(ctx context.Context, yamlContent string) (*Result, error) {
	return f(ctx, yamlContent)
}

// Result is the generator's answer for one document.
type Result struct {
	Markup string            `json:"markup,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Invalid reports whether the document was rejected by the schema validator.
func (r *Result) Invalid() bool {
	return r != nil && len(r.Errors) > 0
}

// ValidationError is one schema violation reported by RenderCV.
type ValidationError struct {
	Location Location `json:"loc"`
	Message  string   `json:"msg"`
}

// Format renders the error the way the editor displays it.
func (e ValidationError) Format() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown validation error"
	}
	return fmt.Sprintf("Field '%s': %s", e.Location, msg)
}

// FormatAll formats every error in order.
func FormatAll(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Format())
	}
	return out
}

// Location is the path of a rejected field. RenderCV mixes mapping keys and
// list indices, so elements arrive as JSON strings or integers.
type Location []string

func (l Location) String() string {
	return strings.Join(l, ".")
}

// UnmarshalJSON accepts string and integer path elements.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("location must be an array: %w", err)
	}

	out := make(Location, 0, len(raw))
	for _, part := range raw {
		var s string
		if err := json.Unmarshal(part, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n int64
		if err := json.Unmarshal(part, &n); err != nil {
			return fmt.Errorf("location element %s is neither string nor integer", part)
		}
		out = append(out, strconv.FormatInt(n, 10))
	}
	*l = out
	return nil
}
