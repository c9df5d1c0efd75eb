// Package repair normalizes user-edited RenderCV YAML so the downstream schema
// validator accepts it. Two passes share one rule table: a structural pass over
// the parsed document tree and a line-oriented regex pass for text that does not
// parse.
package repair

import "strings"

// Kind is the repair action a Rule performs.
type Kind int

const (
	// KindRemove deletes the field.
	KindRemove Kind = iota
	// KindCoerce replaces a value outside Allowed with Replacement.
	KindCoerce
)

func (k Kind) String() string {
	switch k {
	case KindRemove:
		return "remove"
	case KindCoerce:
		return "coerce"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name in JSON reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Rule describes one field the validator is known to reject.
type Rule struct {
	Location    []string // Mapping path holding the field, e.g. design.header
	Field       string
	Kind        Kind
	Allowed     []string // KindCoerce only
	Replacement string   // KindCoerce only
}

// Path returns the dotted location of the rule's field.
func (r Rule) Path() string {
	return strings.Join(append(append([]string{}, r.Location...), r.Field), ".")
}

// allows reports whether value is acceptable for a coerce rule.
func (r Rule) allows(value string) bool {
	for _, a := range r.Allowed {
		if a == value {
			return true
		}
	}
	return false
}

// SectionTitleTypes are the values RenderCV accepts for design.section_titles.type.
var SectionTitleTypes = []string{"with-partial-line", "with-full-line", "without-line", "moderncv"}

// Rules is the single source of truth for both repair passes.
var Rules = []Rule{
	{Location: []string{"design", "header"}, Field: "small_caps_for_name", Kind: KindRemove},
	{Location: []string{"design", "header"}, Field: "use_urls_as_placeholders_for_connections", Kind: KindRemove},
	{Location: []string{"design", "header"}, Field: "make_connections_links", Kind: KindRemove},
	{
		Location:    []string{"design", "section_titles"},
		Field:       "type",
		Kind:        KindCoerce,
		Allowed:     SectionTitleTypes,
		Replacement: "with-partial-line",
	},
	{Location: []string{"design", "highlights"}, Field: "nested_bullet", Kind: KindRemove},
}

// Mode records which pass produced a Result.
type Mode string

const (
	ModeStructural Mode = "structural"
	ModeTextual    Mode = "textual"
)

// Change is one edit applied to a document.
type Change struct {
	Path   string `json:"path"` // Dotted path of the field, relative to the document root when known
	Action Kind   `json:"action"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// Result is the outcome of a repair pass.
type Result struct {
	Content string
	Mode    Mode
	Changes []Change
}

// Changed reports whether the pass altered anything.
func (r *Result) Changed() bool {
	return len(r.Changes) > 0
}

// Fix runs the structural pass and falls back to the regex pass when the
// content cannot be parsed or re-serialized. It never fails.
func Fix(content string) *Result {
	res, err := FixStructure(content)
	if err != nil {
		return FixText(content)
	}
	return res
}
