package repair

import (
	"regexp"
	"strings"
)

// linePattern is a rule compiled for the regex pass.
type linePattern struct {
	rule Rule
	re   *regexp.Regexp
}

var linePatterns = compileRules(Rules)

// compileRules builds one whole-line pattern per rule. Removals match the
// entire line including its terminator so neighbouring lines keep their
// indentation. Coercions capture the quoted literal after the key.
func compileRules(rules []Rule) []linePattern {
	patterns := make([]linePattern, 0, len(rules))
	for _, rule := range rules {
		field := regexp.QuoteMeta(rule.Field)
		var expr string
		switch rule.Kind {
		case KindRemove:
			expr = `(?m)^[ \t]*` + field + `[ \t]*:.*(?:\r?\n|$)`
		case KindCoerce:
			expr = `(?m)^([ \t]*` + field + `[ \t]*:[ \t]*)(['"])([^'"\r\n]*)(['"])`
		}
		patterns = append(patterns, linePattern{rule: rule, re: regexp.MustCompile(expr)})
	}
	return patterns
}

// FixText applies Rules directly to raw text. It works on content that does
// not parse, but the output is only a best-effort patch: it is not guaranteed
// to be valid YAML and the patterns do not know where in the document a line
// sits. Callers should treat it as a second line of defense behind
// FixStructure.
func FixText(content string) *Result {
	res := &Result{Mode: ModeTextual}
	for _, p := range linePatterns {
		switch p.rule.Kind {
		case KindRemove:
			content = p.re.ReplaceAllStringFunc(content, func(line string) string {
				res.Changes = append(res.Changes, Change{
					Path:   p.rule.Field,
					Action: KindRemove,
					From:   lineValue(line),
				})
				return ""
			})
		case KindCoerce:
			content = p.re.ReplaceAllStringFunc(content, func(match string) string {
				groups := p.re.FindStringSubmatch(match)
				prefix, value := groups[1], groups[3]
				if p.rule.allows(value) {
					return match
				}
				res.Changes = append(res.Changes, Change{
					Path:   p.rule.Field,
					Action: KindCoerce,
					From:   value,
					To:     p.rule.Replacement,
				})
				return prefix + `"` + p.rule.Replacement + `"`
			})
		}
	}
	res.Content = content
	return res
}

func lineValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}
