package checklist

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueMalformed   IssueKind = "malformed"
	IssueIndentation IssueKind = "indentation"
)

// Issue is an advisory finding about one line. Issues never affect Parse.
type Issue struct {
	Line       int       `json:"line" yaml:"line"`
	Kind       IssueKind `json:"kind" yaml:"kind"`
	Message    string    `json:"message" yaml:"message"`
	Suggestion string    `json:"suggestion" yaml:"suggestion"`
}

// Validation is the result of Validate.
type Validation struct {
	Valid  bool    `json:"valid" yaml:"valid"`
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Validate flags lines that look like checklist items but do not parse,
// and checklist lines indented by an odd number of characters.
func Validate(text string) Validation {
	v := Validation{Issues: []Issue{}}

	for i, line := range strings.Split(text, "\n") {
		n := i + 1
		body, indent := splitIndent(line)

		if looksLikeItem(body, true) {
			if _, ok := matchLine(line); !ok {
				v.Issues = append(v.Issues, Issue{
					Line:       n,
					Kind:       IssueMalformed,
					Message:    fmt.Sprintf("Line %d: Malformed TODO format", n),
					Suggestion: fmt.Sprintf("Line %d: Use standard format like \"- [ ] task description\"", n),
				})
			}
		}

		if looksLikeItem(body, false) && indent%2 != 0 {
			v.Issues = append(v.Issues, Issue{
				Line:       n,
				Kind:       IssueIndentation,
				Message:    fmt.Sprintf("Line %d: Inconsistent indentation (should be multiple of 2 spaces)", n),
				Suggestion: fmt.Sprintf("Line %d: Use 2, 4, 6... spaces for indentation", n),
			})
		}
	}

	v.Valid = len(v.Issues) == 0
	return v
}

func splitIndent(line string) (string, int) {
	line = strings.TrimSuffix(line, "\r")
	body := strings.TrimLeftFunc(line, unicode.IsSpace)
	return body, utf8.RuneCountInString(line[:len(line)-len(body)])
}

// looksLikeItem reports whether body starts with a single list marker
// character followed, after optional whitespace, by '['. Digits count as
// markers only when digits is set.
func looksLikeItem(body string, digits bool) bool {
	if body == "" {
		return false
	}
	switch c := body[0]; {
	case c == '-' || c == '*' || c == '+':
	case digits && c >= '0' && c <= '9':
	default:
		return false
	}
	rest := strings.TrimLeftFunc(body[1:], unicode.IsSpace)
	return strings.HasPrefix(rest, "[")
}
