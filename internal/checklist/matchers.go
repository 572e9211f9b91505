package checklist

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineMatch is what a matcher extracts from one line. indent is the raw
// count of leading whitespace characters.
type lineMatch struct {
	indent    int
	completed bool
	priority  Priority
	format    Format
	text      string
}

// matcher recognizes one list notation. marker consumes the list marker
// at the start of an already left-trimmed line and returns the remainder.
type matcher struct {
	format Format
	marker func(body string) (rest string, ok bool)
}

// matchers are tried in order; the first that accepts a line wins.
var matchers = []matcher{
	{format: FormatDash, marker: byteMarker('-')},
	{format: FormatAsterisk, marker: byteMarker('*')},
	{format: FormatPlus, marker: byteMarker('+')},
	{format: FormatNumbered, marker: numberedMarker},
}

func byteMarker(c byte) func(string) (string, bool) {
	return func(body string) (string, bool) {
		if body == "" || body[0] != c {
			return "", false
		}
		return body[1:], true
	}
}

// numberedMarker accepts one or more ASCII digits followed by a dot.
func numberedMarker(body string) (string, bool) {
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(body) || body[i] != '.' {
		return "", false
	}
	return body[i+1:], true
}

// matchLine runs the matchers over a single line.
func matchLine(line string) (lineMatch, bool) {
	line = strings.TrimSuffix(line, "\r")
	body := strings.TrimLeftFunc(line, unicode.IsSpace)
	indent := utf8.RuneCountInString(line[:len(line)-len(body)])

	for _, m := range matchers {
		rest, ok := m.marker(body)
		if !ok {
			continue
		}
		lm, ok := matchCheckbox(rest)
		if !ok {
			continue
		}
		lm.indent = indent
		lm.format = m.format
		return lm, true
	}
	return lineMatch{}, false
}

// matchCheckbox parses "[c] [p] text" after the list marker. Whitespace
// between the parts is optional.
func matchCheckbox(rest string) (lineMatch, bool) {
	s := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(s) < 3 || s[0] != '[' {
		return lineMatch{}, false
	}

	box, size := utf8.DecodeRuneInString(s[1:])
	if 1+size >= len(s) || s[1+size] != ']' {
		return lineMatch{}, false
	}

	var completed bool
	switch {
	case box == 'x' || box == 'X':
		completed = true
	case unicode.IsSpace(box):
		completed = false
	default:
		return lineMatch{}, false
	}

	after := strings.TrimLeftFunc(s[2+size:], unicode.IsSpace)

	// A priority marker only counts when text follows it; "- [ ] [!]" is a
	// task whose text is "[!]".
	if p, tail, ok := priorityMarker(after); ok {
		if text := strings.TrimSpace(tail); text != "" {
			return lineMatch{completed: completed, priority: p, text: text}, true
		}
	}

	text := strings.TrimSpace(after)
	if text == "" {
		return lineMatch{}, false
	}
	if p, head, ok := trailingPriority(text); ok {
		return lineMatch{completed: completed, priority: p, text: head}, true
	}
	return lineMatch{completed: completed, priority: PriorityMedium, text: text}, true
}

// trailingPriority accepts a priority marker written at the end of the
// text instead of before it, as in "- [ ] Write tests [!]".
func trailingPriority(text string) (Priority, string, bool) {
	for _, n := range []int{4, 3} {
		if len(text) <= n {
			continue
		}
		p, tail, ok := priorityMarker(text[len(text)-n:])
		if !ok || tail != "" {
			continue
		}
		before := text[:len(text)-n]
		if before[len(before)-1] != ' ' && before[len(before)-1] != '\t' {
			continue
		}
		if head := strings.TrimSpace(before); head != "" {
			return p, head, true
		}
	}
	return "", "", false
}

// priorityMarker recognizes [!], [!!], [H], [M] and [L], case-insensitively.
func priorityMarker(s string) (Priority, string, bool) {
	if strings.HasPrefix(s, "[!!]") {
		return PriorityHigh, s[4:], true
	}
	if len(s) < 3 || s[0] != '[' || s[2] != ']' {
		return "", "", false
	}
	switch s[1] {
	case '!', 'H', 'h':
		return PriorityHigh, s[3:], true
	case 'M', 'm':
		return PriorityMedium, s[3:], true
	case 'L', 'l':
		return PriorityLow, s[3:], true
	}
	return "", "", false
}
