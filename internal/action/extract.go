// Package action implements the directive pipeline: extraction of
// embedded JSON action objects from assistant text, validation into typed
// directives, dispatch against the store, and sanitization of the text
// shown to the user.
package action

import (
	"encoding/json"
	"regexp"
	"strings"
)

// markerRe anchors a directive span: an opening brace whose first key is
// "action", whitespace-insensitive.
var markerRe = regexp.MustCompile(`\{\s*"action"\s*:`)

var (
	fencedBlockRe = regexp.MustCompile("(?s)```.*?```")
	headingRe     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	newlineRunRe  = regexp.MustCompile(`\n{3,}`)
)

// RawDirective is the wire shape of a directive before validation.
type RawDirective struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// findSpans returns the [start, end) offsets of every balanced directive
// span, in order of appearance. From each marker the scan walks forward
// counting brace depth; the span closes when depth returns to zero.
// A marker whose braces never balance before end of text yields no span.
// Scanning resumes after a consumed span, so markers nested inside one
// directive's data are not matched again.
func findSpans(text string) [][2]int {
	var spans [][2]int
	i := 0
	for i < len(text) {
		loc := markerRe.FindStringIndex(text[i:])
		if loc == nil {
			break
		}
		start := i + loc[0]
		end := -1
		depth := 0
		for j := start; j < len(text); j++ {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = j + 1
				}
			}
			if end != -1 {
				break
			}
		}
		if end == -1 {
			// Unterminated: discard this occurrence, keep scanning past
			// the marker in case a later one balances.
			i = i + loc[1]
			continue
		}
		spans = append(spans, [2]int{start, end})
		i = end
	}
	return spans
}

// Extract returns every syntactically complete directive found in the
// text, in order of appearance. Spans whose content fails JSON parsing
// are dropped; the protocol is best-effort.
func Extract(text string) []RawDirective {
	var out []RawDirective
	for _, span := range findSpans(text) {
		var raw RawDirective
		if err := json.Unmarshal([]byte(text[span[0]:span[1]]), &raw); err != nil {
			continue
		}
		out = append(out, raw)
	}
	return out
}

// Sanitize strips every directive span (parseable or not), fenced code
// blocks, emphasis asterisks, and heading markers, then collapses runs of
// three or more newlines to two and trims. Idempotent.
func Sanitize(text string) string {
	spans := findSpans(text)
	if len(spans) > 0 {
		var b strings.Builder
		last := 0
		for _, span := range spans {
			b.WriteString(text[last:span[0]])
			last = span[1]
		}
		b.WriteString(text[last:])
		text = b.String()
	}

	text = fencedBlockRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "*", "")
	text = headingRe.ReplaceAllString(text, "")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
