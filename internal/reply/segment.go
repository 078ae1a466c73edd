package reply

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// longLineThreshold is the rune count above which a lone line is re-split on
// clause boundaries.
const longLineThreshold = 120

var (
	markerRe = regexp.MustCompile(`^(?:[-*•]|\d+\.)(?:\s+|$)`)
	clauseRe = regexp.MustCompile(`[;,] `)
)

// Segment splits sanitized text into trimmed, non-empty lines with leading
// list markers ("-", "*", "•", "N.") removed.
//
// When that yields at most one line and the line is longer than 120 runes and
// contains a comma or semicolon, it is split again on "; " and ", ". The
// second split is kept only if it produces more than one part.
func Segment(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(markerRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		items = append(items, line)
	}

	if len(items) == 1 {
		if parts := splitClauses(items[0]); len(parts) > 1 {
			return parts
		}
	}
	return items
}

func splitClauses(line string) []string {
	if utf8.RuneCountInString(line) <= longLineThreshold || !strings.ContainsAny(line, ",;") {
		return nil
	}
	var parts []string
	for _, p := range clauseRe.Split(line, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
