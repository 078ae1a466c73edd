package reply

import (
	"regexp"
	"strings"
)

var blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

// Only "<" is escaped, so no tag can be opened from model output. Other
// entities pass through unchanged.
var ltEscaper = strings.NewReplacer("<", "&lt;")

func escape(s string) string { return ltEscaper.Replace(s) }

// Render produces a <ul> when there is more than one item. Otherwise the
// sanitized text is split on blank lines and each block becomes a <p>.
// Empty input yields an empty fragment.
func Render(items []string, sanitized string) string {
	if len(items) > 1 {
		var b strings.Builder
		b.WriteString("<ul>")
		for _, it := range items {
			b.WriteString("<li>")
			b.WriteString(escape(it))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		return b.String()
	}
	return RenderParagraphs(sanitized)
}

func RenderParagraphs(text string) string {
	var b strings.Builder
	for _, block := range blankLineRe.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(escape(block))
		b.WriteString("</p>")
	}
	return b.String()
}

// Formatted is one model reply after post-processing.
type Formatted struct {
	Raw   string
	Items []string
	HTML  string
}

// Format runs Sanitize, Segment and Render over a raw model reply.
func Format(raw string) Formatted {
	clean := Sanitize(strings.TrimSpace(raw))
	items := Segment(clean)
	return Formatted{Raw: raw, Items: items, HTML: Render(items, clean)}
}
