// Package reply turns free-text model output into the HTML fragment shown in
// the chat widget: markdown tokens are stripped, the text is split into
// items, and the items are rendered as a list or as paragraphs.
package reply

import "regexp"

var (
	fenceRe   = regexp.MustCompile("(?m)^[ \\t]*```[A-Za-z0-9_+-]*[ \\t]*$\\n?")
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	codeRe    = regexp.MustCompile("`([^`\n]*)`")
	boldRe    = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	boldUnder = regexp.MustCompile(`__([^_\n]+?)__`)
	// The opening marker needs a space, "(" or line start before it and a
	// non-space after it, so "* item" markers and "2*3*4" survive.
	italicRe    = regexp.MustCompile(`(^|[\s(])\*([^\s*][^*\n]*?)\*`)
	italicUnder = regexp.MustCompile(`(^|\s)_([^\s_][^_\n]*?)_(\s|$|[.,;:!?])`)
	headingRe   = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
)

// Sanitize removes emphasis markers, inline code spans, code fences, heading
// markers and link syntax. "[label](url)" becomes "label". Text the patterns
// do not match is returned unchanged.
func Sanitize(raw string) string {
	s := fenceRe.ReplaceAllString(raw, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = codeRe.ReplaceAllString(s, "$1")
	s = boldRe.ReplaceAllString(s, "$1")
	s = boldUnder.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1$2")
	s = italicUnder.ReplaceAllString(s, "$1$2$3")
	s = headingRe.ReplaceAllString(s, "")
	return s
}
