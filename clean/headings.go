package clean

import (
	"regexp"
	"strings"

	"github.com/docdex/docdex"
)

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

// Headings extracts the (level, text) outline from a markdown body by
// scanning heading-marker lines in document order. Fenced code blocks are
// skipped so a "# comment" inside a shell example is not a heading.
func Headings(markdown string) []docdex.Heading {
	var headings []docdex.Heading
	inFence := false

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			headings = append(headings, docdex.Heading{
				Level: len(m[1]),
				Text:  strings.TrimSpace(m[2]),
			})
		}
	}
	return headings
}

// Title returns the text of the first top-level heading in a markdown body,
// or "" when the body has none.
func Title(markdown string) string {
	for _, h := range Headings(markdown) {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}
