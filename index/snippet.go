package index

import (
	"strings"
	"unicode"
)

// Snippet window geometry, in characters of the whitespace-collapsed body.
const (
	snippetWindow = 150
	snippetLead   = 50
)

const ellipsis = "..."

// Snippet extracts a bounded excerpt of body around the earliest occurrence
// of any query term. Earlier occurrences win when multiple terms match. The
// excerpt carries a leading ellipsis iff it does not start at the beginning
// of the body, and a trailing one iff it does not reach the end.
func Snippet(body string, terms []string) string {
	flat := collapseWhitespace(body)
	if flat == "" {
		return ""
	}

	pos := earliestMatch(flat, terms)
	if pos < 0 {
		pos = 0
	}

	start := pos - snippetLead
	if start < 0 {
		start = 0
	}
	end := start + snippetWindow
	if end > len(flat) {
		end = len(flat)
		if start = end - snippetWindow; start < 0 {
			start = 0
		}
	}

	// Nudge the cut points to word boundaries so the excerpt does not open
	// or close mid-word.
	if start > 0 {
		if idx := strings.IndexByte(flat[start:end], ' '); idx >= 0 && idx < snippetLead {
			start += idx + 1
		}
	}
	if end < len(flat) {
		if idx := strings.LastIndexByte(flat[start:end], ' '); idx > snippetWindow/2 {
			end = start + idx
		}
	}

	out := flat[start:end]
	if start > 0 {
		out = ellipsis + out
	}
	if end < len(flat) {
		out += ellipsis
	}
	return out
}

// earliestMatch returns the lowest index at which any term occurs,
// case-insensitively, or -1 when none do. Folding is ASCII-only so every
// match index is a valid byte offset into the original string; full Unicode
// case folding can change byte lengths and shift the window.
func earliestMatch(flat string, terms []string) int {
	lower := asciiLower(flat)
	best := -1
	for _, term := range terms {
		if term == "" {
			continue
		}
		if idx := strings.Index(lower, asciiLower(term)); idx >= 0 {
			if best < 0 || idx < best {
				best = idx
			}
		}
	}
	return best
}

// asciiLower lowercases A-Z byte-wise, leaving multibyte runes untouched so
// the result stays byte-aligned with its input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// collapseWhitespace folds runs of whitespace, including newlines, into a
// single space.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
