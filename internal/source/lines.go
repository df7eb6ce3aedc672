// Package source splits raw source text into the physical lines every rule
// set operates on.
package source

import (
	"regexp"
	"strings"
)

// Line is one physical line of source text.
type Line struct {
	// Number is the 1-based line index.
	Number int `json:"number"`

	// Raw is the line exactly as it appeared, without the terminating newline.
	Raw string `json:"raw"`

	// Trimmed is Raw with leading and trailing whitespace removed.
	Trimmed string `json:"trimmed"`
}

// MagicNumber matches a bare integer literal of two or more digits.
var MagicNumber = regexp.MustCompile(`\b\d{2,}\b`)

// Split breaks text into ordered lines. A trailing newline terminates the
// last line rather than starting a new empty one, so "a\n" is one line and
// "" is zero lines.
func Split(text string) []Line {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")

	lines := make([]Line, len(parts))
	for i, raw := range parts {
		lines[i] = Line{
			Number:  i + 1,
			Raw:     raw,
			Trimmed: strings.TrimSpace(raw),
		}
	}
	return lines
}

// HasTrailingNewline reports whether text ends with a newline.
func HasTrailingNewline(text string) bool {
	return strings.HasSuffix(text, "\n")
}

// Raw returns the raw text of each line, in order.
func Raw(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Raw
	}
	return out
}

// IsBlank reports whether the line has no non-whitespace content.
func (l Line) IsBlank() bool {
	return l.Trimmed == ""
}

// IsComment reports whether the line starts with a line or block comment
// marker.
func (l Line) IsComment() bool {
	return IsComment(l.Trimmed)
}

// IsComment reports whether trimmed text begins with a comment marker.
func IsComment(trimmed string) bool {
	for _, marker := range []string{"//", "/*", "*", "#"} {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// NonBlankCount returns the number of lines whose trimmed form is non-empty.
func NonBlankCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		if !l.IsBlank() {
			n++
		}
	}
	return n
}
