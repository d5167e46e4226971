package packet

import (
	"strings"
	"unicode/utf8"
)

// WrapWidth is the character width used for notes and affidavit text.
const WrapWidth = 96

// Wrap greedily packs whitespace-separated words into lines of at most width
// characters. A word longer than width gets a line of its own.
func Wrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, w := range strings.Fields(text) {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if utf8.RuneCountInString(candidate) > width {
			if line != "" {
				lines = append(lines, line)
			}
			line = w
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
