package packet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "one two", 10, []string{"one two"}},
		{"breaks at width", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"collapses whitespace", "a\n\nb\tc", 10, []string{"a b c"}},
		{"long word alone", "tiny " + strings.Repeat("x", 12) + " end", 8, []string{"tiny", strings.Repeat("x", 12), "end"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrapRespectsWidth(t *testing.T) {
	text := strings.Repeat("evidence of bona fide marriage ", 40)
	for _, line := range Wrap(text, WrapWidth) {
		assert.LessOrEqual(t, len(line), WrapWidth)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "é•", truncate("é•x", 2))
}
