package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"fewer than limit", "Hello there. Welcome!", 3, "Hello there. Welcome!"},
		{"exactly limit", "One. Two! Three?", 3, "One. Two! Three?"},
		{"truncates", "One. Two. Three. Four. Five.", 3, "One. Two. Three."},
		{"keeps decimals together", "Version 2.5 is out. Try it. Love it. Share it.", 2, "Version 2.5 is out. Try it."},
		{"collapses ellipsis", "Wait... what? Yes. No.", 2, "Wait... what?"},
		{"no terminator", "  just a fragment  ", 3, "just a fragment"},
		{"zero limit", "Anything.", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LimitSentences(tt.text, tt.n))
		})
	}
}

func TestCountSentences(t *testing.T) {
	assert.Equal(t, 0, CountSentences("   "))
	assert.Equal(t, 1, CountSentences("fragment"))
	assert.Equal(t, 3, CountSentences("One. Two! Three?"))
	assert.Equal(t, 3, CountSentences("One. Two. and more"))
}
