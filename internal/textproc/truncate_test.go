package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"fits", "abc", 3, "abc"},
		{"cut ascii", "abcdef", 4, "abc…"},
		{"cut multibyte", "日本語のテキスト", 5, "日本語の…"},
		{"budget one", "abc", 1, "…"},
		{"zero budget", "abc", 0, ""},
		{"negative budget", "abc", -3, ""},
		{"empty input", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.max))
		})
	}
}

func TestTruncate_ExactBudgetWithMarker(t *testing.T) {
	long := strings.Repeat("長", 1000)
	for _, budget := range []int{1, 2, 10, 299, 300} {
		out := Truncate(long, budget)
		assert.Equal(t, budget, RuneLen(out))
		assert.True(t, strings.HasSuffix(out, Ellipsis))
	}
}
