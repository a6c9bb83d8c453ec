package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\r\n\n　", ""},
		{"full width space", "Go　エンジニア", "Go エンジニア"},
		{"tabs and carriage returns", "a\t\t\rb\fc", "a b c"},
		{"space runs", "a     b", "a b"},
		{"blank lines", "line1\n\n\n\nline2", "line1\nline2"},
		{"trim", "  padded  ", "padded"},
		{"crlf", "a\r\nb", "a \nb"},
		{"single newline kept", "a\nb", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"a \n \nb",
		" \t a\t\t b \n\n\n c　　d ",
		"【必須】\r\n\r\n・SQL経験\r\n【歓迎】\n\n・AWS経験",
		"\f\f\n\n\t",
		"文章。 次の文章。\n\n\n・箇条書き",
		"a　\t　b",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
