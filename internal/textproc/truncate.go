package textproc

import "unicode/utf8"

// Ellipsis marks text cut by Truncate.
const Ellipsis = "…"

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate limits s to maxChars characters. Truncated text keeps its first
// maxChars-1 characters followed by Ellipsis, so the result is exactly
// maxChars long.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if RuneLen(s) <= maxChars {
		return s
	}

	runes := []rune(s)
	return string(runes[:maxChars-1]) + Ellipsis
}
