package utils

import "unicode/utf8"

// Truncate is a simple string truncate. Lengths count characters, so
// multibyte text is never cut mid-rune.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
