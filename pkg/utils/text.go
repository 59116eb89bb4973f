// Package utils provides shared text and logging helpers.
package utils

import (
	"strings"
	"unicode/utf8"
)

// Truncate returns s cut to maxLen runes, with "..." appended if it was cut.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return PrefixRunes(s, maxLen) + "..."
}

// PrefixRunes returns the first n runes of s, or s itself when it is shorter.
func PrefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// SessionTitle builds a session title from the first message: its first n
// runes followed by "...", whether or not anything was cut.
func SessionTitle(firstMessage string, n int) string {
	return PrefixRunes(firstMessage, n) + "..."
}

// Normalize lower-cases s for keyword and similarity matching.
func Normalize(s string) string {
	return strings.ToLower(s)
}
