// Package text provides utilities for text processing and analysis.
// This package includes reusable functions for character and word counting and
// rune-safe truncation used by the content normalization pipeline.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// It correctly handles multi-byte characters (accented French text, emoji)
// by counting runes instead of bytes.
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-separated words in the given text.
// Used for read-time estimation.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateRunes truncates text to at most limit runes, appending the ellipsis
// marker when truncation occurs. The returned string never exceeds limit runes
// including the marker. A limit smaller than the marker returns the bare
// truncation.
func TruncateRunes(text string, limit int, marker string) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	markerRunes := []rune(marker)
	if limit <= len(markerRunes) {
		return string(runes[:limit])
	}
	return string(runes[:limit-len(markerRunes)]) + marker
}
