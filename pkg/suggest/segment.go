package suggest

import (
	"unicode"
)

// segmentValue breaks a value longer than maxLen runes into consecutive
// chunks, each at most maxLen runes, preferring to cut at a word boundary.
// Chunks are emitted only while at least maxLen runes remain, so the trailing
// remainder is dropped; concatenating the chunks reproduces a prefix of the
// value. A single word longer than maxLen is cut mid-word.
func segmentValue(value string, maxLen int) []string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return []string{value}
	}

	var chunks []string
	offset := 0
	for offset < len(runes)-maxLen {
		end := boundaryWithin(runes, offset, maxLen)
		chunks = append(chunks, string(runes[offset:end]))
		offset = end
	}
	return chunks
}

// boundaryWithin finds the largest cut position in (offset, offset+maxLen]
// that falls on a word boundary, or offset+maxLen when the span is a single
// unbroken word.
func boundaryWithin(runes []rune, offset, maxLen int) int {
	limit := offset + maxLen
	if limit > len(runes) {
		limit = len(runes)
	}
	for end := limit; end > offset; end-- {
		if end == len(runes) || unicode.IsSpace(runes[end]) || unicode.IsSpace(runes[end-1]) {
			return end
		}
	}
	return limit
}
