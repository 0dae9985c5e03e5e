package util

import "strings"

// Truncate cuts s to at most limit bytes, preferring to break at a line
// boundary so code snippets stay readable.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i > limit/2 {
		cut = cut[:i]
	}
	return cut
}
