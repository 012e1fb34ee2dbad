package app

import "strings"

// Span attributes have provider-side size limits; long IN lists would blow
// them out.
const maxTracedQueryLen = 512

// formatDBQueryForTrace collapses whitespace so multi-line builder output
// reads as one line in the span, then truncates.
func formatDBQueryForTrace(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > maxTracedQueryLen {
		return flat[:maxTracedQueryLen] + "..."
	}
	return flat
}
