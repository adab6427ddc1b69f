package state

import "strings"

// Append joins next onto prev, inserting one space unless prev is empty or
// already ends in whitespace (space, newline or tab).
func Append(prev, next string) string {
	if prev == "" {
		return next
	}
	if strings.HasSuffix(prev, " ") || strings.HasSuffix(prev, "\n") || strings.HasSuffix(prev, "\t") {
		return prev + next
	}
	return prev + " " + next
}
