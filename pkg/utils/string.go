// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// FirstLine returns everything up to the first newline. Useful for table
// cells fed from multi-line backend text.
func FirstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
