package util

import "strings"

// StripCodeFences removes a surrounding ```json / ``` markdown fence that
// models like to wrap JSON answers in.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
