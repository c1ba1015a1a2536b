package core

import "strings"

// CleanString trims surrounding whitespace from user-supplied input and
// optionally lowercases it. Emails, roles and statuses are normalized with
// lower=true before hitting storage.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
