// Package normalize holds the string normalization shared by every lookup in
// the catalog and the shopping lists. Call these instead of repeating
// strings.ToLower/strings.TrimSpace at each call site.
package normalize

import "strings"

// Key returns the comparison key for category and item names: surrounding
// whitespace removed, lower-cased. Two names are the same entry iff their
// keys are equal.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equal reports whether a and b name the same entry.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Email normalizes an email address before storage or lookup.
func Email(s string) string {
	return Key(s)
}

// Text trims a value that is stored as typed by the user.
func Text(s string) string {
	return strings.TrimSpace(s)
}
