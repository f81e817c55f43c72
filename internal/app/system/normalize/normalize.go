// Package normalize cleans user-entered values before they are stored or
// compared.
package normalize

import "strings"

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses runs of whitespace. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims and lower-cases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims a membership status. Statuses are free text and keep their case,
// so "Active" and "active" stay distinct.
func Status(s string) string {
	return strings.TrimSpace(s)
}
