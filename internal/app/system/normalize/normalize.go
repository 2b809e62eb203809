// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Username trims and lower-cases a username. Stored usernames are always in
// this form.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Identity trims an external identity. Identities are case-sensitive.
func Identity(s string) string {
	return strings.TrimSpace(s)
}
