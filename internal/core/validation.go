// internal/core/validation.go
package core

import (
	"regexp"
)

// Regular expression for valid account usernames (alphanumeric plus underscore, dot and dash)
var usernameValidationRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Username length bounds enforced at registration time.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
)

// IsValidUsername checks if a string is acceptable as an account username.
// Applies basic format and length checks.
func IsValidUsername(name string) bool {
	return len(name) >= MinUsernameLength &&
		len(name) <= MaxUsernameLength &&
		usernameValidationRegex.MatchString(name)
}
