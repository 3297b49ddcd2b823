// Package validation checks user payload fields before any write reaches
// the store.
package validation

import "net/mail"

// Violation names a field that failed a constraint and why.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const minUsernameLength = 5

// ValidateUserPayload checks the fields shared by registration and
// profile update. An empty result means the payload is valid.
func ValidateUserPayload(username, password, email string) []Violation {
	var violations []Violation

	if len(username) < minUsernameLength {
		violations = append(violations, Violation{
			Field:   "username",
			Message: "username must be at least 5 characters long",
		})
	}
	if !isAlphanumeric(username) {
		violations = append(violations, Violation{
			Field:   "username",
			Message: "username may contain only letters and digits",
		})
	}

	if password == "" {
		violations = append(violations, Violation{
			Field:   "password",
			Message: "password must not be empty",
		})
	}

	if !isValidEmail(email) {
		violations = append(violations, Violation{
			Field:   "email",
			Message: "email does not appear to be valid",
		})
	}

	return violations
}

func isAlphanumeric(s string) bool {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	// Reject display-name forms like "Bob <bob@example.com>"; only a bare
	// address counts.
	return err == nil && addr.Address == email
}
