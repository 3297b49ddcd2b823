package models

import "errors"

// Sentinel errors shared by the service layer. Handlers map these onto
// HTTP status codes with errors.Is.
var (
	// ErrNotFound means the operation's target record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a unique-key constraint was violated, e.g. a
	// duplicate username on registration or rename.
	ErrConflict = errors.New("record already exists")

	// ErrInvalidCredentials covers both unknown-user and wrong-password
	// login failures so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
