package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when a caller tries to hash an empty
// plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword turns a plaintext password into a bcrypt hash. The hash is
// salted, so two calls with the same input produce different secrets.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored secret.
func VerifyPassword(plaintext, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secret), []byte(plaintext)) == nil
}
