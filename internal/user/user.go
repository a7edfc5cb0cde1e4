// Package user provides blog user identity management.
package user

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/inkpost/inkpost/internal/platform/errors"
)

var (
	// ErrEmptyEmail indicates a missing email address.
	ErrEmptyEmail = apperrors.New(apperrors.CodeUserEmptyEmail, "email is required")
	// ErrInvalidEmail indicates an email that does not match the required format.
	ErrInvalidEmail = apperrors.New(apperrors.CodeUserInvalidEmail, "email must be a valid address")
	// ErrEmptyPassword indicates a missing password.
	ErrEmptyPassword = apperrors.New(apperrors.CodeUserEmptyPassword, "password is required")

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User represents a registered account that owns posts.
//
// PasswordHash is an opaque bcrypt digest and never leaves the backend.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserInput describes the credentials needed to register a user.
type CreateUserInput struct {
	Email    string
	Password string
}

// ValidateEmail enforces the canonical email shape used for login identities.
func ValidateEmail(s string) error {
	if !emailPattern.MatchString(s) {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeCreateUserInput trims and lowercases the email before validation.
func NormalizeCreateUserInput(input CreateUserInput) (CreateUserInput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		return CreateUserInput{}, ErrEmptyEmail
	}
	if err := ValidateEmail(input.Email); err != nil {
		return CreateUserInput{}, err
	}
	if input.Password == "" {
		return CreateUserInput{}, ErrEmptyPassword
	}
	return input, nil
}

// NewUser creates a user record from validated input and a hashed credential.
//
// The caller hashes the password; this constructor never sees plaintext beyond
// validation. The store assigns the id on insert.
func NewUser(input CreateUserInput, passwordHash string, now func() time.Time) (User, error) {
	if now == nil {
		now = time.Now
	}
	normalized, err := NormalizeCreateUserInput(input)
	if err != nil {
		return User{}, err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return User{}, ErrEmptyPassword
	}
	return User{
		Email:        normalized.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now().UTC(),
	}, nil
}
