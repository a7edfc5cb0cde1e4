package user

import (
	"errors"
	"testing"
	"time"
)

func TestNewUserNormalizesInput(t *testing.T) {
	fixedTime := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	input := CreateUserInput{Email: "  Alice@Example.COM  ", Password: "hunter2"}

	created, err := NewUser(input, "$2a$10$digest", func() time.Time { return fixedTime })
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("expected lowercased trimmed email, got %q", created.Email)
	}
	if created.PasswordHash != "$2a$10$digest" {
		t.Fatalf("expected stored password hash, got %q", created.PasswordHash)
	}
	if !created.CreatedAt.Equal(fixedTime) {
		t.Fatalf("expected created at to match fixed time, got %v", created.CreatedAt)
	}
	if created.ID != 0 {
		t.Fatalf("expected unset id before insert, got %d", created.ID)
	}
}

func TestNewUserDefaultsClock(t *testing.T) {
	created, err := NewUser(CreateUserInput{Email: "bob@example.com", Password: "pw"}, "hash", nil)
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created at to be set")
	}
}

func TestNewUserRejectsEmptyHash(t *testing.T) {
	_, err := NewUser(CreateUserInput{Email: "bob@example.com", Password: "pw"}, "   ", nil)
	if !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected %v, got %v", ErrEmptyPassword, err)
	}
}

func TestNormalizeCreateUserInputValidation(t *testing.T) {
	_, err := NormalizeCreateUserInput(CreateUserInput{Email: "   ", Password: "pw"})
	if !errors.Is(err, ErrEmptyEmail) {
		t.Fatalf("expected %v, got %v", ErrEmptyEmail, err)
	}
	_, err = NormalizeCreateUserInput(CreateUserInput{Email: "alice@example.com", Password: ""})
	if !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected %v, got %v", ErrEmptyPassword, err)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid plain", input: "alice@example.com", wantErr: nil},
		{name: "valid with plus tag", input: "alice+blog@example.com", wantErr: nil},
		{name: "valid subdomain", input: "alice@mail.example.co.uk", wantErr: nil},
		{name: "missing at", input: "alice.example.com", wantErr: ErrInvalidEmail},
		{name: "missing domain dot", input: "alice@example", wantErr: ErrInvalidEmail},
		{name: "embedded space", input: "alice smith@example.com", wantErr: ErrInvalidEmail},
		{name: "double at", input: "alice@@example.com", wantErr: ErrInvalidEmail},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEmail(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ValidateEmail(%q) = %v, want %v", tc.input, err, tc.wantErr)
			}
		})
	}
}
