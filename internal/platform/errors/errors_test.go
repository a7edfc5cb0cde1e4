package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeNotFound, "record not found")
	other := New(CodeNotFound, "post not found")

	if !stderrors.Is(other, sentinel) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(New(CodeForbidden, "nope"), sentinel) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	sentinel := New(CodeInvalidCredentials, "could not validate credentials")
	wrapped := fmt.Errorf("verify token: %w", sentinel)

	if !stderrors.Is(wrapped, sentinel) {
		t.Fatal("expected fmt-wrapped error to match sentinel")
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "write post", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeUserEmailTaken, http.StatusConflict},
		{CodeUserEmptyEmail, http.StatusBadRequest},
		{CodeUserInvalidEmail, http.StatusBadRequest},
		{CodeUserEmptyPassword, http.StatusBadRequest},
		{CodePostEmptyTitle, http.StatusBadRequest},
		{CodePostEmptyContent, http.StatusBadRequest},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestHTTPStatusForPlainErrors(t *testing.T) {
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want 200", got)
	}
	if got := HTTPStatus(stderrors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus(plain) = %d, want 500", got)
	}
	wrapped := fmt.Errorf("handle request: %w", New(CodeForbidden, "not the owner"))
	if got := HTTPStatus(wrapped); got != http.StatusForbidden {
		t.Fatalf("HTTPStatus(wrapped forbidden) = %d, want 403", got)
	}
}
