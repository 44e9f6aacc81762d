package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_New(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_InvalidCredentials_GenericMessage(t *testing.T) {
	// The message must not vary with the failing check, so it carries no
	// details at all.
	err := InvalidCredentials()
	if err.Code != ErrCodeInvalidCredentials {
		t.Errorf("expected INVALID_CREDENTIALS, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", err.HTTPStatus)
	}
	if len(err.Details) != 0 {
		t.Errorf("expected no details, got %v", err.Details)
	}
}

func TestAppError_UnauthorizedVsForbidden(t *testing.T) {
	if got := Unauthorized("").HTTPStatus; got != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", got)
	}
	if got := Forbidden("").HTTPStatus; got != http.StatusForbidden {
		t.Errorf("expected 403, got %d", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Internal(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := AlreadyExists("user").WithDetail("field", "email")
	if err.Details["field"] != "email" {
		t.Errorf("expected field=email, got %v", err.Details["field"])
	}
	if err.Details["resource"] != "user" {
		t.Errorf("expected resource=user, got %v", err.Details["resource"])
	}
}

func TestAsAppError(t *testing.T) {
	app := NotFound("course", "42")
	wrapped := fmt.Errorf("handler: %w", app)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed on a wrapped AppError")
	}
	if got.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", got.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected AsAppError to fail on a plain error")
	}
}

func TestToResponse(t *testing.T) {
	resp := DecryptionFailed().ToResponse()
	if resp.Error.Code != ErrCodeDecryptionFailed {
		t.Errorf("expected DECRYPTION_FAILED, got %s", resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected a message")
	}
}
