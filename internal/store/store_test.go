package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorUnwrap(t *testing.T) {
	err := NewValidationError("amount", "must be positive", ErrInvalidAmount)

	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %T", err)
	}
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected error to wrap ErrInvalidAmount")
	}

	wrapped := fmt.Errorf("deposit rejected: %w", err)
	if !IsValidationError(wrapped) {
		t.Errorf("expected wrapped error to still be a validation error")
	}
	if got := err.Error(); got != "validation error on field 'amount': must be positive" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestValidationErrorWithoutCause(t *testing.T) {
	err := NewValidationError("username", "is required", nil)
	if errors.Is(err, ErrInvalidAmount) {
		t.Errorf("validation error without cause must not match ErrInvalidAmount")
	}
	if IsValidationError(ErrAccountNotFound) {
		t.Errorf("sentinel errors are not validation errors")
	}
}
