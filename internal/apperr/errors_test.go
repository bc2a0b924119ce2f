package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/rank-hunter/internal/apperr"
	"github.com/google/uuid"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("k must be positive")

	if err.Error() != "k must be positive" {
		t.Errorf("expected 'k must be positive', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid metric list", inner)

	if err.Error() != "invalid metric list: parse failed" {
		t.Errorf("expected 'invalid metric list: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("empty metric name")

	wrapped := fmt.Errorf("failed to load spec: %w", original)
	doubleWrapped := fmt.Errorf("run pass: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "empty metric name" {
		t.Errorf("expected 'empty metric name', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("source error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestUnknownEntityError(t *testing.T) {
	id := uuid.New()
	err := apperr.NewUnknownEntity(id)

	wrapped := fmt.Errorf("observe batch 3: %w", err)

	var ue *apperr.UnknownEntityError
	if !errors.As(wrapped, &ue) {
		t.Fatal("errors.As should find UnknownEntityError through wrapping")
	}
	if ue.Entity != id {
		t.Errorf("expected entity %s, got %s", id, ue.Entity)
	}
}
