package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestTypeOf(t *testing.T) {
	cause := stderrors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{name: "not found", err: NotFound("draft", nil), expected: ErrTypeNotFound},
		{name: "wrapped unavailable", err: fmt.Errorf("save: %w", Unavailable("storage", cause)), expected: ErrTypeUnavailable},
		{name: "export failed", err: ExportFailed("capture", cause), expected: ErrTypeExportFailed},
		{name: "plain error", err: cause, expected: ErrTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.err); got != tt.expected {
				t.Errorf("TypeOf() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Internal("rendering", cause)

	if !stderrors.Is(err, cause) {
		t.Error("DomainError should unwrap to its cause")
	}
	if len(err.StackTrace()) == 0 {
		t.Error("expected a captured stack")
	}
	if err.Error() != "INTERNAL: rendering: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	if Is(nil, ErrTypeNotFound) {
		t.Error("nil error must not match any type")
	}
	if !Is(InvalidInput("bad", nil), ErrTypeInvalidInput) {
		t.Error("expected INVALID_INPUT match")
	}
}
