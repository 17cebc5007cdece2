package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed"},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInvalidState, status: http.StatusBadRequest, publicMsg: "operation not allowed in current state"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Unwrap() != nil {
		t.Fatal("cause should be nil by default")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeInternal, cause, "db write failed")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("wrapped error should match its cause")
	}
	if wrapped.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeNotFound, nil, "gone")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if err.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	typed := New(CodeConflict, "already exists")
	chained := fmt.Errorf("saving partner: %w", typed)

	found := As(chained)
	if found == nil {
		t.Fatal("expected typed error in chain")
	}
	if found.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", found.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors should not match")
	}
	if As(nil) != nil {
		t.Fatal("nil should not match")
	}
}
