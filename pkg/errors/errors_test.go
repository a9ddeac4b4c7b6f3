package errors

import (
	stdErrors "errors"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code        Code
		publicMsg   string
		recoverable bool
		info        bool
		detailsOK   bool
	}{
		{code: CodeValidation, publicMsg: "validation failed", recoverable: true, detailsOK: true},
		{code: CodeNotFound, publicMsg: "resource not found", recoverable: true},
		{code: CodeLoadFailure, publicMsg: "catalog could not be loaded, please reload"},
		{code: CodeStorageParse, publicMsg: "saved data was discarded", recoverable: true, detailsOK: true},
		{code: CodeInsufficientStock, publicMsg: "not enough stock available", recoverable: true, detailsOK: true},
		{code: CodeEmptyCart, publicMsg: "the cart is empty", recoverable: true, info: true},
		{code: CodeConfirmPending, publicMsg: "confirmation required", recoverable: true, info: true, detailsOK: true},
		{code: CodeDependency, publicMsg: "dependency unavailable", recoverable: true, detailsOK: true},
		{code: CodeInternal, publicMsg: "internal error", recoverable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Recoverable != tt.recoverable {
			t.Fatalf("code %s expected recoverable %v got %v", tt.code, tt.recoverable, meta.Recoverable)
		}
		if meta.Informational != tt.info {
			t.Fatalf("code %s expected informational %v got %v", tt.code, tt.info, meta.Informational)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal metadata, got %q", meta.PublicMessage)
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
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"remaining": 2}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeEmptyCart, "nothing to do")
	if got := As(err); got == nil || got.Code() != CodeEmptyCart {
		t.Fatalf("As failed to return typed error")
	}
	if !err.Informational() {
		t.Fatalf("empty cart should be informational")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCode(t *testing.T) {
	err := Wrap(CodeInsufficientStock, stdErrors.New("only 2 left"), "add rejected")
	if !IsCode(err, CodeInsufficientStock) {
		t.Fatalf("IsCode should match wrapped code")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("IsCode should be false for untyped errors")
	}
}
