package validation

import (
	"errors"
	"testing"

	domainerrors "github.com/mylibapp/mylib-server/internal/errors"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required,min=2"`
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
}

func TestValidate_OK(t *testing.T) {
	v := New()

	req := sampleRequest{Email: "a@example.com", Name: "ok", Rating: 3}
	if err := v.Validate(req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	v := New()

	req := sampleRequest{Email: "nope", Name: "x", Rating: 9}
	err := v.Validate(req)
	if err == nil {
		t.Fatal("expected error")
	}

	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if domainErr.Code != domainerrors.CodeValidation {
		t.Errorf("Code: got %v, want %v", domainErr.Code, domainerrors.CodeValidation)
	}

	// Field names come from JSON tags; all failures are reported at once.
	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", domainErr.Details)
	}
	for _, field := range []string{"email", "name", "rating"} {
		if _, ok := details[field]; !ok {
			t.Errorf("expected detail for %q, got %v", field, details)
		}
	}
}
