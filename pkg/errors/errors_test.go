package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIs(t *testing.T) {
	base := New(ErrCodeReference, "asset %q not found", "img_9")
	wrapped := fmt.Errorf("attach: %w", base)

	if !Is(wrapped, ErrCodeReference) {
		t.Error("Is should find the code through fmt wrapping")
	}
	if Is(wrapped, ErrCodeRange) {
		t.Error("Is should not match a different code")
	}
	if Is(errors.New("plain"), ErrCodeReference) {
		t.Error("plain errors carry no code")
	}
}

func TestValidationError(t *testing.T) {
	err := Range(2, "aspect", "must be in [0.2, 2], got %v", 3.0)

	if got, want := err.Error(), "RANGE: blocks[2].aspect: must be in [0.2, 2], got 3"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(fmt.Errorf("import: %w", err), ErrCodeRange) {
		t.Error("Is should match ValidationError codes")
	}
	ve, ok := AsValidation(fmt.Errorf("x: %w", err))
	if !ok || ve.Index != 2 || ve.Field != "aspect" {
		t.Errorf("AsValidation = %+v, %v", ve, ok)
	}

	lone := Structural(-1, "type", "missing")
	if got, want := lone.Error(), "STRUCTURAL: type: missing"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeNotFound, "block %q not found", "b1"), `block "b1" not found`},
		{"validation", Structural(0, "id", "missing"), "block 0, id: missing"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateDocumentID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"album_001", false},
		{"", true},
		{"../etc", true},
		{"a/b", true},
		{".hidden", true},
		{"has space", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateDocumentID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURI(t *testing.T) {
	if err := ValidateURI("https://images.example.com/a.jpg"); err != nil {
		t.Errorf("https uri rejected: %v", err)
	}
	if err := ValidateURI("JavaScript:alert(1)"); err == nil {
		t.Error("javascript uri accepted")
	}
	if err := ValidateURI(""); err == nil {
		t.Error("empty uri accepted")
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "img_001", false},
		{"empty", "", true},
		{"tab", "img\t1", true},
		{"too long", strings.Repeat("a", maxIDLength+1), true},
		{"max length", strings.Repeat("a", maxIDLength), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("asset", tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", GetCode(err))
			}
		})
	}
}
