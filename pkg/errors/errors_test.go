package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeInvalidSnapshot, "round_id must be >= 1, got %d", 0),
			want: "INVALID_SNAPSHOT: round_id must be >= 1, got 0",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeStore, fmt.Errorf("connection refused"), "load round %d", 3),
			want: "STORE_ERROR: load round 3: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsAndGetCode(t *testing.T) {
	base := New(ErrCodeRoundNotFound, "round 7 not in store")
	wrapped := fmt.Errorf("pipeline: %w", base)

	if !Is(wrapped, ErrCodeRoundNotFound) {
		t.Error("Is should find code through wrapping")
	}
	if Is(wrapped, ErrCodeCache) {
		t.Error("Is matched wrong code")
	}
	if got := GetCode(wrapped); got != ErrCodeRoundNotFound {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeRoundNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeCache, cause, "write entry")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidEdge, "edge source cannot be empty")
	if got := UserMessage(err); got != "edge source cannot be empty" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("something broke")
	if got := UserMessage(plain); got != "something broke" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidSnapshot, true},
		{ErrCodeInvalidNode, true},
		{ErrCodeInvalidEdge, true},
		{ErrCodeInvalidFormat, true},
		{ErrCodeRoundNotFound, false},
		{ErrCodeStore, false},
		{ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsValidation(err); got != tt.want {
				t.Errorf("IsValidation(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
