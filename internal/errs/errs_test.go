package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validation("op", "text is required"), ErrValidation},
		{"network", Network("op", errors.New("connection refused")), ErrNetwork},
		{"authorization", Authorization("op", "wrong password"), ErrAuthorization},
		{"decode", Decode("op", errors.New("bad json")), ErrDecode},
		{"not authenticated", NotAuthenticated("op"), ErrNotAuth},
		{"superseded", Superseded("op", 3), ErrSuperseded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.kind) {
				t.Errorf("kind lost through wrapping: %v", wrapped)
			}
			for _, other := range []error{ErrValidation, ErrNetwork, ErrAuthorization, ErrDecode, ErrNotAuth, ErrSuperseded} {
				if other != tt.kind && errors.Is(tt.err, other) {
					t.Errorf("%v unexpectedly matches %v", tt.err, other)
				}
			}
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network("translate", cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"network hides transport text", Network("op", errors.New("dial tcp 10.0.0.1:8080")), "could not reach the translation service"},
		{"authorization keeps server reason", Authorization("op", "Invalid credentials"), "Invalid credentials"},
		{"plain error", errors.New("boom"), "boom"},
		{"kind fallback", &Error{Kind: ErrDecode}, "decode error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.expected {
				t.Errorf("Message() = %q, want %q", got, tt.expected)
			}
		})
	}
}
