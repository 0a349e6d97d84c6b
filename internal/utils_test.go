package internal

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestID(t *testing.T) {
	id1 := NewRequestID()
	id2 := NewRequestID()

	if id1 == id2 {
		t.Error("Expected unique request ids")
	}

	if _, err := uuid.Parse(id1); err != nil {
		t.Errorf("Request id %q is not a uuid: %v", id1, err)
	}
}

func TestShortDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024-05-01 13:45:10.123", "2024-05-01"},
		{"2024-05-01T13:45:10Z", "2024-05-01"},
		{"2024-05-01", "2024-05-01"},
		{"", ""},
		{"  2024-05-01 08:00  ", "2024-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ShortDate(tt.input); got != tt.expected {
				t.Errorf("ShortDate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
