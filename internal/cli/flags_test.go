package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"EnvFile", flags.EnvFile, ".env"},
		{"LogLevel", flags.LogLevel, "warn"},
		{"BaseURL", flags.BaseURL, DefaultBaseURL},
		{"BreakerFailures", flags.BreakerFailures, uint(5)},
		{"Namespace", flags.Namespace, "TranslationAppPrefs"},
		{"AudioProvider", flags.AudioProvider, "auto"},
		{"ESpeakVoice", flags.ESpeakVoice, "ar"},
		{"ESpeakSpeed", flags.ESpeakSpeed, 150},
		{"OpenAIModel", flags.OpenAIModel, "tts-1"},
		{"OpenAIVoice", flags.OpenAIVoice, "alloy"},
		{"OpenAISpeed", flags.OpenAISpeed, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if flags.Yes {
		t.Error("Yes = true, want false")
	}
	if flags.CfgFile != "" || flags.SessionDB != "" {
		t.Error("Expected CfgFile and SessionDB to be empty before flag setup")
	}
}
