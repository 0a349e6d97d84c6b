package audio

import (
	"context"
	"reflect"
	"testing"
)

func TestNewESpeakDefaults(t *testing.T) {
	e := NewESpeak(nil)

	if e.config.Binary != "espeak-ng" {
		t.Errorf("Expected binary 'espeak-ng', got '%s'", e.config.Binary)
	}
	if e.config.Voice != "ar" {
		t.Errorf("Expected voice 'ar', got '%s'", e.config.Voice)
	}
	if e.config.Speed != 150 {
		t.Errorf("Expected speed 150, got %d", e.config.Speed)
	}
	if e.Name() != "espeak-ng" {
		t.Errorf("Expected name 'espeak-ng', got '%s'", e.Name())
	}
}

func TestNewESpeakDoesNotMutateConfig(t *testing.T) {
	config := &ESpeakConfig{Speed: 1000}
	NewESpeak(config)

	if config.Speed != 1000 {
		t.Errorf("Expected caller config to be unchanged, got speed %d", config.Speed)
	}
}

func TestESpeakClamping(t *testing.T) {
	e := NewESpeak(&ESpeakConfig{
		Speed:     10,
		Pitch:     150,
		Amplitude: -5,
		WordGap:   -1,
	})

	if e.config.Speed != 80 {
		t.Errorf("Expected speed clamped to 80, got %d", e.config.Speed)
	}
	if e.config.Pitch != 99 {
		t.Errorf("Expected pitch clamped to 99, got %d", e.config.Pitch)
	}
	if e.config.Amplitude != 0 {
		t.Errorf("Expected amplitude clamped to 0, got %d", e.config.Amplitude)
	}
	if e.config.WordGap != 0 {
		t.Errorf("Expected word gap clamped to 0, got %d", e.config.WordGap)
	}

	e.SetSpeed(900)
	if e.config.Speed != 450 {
		t.Errorf("Expected speed clamped to 450, got %d", e.config.Speed)
	}
	e.SetAmplitude(500)
	if e.config.Amplitude != 200 {
		t.Errorf("Expected amplitude clamped to 200, got %d", e.config.Amplitude)
	}
}

func TestESpeakArgs(t *testing.T) {
	tests := []struct {
		name   string
		config *ESpeakConfig
		text   string
		want   []string
	}{
		{
			name:   "defaults",
			config: DefaultESpeakConfig(),
			text:   "مرحبا",
			want:   []string{"-v", "ar", "-s", "150", "-p", "50", "-a", "100", "--", "مرحبا"},
		},
		{
			name:   "word gap and voice",
			config: &ESpeakConfig{Voice: "ar+f1", Speed: 120, Pitch: 40, Amplitude: 90, WordGap: 3},
			text:   "شكرا",
			want:   []string{"-v", "ar+f1", "-s", "120", "-p", "40", "-a", "90", "-g", "3", "--", "شكرا"},
		},
		{
			name:   "leading dash",
			config: DefaultESpeakConfig(),
			text:   "-5",
			want:   []string{"-v", "ar", "-s", "150", "-p", "50", "-a", "100", "--", "-5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewESpeak(tt.config).args(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestESpeakSpeakValidatesText(t *testing.T) {
	e := NewESpeak(&ESpeakConfig{Binary: "espeak-ng-does-not-exist"})

	if err := e.Speak(context.Background(), "  "); err == nil {
		t.Error("Expected error for blank text")
	}
}

func TestESpeakMissingBinary(t *testing.T) {
	e := NewESpeak(&ESpeakConfig{Binary: "espeak-ng-does-not-exist"})

	if err := e.IsAvailable(); err == nil {
		t.Error("Expected IsAvailable to fail for a missing binary")
	}
	if err := e.Speak(context.Background(), "مرحبا"); err == nil {
		t.Error("Expected Speak to fail for a missing binary")
	}
}

func TestListVoices(t *testing.T) {
	voices := ListVoices()
	if len(voices) == 0 {
		t.Fatal("Expected at least one voice")
	}
	if voices[0] != "ar" {
		t.Errorf("Expected default voice 'ar' first, got '%s'", voices[0])
	}
}
