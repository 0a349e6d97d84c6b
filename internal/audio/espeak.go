package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng speech
type ESpeakConfig struct {
	Binary    string // Executable name or path (default: "espeak-ng")
	Voice     string // Voice variant (e.g., "ar", "ar+m1", "ar+f1")
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default configuration for the Arabic voice
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Binary:    "espeak-ng",
		Voice:     "ar",
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeak is the on-device synthesizer backed by the espeak-ng engine
type ESpeak struct {
	config *ESpeakConfig
}

// NewESpeak creates a new ESpeak instance. Whether espeak-ng is installed is
// checked by IsAvailable, not here.
func NewESpeak(config *ESpeakConfig) *ESpeak {
	defaults := DefaultESpeakConfig()
	if config == nil {
		config = defaults
	}
	c := *config
	if c.Binary == "" {
		c.Binary = defaults.Binary
	}
	if c.Voice == "" {
		c.Voice = defaults.Voice
	}
	if c.Speed == 0 {
		c.Speed = defaults.Speed
	}

	e := &ESpeak{config: &c}
	e.SetSpeed(c.Speed)
	e.SetPitch(c.Pitch)
	e.SetAmplitude(c.Amplitude)
	e.SetWordGap(c.WordGap)
	return e
}

// Speak voices text through the default audio output
func (e *ESpeak) Speak(ctx context.Context, text string) error {
	if err := ValidateSpeechText(text); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, e.config.Binary, e.args(text)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

// args builds the espeak-ng command line
func (e *ESpeak) args(text string) []string {
	args := []string{
		"-v", e.config.Voice, // Voice selection
		"-s", fmt.Sprintf("%d", e.config.Speed), // Speed
		"-p", fmt.Sprintf("%d", e.config.Pitch), // Pitch
		"-a", fmt.Sprintf("%d", e.config.Amplitude), // Amplitude/volume
	}

	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}

	// "--" keeps text starting with a dash from being read as an option
	return append(args, "--", text)
}

// Name returns the synthesizer name
func (e *ESpeak) Name() string {
	return "espeak-ng"
}

// IsAvailable checks that the espeak-ng binary can be run
func (e *ESpeak) IsAvailable() error {
	cmd := exec.Command(e.config.Binary, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", e.config.Binary, err)
	}
	return nil
}

// SetSpeed updates the speech speed
func (e *ESpeak) SetSpeed(speed int) {
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	e.config.Speed = speed
}

// SetPitch updates the pitch (0-99, 50 is default)
func (e *ESpeak) SetPitch(pitch int) {
	if pitch < 0 {
		pitch = 0
	} else if pitch > 99 {
		pitch = 99
	}
	e.config.Pitch = pitch
}

// SetAmplitude updates the volume/amplitude (0-200, 100 is default)
func (e *ESpeak) SetAmplitude(amplitude int) {
	if amplitude < 0 {
		amplitude = 0
	} else if amplitude > 200 {
		amplitude = 200
	}
	e.config.Amplitude = amplitude
}

// SetWordGap updates the gap between words in 10ms units
func (e *ESpeak) SetWordGap(gap int) {
	if gap < 0 {
		gap = 0
	}
	e.config.WordGap = gap
}

// ListVoices returns the Arabic voice variants espeak-ng ships
func ListVoices() []string {
	return []string{
		"ar",    // Default Arabic voice
		"ar+m1", // Arabic male voice 1
		"ar+m2", // Arabic male voice 2
		"ar+f1", // Arabic female voice 1
		"ar+f2", // Arabic female voice 2
	}
}
