package audio

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotReady is returned when no speech synthesizer can be used
var ErrNotReady = errors.New("speech synthesizer is not ready")

// Synthesizer voices text on the device
type Synthesizer interface {
	// Speak voices text and returns when speaking has finished
	Speak(ctx context.Context, text string) error

	// Name returns the synthesizer name
	Name() string

	// IsAvailable checks if the synthesizer is properly configured and available
	IsAvailable() error
}

// Config holds the speech synthesis settings
type Config struct {
	Provider string // "auto", "espeak" or "openai"

	// espeak-ng settings
	ESpeakVoice string // e.g. "ar", "ar+f1"
	ESpeakSpeed int    // Words per minute

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string  // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	OpenAIVoice string  // "alloy", "nova", "shimmer", ...
	OpenAISpeed float64 // 0.25 to 4.0
}

// DefaultConfig returns the default synthesis configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "auto",
		ESpeakVoice: "ar",
		ESpeakSpeed: 150,
		OpenAIModel: "tts-1",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
	}
}

// NewSynthesizer creates the synthesizer selected by config. "auto" prefers
// espeak-ng and falls back to OpenAI speech when a key is configured.
// Cloud speech is played through sink.
func NewSynthesizer(config *Config, sink Sink, logger *zap.Logger) (Synthesizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	espeak := NewESpeak(&ESpeakConfig{
		Voice:     config.ESpeakVoice,
		Speed:     config.ESpeakSpeed,
		Pitch:     50,
		Amplitude: 100,
	})

	switch config.Provider {
	case "espeak":
		return espeak, nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAISynthesizer(config, sink)

	case "", "auto":
		if config.OpenAIKey == "" {
			return espeak, nil
		}
		cloud, err := NewOpenAISynthesizer(config, sink)
		if err != nil {
			return nil, err
		}
		return NewSynthesizerWithFallback(espeak, cloud, logger), nil

	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}
}

// SynthesizerWithFallback wraps a primary synthesizer with a fallback option
type SynthesizerWithFallback struct {
	primary  Synthesizer
	fallback Synthesizer
	logger   *zap.Logger
}

// NewSynthesizerWithFallback creates a synthesizer that falls back to secondary if primary fails
func NewSynthesizerWithFallback(primary, fallback Synthesizer, logger *zap.Logger) Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SynthesizerWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Speak tries the primary synthesizer first, falls back to secondary on error
func (s *SynthesizerWithFallback) Speak(ctx context.Context, text string) error {
	if err := s.primary.IsAvailable(); err == nil {
		err = s.primary.Speak(ctx, text)
		if err == nil || ctx.Err() != nil {
			return err
		}
		s.logger.Warn("primary synthesizer failed, falling back",
			zap.String("primary", s.primary.Name()),
			zap.String("fallback", s.fallback.Name()),
			zap.Error(err))
	}

	return s.fallback.Speak(ctx, text)
}

// Name returns the synthesizer name
func (s *SynthesizerWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", s.primary.Name(), s.fallback.Name())
}

// IsAvailable checks if at least one synthesizer is available
func (s *SynthesizerWithFallback) IsAvailable() error {
	primaryErr := s.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := s.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both synthesizers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
