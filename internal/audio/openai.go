package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Sink plays decoded audio and can be waited on
type Sink interface {
	PlayBytes(data []byte) error
	Wait(ctx context.Context) error
}

// OpenAISynthesizer voices text with OpenAI TTS and plays it through a Sink.
// It serves as the fallback when no local engine is installed.
type OpenAISynthesizer struct {
	client *openai.Client
	config *Config
	sink   Sink
}

// NewOpenAISynthesizer creates a new OpenAI TTS synthesizer
func NewOpenAISynthesizer(config *Config, sink Sink) (*OpenAISynthesizer, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("audio sink is required")
	}

	return &OpenAISynthesizer{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
		sink:   sink,
	}, nil
}

// Speak synthesizes text and blocks until the clip has been played
func (s *OpenAISynthesizer) Speak(ctx context.Context, text string) error {
	if err := ValidateSpeechText(text); err != nil {
		return err
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.OpenAIModel),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(s.config.OpenAIVoice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          s.config.OpenAISpeed,
	}

	response, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not have access to model") {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: the %s model requires access. Try tts-1 instead", err, s.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return fmt.Errorf("failed to read speech audio: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	if err := s.sink.PlayBytes(data); err != nil {
		return err
	}
	return s.sink.Wait(ctx)
}

// Name returns the synthesizer name
func (s *OpenAISynthesizer) Name() string {
	return "openai"
}

// IsAvailable checks that an API key is configured
func (s *OpenAISynthesizer) IsAvailable() error {
	if s.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	// A test call would use credits, so a key is taken as enough
	return nil
}
