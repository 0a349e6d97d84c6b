package models

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when no OpenAI key is configured
var ErrNoAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY or audio.openai_key in .tarjama.yaml")

// Lister lists OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithConfig(apiKey, openai.DefaultConfig(apiKey))
}

// NewListerWithConfig creates a lister with a custom client configuration,
// e.g. another base URL
func NewListerWithConfig(apiKey string, config openai.ClientConfig) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// SpeechModels returns the sorted ids of the speech models available to
// the key
func (l *Lister) SpeechModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	speech := []string{}
	for _, model := range models.Models {
		if IsSpeechModel(model.ID) {
			speech = append(speech, model.ID)
		}
	}
	sort.Strings(speech)
	return speech, nil
}

// IsSpeechModel reports whether id names a text-to-speech model
func IsSpeechModel(id string) bool {
	return strings.Contains(id, "tts") || strings.Contains(id, "audio")
}
