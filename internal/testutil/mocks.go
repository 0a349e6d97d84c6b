package testutil

import (
	"context"
	"errors"
	"sync"
)

// MockSynthesizer records text it is asked to speak
type MockSynthesizer struct {
	mu           sync.Mutex
	spoken       []string
	SpeakErr     error
	AvailableErr error
}

// Speak records text and returns SpeakErr
func (m *MockSynthesizer) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spoken = append(m.spoken, text)
	return m.SpeakErr
}

// Name returns the mock name
func (m *MockSynthesizer) Name() string {
	return "mock"
}

// IsAvailable returns AvailableErr
func (m *MockSynthesizer) IsAvailable() error {
	return m.AvailableErr
}

// Spoken returns every text passed to Speak
func (m *MockSynthesizer) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}

// MockPlayer records payloads instead of playing them
type MockPlayer struct {
	mu       sync.Mutex
	played   []string
	playing  bool
	cleanups int
	PlayErr  error

	// NoAudio is returned for empty payloads, e.g. audio.ErrNoAudio
	NoAudio error
}

// Play records payload
func (m *MockPlayer) Play(payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if payload == "" {
		if m.NoAudio != nil {
			return m.NoAudio
		}
		return errors.New("no audio available")
	}
	if m.PlayErr != nil {
		return m.PlayErr
	}
	m.played = append(m.played, payload)
	m.playing = true
	return nil
}

// Stop ends the pretend playback
func (m *MockPlayer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
}

// IsPlaying reports whether Play was called since the last Stop
func (m *MockPlayer) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Cleanup stops playback and counts the call
func (m *MockPlayer) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.cleanups++
}

// Played returns every payload passed to Play
func (m *MockPlayer) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.played...)
}

// Cleanups returns how often Cleanup was called
func (m *MockPlayer) Cleanups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanups
}
