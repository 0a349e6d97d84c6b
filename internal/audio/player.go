package audio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codeberg.org/snonux/tarjama/internal/errs"
)

// ErrNoAudio reports that there is nothing to play. It is a condition to
// show the user, not a failure.
var ErrNoAudio = errors.New("no audio available")

// Player decodes base64 audio clips and plays them one at a time. Starting
// a clip tears down the one that is playing. Each clip is written to a
// temporary file that is removed when playback ends, so a clip can only be
// replayed by supplying its payload again.
type Player struct {
	device  Device
	tempDir string
	logger  *zap.Logger

	mu      sync.Mutex
	current *audioSession
	wg      sync.WaitGroup
}

// audioSession is one clip being played
type audioSession struct {
	id       string
	path     string
	playback Playback
	done     chan struct{}
}

// NewPlayer creates a player on device. Temporary files go to tempDir, or
// the system temp directory when it is empty.
func NewPlayer(device Device, tempDir string, logger *zap.Logger) *Player {
	if device == nil {
		device = NewExecDevice()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		device:  device,
		tempDir: tempDir,
		logger:  logger,
	}
}

// DecodePayload decodes a base64 audio payload. Line breaks are ignored and
// padding is optional.
func DecodePayload(payload string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)

	if cleaned == "" {
		return nil, ErrNoAudio
	}

	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(cleaned, "="))
		if rawErr != nil {
			return nil, errs.Decode("audio.play", err)
		}
	}
	if len(data) == 0 {
		return nil, ErrNoAudio
	}
	return data, nil
}

// Play decodes payload and plays it, replacing any clip that is playing
func (p *Player) Play(payload string) error {
	data, err := DecodePayload(payload)
	if err != nil {
		return err
	}
	return p.PlayBytes(data)
}

// PlayBytes plays already decoded audio, replacing any clip that is playing
func (p *Player) PlayBytes(data []byte) error {
	if len(data) == 0 {
		return ErrNoAudio
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.teardownLocked()

	path, err := p.writeTemp(data)
	if err != nil {
		return err
	}

	playback, err := p.device.Start(path)
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to start playback: %w", err)
	}

	sess := &audioSession{
		id:       uuid.NewString(),
		path:     path,
		playback: playback,
		done:     make(chan struct{}),
	}
	p.current = sess
	p.logger.Debug("playback started", zap.String("session", sess.id), zap.Int("bytes", len(data)))

	p.wg.Add(1)
	go p.watch(sess)
	return nil
}

func (p *Player) writeTemp(data []byte) (string, error) {
	if p.tempDir != "" {
		if err := os.MkdirAll(p.tempDir, 0700); err != nil {
			return "", fmt.Errorf("failed to create audio directory: %w", err)
		}
	}

	f, err := os.CreateTemp(p.tempDir, "audio_*.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return f.Name(), nil
}

// watch releases the session once its playback ends on its own
func (p *Player) watch(sess *audioSession) {
	defer p.wg.Done()
	defer close(sess.done)

	err := sess.playback.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != sess {
		// Stopped or replaced; teardown already released it
		return
	}
	p.current = nil
	os.Remove(sess.path)
	p.logger.Debug("playback finished", zap.String("session", sess.id), zap.Error(err))
}

// teardownLocked stops and releases the current session. p.mu must be held.
func (p *Player) teardownLocked() {
	sess := p.current
	if sess == nil {
		return
	}
	p.current = nil

	if err := sess.playback.Stop(); err != nil {
		p.logger.Warn("failed to stop playback", zap.String("session", sess.id), zap.Error(err))
	}
	os.Remove(sess.path)
	p.logger.Debug("playback stopped", zap.String("session", sess.id))
}

// Stop ends the current clip. It is safe to call with nothing playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownLocked()
}

// IsPlaying reports whether a clip is playing
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Wait blocks until the current clip ends or ctx is done
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	sess := p.current
	p.mu.Unlock()

	if sess == nil {
		return nil
	}

	select {
	case <-sess.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cleanup stops playback and waits for every player goroutine to exit.
// It may be called more than once.
func (p *Player) Cleanup() {
	p.Stop()
	p.wg.Wait()
}
