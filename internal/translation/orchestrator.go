package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/tarjama/internal/api"
	"codeberg.org/snonux/tarjama/internal/audio"
	"codeberg.org/snonux/tarjama/internal/errs"
	"codeberg.org/snonux/tarjama/internal/session"
)

// Client is the part of the service API the orchestrator needs
type Client interface {
	Translate(ctx context.Context, req api.TranslateRequest) (api.TranslateResponse, error)
}

// Player plays base64 audio clips
type Player interface {
	Play(payload string) error
	Cleanup()
}

// Orchestrator submits translations and routes playback of their results
type Orchestrator struct {
	client   Client
	sessions session.Store
	player   Player
	synth    audio.Synthesizer
	logger   *zap.Logger

	mu      sync.Mutex
	seq     uint64
	current *Request
	payload string
	wg      sync.WaitGroup
}

// NewOrchestrator creates an orchestrator. synth may be nil when no
// on-device voice is installed.
func NewOrchestrator(client Client, sessions session.Store, player Player, synth audio.Synthesizer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		client:   client,
		sessions: sessions,
		player:   player,
		synth:    synth,
		logger:   logger,
	}
}

// Submit validates the input and issues a translation in the background.
// Any request still pending is superseded and its answer discarded. The
// returned Request settles as Succeeded, Failed or Superseded.
func (o *Orchestrator) Submit(ctx context.Context, text, targetLanguage string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.Validation("translate.submit", "enter text to translate")
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return nil, errs.Validation("translate.submit", "choose a target language")
	}

	username := o.username()

	o.mu.Lock()
	o.seq++
	req := newRequest(o.seq, text, targetLanguage, username)
	reqCtx, cancel := context.WithCancel(ctx)
	req.cancel = cancel

	if prev := o.current; prev != nil {
		if prev.settle(Superseded, Result{}, errs.Superseded("translate.submit", prev.Seq)) {
			o.logger.Debug("request superseded", zap.Uint64("seq", prev.Seq), zap.Uint64("by", req.Seq))
		}
	}
	o.current = req
	o.payload = ""
	o.mu.Unlock()

	o.logger.Debug("request submitted",
		zap.Uint64("seq", req.Seq),
		zap.String("to", targetLanguage),
		zap.Bool("include_audio", req.WantsServerAudio))

	o.wg.Add(1)
	go o.run(reqCtx, req)
	return req, nil
}

// Translate submits a request and waits for its outcome
func (o *Orchestrator) Translate(ctx context.Context, text, targetLanguage string) (Result, error) {
	req, err := o.Submit(ctx, text, targetLanguage)
	if err != nil {
		return Result{}, err
	}
	return req.Wait(ctx)
}

func (o *Orchestrator) username() string {
	if o.sessions == nil {
		return ""
	}
	s, err := o.sessions.Get()
	if err != nil {
		// Translation works anonymously; history is simply not recorded
		o.logger.Warn("failed to read session", zap.Error(err))
		return ""
	}
	return s.Username
}

func (o *Orchestrator) run(ctx context.Context, req *Request) {
	defer o.wg.Done()

	resp, err := o.client.Translate(ctx, api.TranslateRequest{
		Text:         req.Text,
		To:           req.TargetLanguage,
		Username:     req.Username,
		IncludeAudio: req.WantsServerAudio,
	})

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != req {
		o.logger.Debug("discarding superseded response", zap.Uint64("seq", req.Seq))
		return
	}

	if err != nil {
		if req.settle(Failed, Result{}, err) {
			o.logger.Debug("request failed", zap.Uint64("seq", req.Seq), zap.Error(err))
		}
		return
	}

	result := Result{TranslatedText: *resp.Translation, AudioPayload: resp.Audio}
	if req.settle(Succeeded, result, nil) {
		o.payload = resp.Audio
		o.logger.Debug("request succeeded", zap.Uint64("seq", req.Seq), zap.Bool("audio", result.HasAudio()))
	}
}

// Current returns the latest submitted request, or nil before the first
func (o *Orchestrator) Current() *Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// State returns the state of the latest request, Idle before the first
func (o *Orchestrator) State() State {
	req := o.Current()
	if req == nil {
		return Idle
	}
	return req.State()
}

// HasAudio reports whether a server clip is stored for playback
func (o *Orchestrator) HasAudio() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.payload != ""
}

// RequestPlayback voices resultText. Arabic-family targets are spoken by the
// synthesizer; other targets play the stored server clip. Without either
// it returns an error matching audio.ErrNotReady or audio.ErrNoAudio.
func (o *Orchestrator) RequestPlayback(ctx context.Context, resultText, targetLanguage string) error {
	if IsLocalVoice(targetLanguage) {
		if o.synth == nil {
			return audio.ErrNotReady
		}
		if err := o.synth.IsAvailable(); err != nil {
			o.logger.Debug("synthesizer unavailable", zap.String("synthesizer", o.synth.Name()), zap.Error(err))
			return fmt.Errorf("%w: %v", audio.ErrNotReady, err)
		}
		return o.synth.Speak(ctx, resultText)
	}

	o.mu.Lock()
	payload := o.payload
	o.mu.Unlock()

	if payload == "" || o.player == nil {
		return fmt.Errorf("%w for %s", audio.ErrNoAudio, targetLanguage)
	}
	return o.player.Play(payload)
}

// Close supersedes any pending request, waits for background work and
// releases the player
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if prev := o.current; prev != nil {
		prev.settle(Superseded, Result{}, errs.Superseded("translate.close", prev.Seq))
	}
	o.payload = ""
	o.mu.Unlock()

	o.wg.Wait()
	if o.player != nil {
		o.player.Cleanup()
	}
}

// IsSuperseded reports whether err means a newer request replaced this one
func IsSuperseded(err error) bool {
	return errors.Is(err, errs.ErrSuperseded)
}
