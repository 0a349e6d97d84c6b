package translation

import (
	"context"
	"sync"
)

// State is the lifecycle position of a Request
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
	Superseded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Superseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Result is a successful translation
type Result struct {
	TranslatedText string
	// AudioPayload is the base64 clip from the service, empty if none
	AudioPayload string
}

// HasAudio reports whether the service attached a clip
func (r Result) HasAudio() bool {
	return r.AudioPayload != ""
}

// Request is one submitted translation. Its fields are fixed once issued.
type Request struct {
	Seq              uint64
	Text             string
	TargetLanguage   string
	Username         string
	WantsServerAudio bool

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	state  State
	result Result
	err    error
}

func newRequest(seq uint64, text, targetLanguage, username string) *Request {
	return &Request{
		Seq:              seq,
		Text:             text,
		TargetLanguage:   targetLanguage,
		Username:         username,
		WantsServerAudio: WantsServerAudio(targetLanguage),
		done:             make(chan struct{}),
		state:            Pending,
	}
}

// State returns the current state
func (r *Request) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done is closed once the request leaves Pending
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the request settles or ctx is done. A superseded
// request yields an error matching errs.ErrSuperseded.
func (r *Request) Wait(ctx context.Context) (Result, error) {
	select {
	case <-r.done:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.err
}

// settle moves a pending request to its final state. It reports false if
// the request had already settled.
func (r *Request) settle(state State, result Result, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Pending {
		return false
	}
	r.state = state
	r.result = result
	r.err = err
	close(r.done)
	if r.cancel != nil {
		r.cancel()
	}
	return true
}
