package session

import (
	"sync"

	"codeberg.org/snonux/tarjama/internal/errs"
)

// DefaultNamespace is the private namespace the session fields live under
const DefaultNamespace = "TranslationAppPrefs"

const (
	keyUsername   = "username"
	keyRememberMe = "remember_me"
)

// Session is the persisted record of who is logged in on this device.
// An empty Username means nobody is.
type Session struct {
	Username   string
	RememberMe bool
}

// LoggedIn reports whether the session names a user
func (s Session) LoggedIn() bool {
	return s.Username != ""
}

// Store persists the session across process restarts
type Store interface {
	// Save replaces the stored session
	Save(username string, rememberMe bool) error

	// Get returns the stored session, or the zero Session if none was saved
	Get() (Session, error)

	// Clear removes all persisted identity data
	Clear() error
}

// validate accepts any non-empty username
func validate(username string) error {
	if username == "" {
		return errs.Validation("session.save", "username is required")
	}
	return nil
}

// MemoryStore keeps the session in memory only
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores the session
func (m *MemoryStore) Save(username string, rememberMe bool) error {
	if err := validate(username); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{Username: username, RememberMe: rememberMe}
	return nil
}

// Get returns the stored session
func (m *MemoryStore) Get() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, nil
}

// Clear forgets the session
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	return nil
}
