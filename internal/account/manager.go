package account

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/tarjama/internal/api"
	"codeberg.org/snonux/tarjama/internal/errs"
	"codeberg.org/snonux/tarjama/internal/session"
)

// Client is the part of the service API the manager needs
type Client interface {
	Login(ctx context.Context, creds api.Credentials) (string, error)
	Signup(ctx context.Context, req api.SignupRequest) (string, error)
	GetProfile(ctx context.Context, username string) (api.Profile, error)
	UpdateProfile(ctx context.Context, username string, update api.ProfileUpdate) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, username, password string) error
}

// Manager runs account operations against the service and keeps the
// session store in step with them
type Manager struct {
	client   Client
	sessions session.Store
	logger   *zap.Logger
}

// NewManager creates a manager
func NewManager(client Client, sessions session.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

// Login checks the credentials and stores the session
func (m *Manager) Login(ctx context.Context, username, password string, rememberMe bool) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return session.Session{}, errs.Validation("login", "enter username and password")
	}

	if _, err := m.client.Login(ctx, api.Credentials{Username: username, Password: password}); err != nil {
		m.logger.Debug("login rejected", zap.String("username", username), zap.Error(err))
		return session.Session{}, err
	}

	if err := m.sessions.Save(username, rememberMe); err != nil {
		return session.Session{}, err
	}
	m.logger.Info("logged in", zap.String("username", username), zap.Bool("remember_me", rememberMe))
	return session.Session{Username: username, RememberMe: rememberMe}, nil
}

// Signup validates form and registers the account. It does not sign in.
func (m *Manager) Signup(ctx context.Context, form SignupForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	msg, err := m.client.Signup(ctx, api.SignupRequest{
		Username: strings.TrimSpace(form.Username),
		Password: form.Password,
		Email:    strings.TrimSpace(form.Email),
		Phone:    strings.TrimSpace(form.Phone),
	})
	if err != nil {
		return "", err
	}
	m.logger.Info("account created", zap.String("username", form.Username))
	return msg, nil
}

// Logout forgets the signed-in user
func (m *Manager) Logout() error {
	return m.sessions.Clear()
}

// Current returns the stored session, which may be signed out
func (m *Manager) Current() (session.Session, error) {
	return m.sessions.Get()
}

// Resume returns the stored session when the user asked to be remembered
func (m *Manager) Resume() (session.Session, error) {
	s, err := m.sessions.Get()
	if err != nil {
		return session.Session{}, err
	}
	if !s.RememberMe || !s.LoggedIn() {
		return session.Session{}, errs.NotAuthenticated("login.resume")
	}
	return s, nil
}

// LoadProfile fetches the account's email and phone. Fields the service
// leaves out come back empty. On failure the empty profile is returned
// alongside the error so callers can still show the form.
func (m *Manager) LoadProfile(ctx context.Context, username string) (api.Profile, error) {
	if strings.TrimSpace(username) == "" {
		return api.Profile{}, errs.NotAuthenticated("profile.load")
	}

	p, err := m.client.GetProfile(ctx, username)
	if err != nil {
		m.logger.Debug("profile load failed", zap.Error(err))
		return api.Profile{}, err
	}
	return p, nil
}

// UpdateProfile sends whichever of email and phone are non-empty. Fields
// left empty stay unchanged on the service.
func (m *Manager) UpdateProfile(ctx context.Context, username, email, phone string) error {
	if strings.TrimSpace(username) == "" {
		return errs.NotAuthenticated("profile.update")
	}
	email, phone = strings.TrimSpace(email), strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return errs.Validation("profile.update", "enter an email or phone to update")
	}

	return m.client.UpdateProfile(ctx, username, api.ProfileUpdate{Email: email, Phone: phone})
}

// ChangePassword replaces the password. A wrong old password comes back
// as an authorization error.
func (m *Manager) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if strings.TrimSpace(username) == "" {
		return errs.NotAuthenticated("password.change")
	}
	if oldPassword == "" || newPassword == "" {
		return errs.Validation("password.change", "enter both current and new password")
	}

	return m.client.ChangePassword(ctx, username, oldPassword, newPassword)
}

// DeleteAccount deletes the account and then clears the session. When the
// service refuses, the session is left alone.
func (m *Manager) DeleteAccount(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errs.NotAuthenticated("account.delete")
	}
	if password == "" {
		return errs.Validation("account.delete", "enter your password to confirm")
	}

	if err := m.client.DeleteAccount(ctx, username, password); err != nil {
		return err
	}

	if err := m.sessions.Clear(); err != nil {
		m.logger.Error("account deleted but session could not be cleared", zap.Error(err))
		return err
	}
	m.logger.Info("account deleted", zap.String("username", username))
	return nil
}
