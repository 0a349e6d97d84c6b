package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"codeberg.org/snonux/tarjama/internal/account"
	"codeberg.org/snonux/tarjama/internal/api"
	"codeberg.org/snonux/tarjama/internal/audio"
	"codeberg.org/snonux/tarjama/internal/errs"
	"codeberg.org/snonux/tarjama/internal/history"
	"codeberg.org/snonux/tarjama/internal/session"
	"codeberg.org/snonux/tarjama/internal/translation"
)

// App is a fully wired client
type App struct {
	Config *Config
	Logger *zap.Logger

	Sessions    *session.SQLiteStore
	Client      *api.Client
	Player      *audio.Player
	Synthesizer audio.Synthesizer // nil when none could be configured
	Translator  *translation.Orchestrator
	History     *history.Cache
	Accounts    *account.Manager
}

// New builds an App. A nil logger is replaced by one at config.LogLevel.
func New(config *Config, logger *zap.Logger) (*App, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		var err error
		if logger, err = NewLogger(config.LogLevel); err != nil {
			return nil, err
		}
	}

	if dir := filepath.Dir(config.SessionDB); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	sessions, err := session.NewSQLiteStore(config.SessionDB, config.Namespace)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(&api.Config{
		BaseURL:         config.BaseURL,
		Timeout:         config.Timeout,
		BreakerFailures: config.BreakerFailures,
		Logger:          logger.Named("api"),
	})
	if err != nil {
		sessions.Close()
		return nil, err
	}

	player := audio.NewPlayer(config.Device, config.TempDir, logger.Named("audio"))

	synth, err := audio.NewSynthesizer(config.Audio, player, logger.Named("speech"))
	if err != nil {
		// Arabic playback reports the synthesizer as not ready
		logger.Warn("speech synthesizer disabled", zap.Error(err))
		synth = nil
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Sessions:    sessions,
		Client:      client,
		Player:      player,
		Synthesizer: synth,
		History:     history.NewCache(client, logger.Named("history")),
		Accounts:    account.NewManager(client, sessions, logger.Named("account")),
	}
	a.Translator = translation.NewOrchestrator(client, sessions, player, synth, logger.Named("translate"))
	return a, nil
}

// Username returns the signed-in user or a NotAuthenticated error
func (a *App) Username() (string, error) {
	s, err := a.Sessions.Get()
	if err != nil {
		return "", err
	}
	if !s.LoggedIn() {
		return "", errs.NotAuthenticated("session")
	}
	return s.Username, nil
}

// Close stops playback and releases the session store
func (a *App) Close() error {
	a.Translator.Close()
	a.Logger.Sync()
	return a.Sessions.Close()
}
