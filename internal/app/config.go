package app

import (
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/tarjama/internal/audio"
	"codeberg.org/snonux/tarjama/internal/session"
)

// Config holds everything needed to build an App
type Config struct {
	BaseURL         string
	Timeout         time.Duration // 0 leaves requests without a deadline
	BreakerFailures uint32

	SessionDB string
	Namespace string

	// TempDir receives transient audio files; empty uses the system default
	TempDir string
	// Device overrides the platform audio player
	Device audio.Device
	Audio  *audio.Config

	LogLevel string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		BaseURL:         "http://localhost:8080/translation-service/api/",
		BreakerFailures: 5,
		SessionDB:       filepath.Join(home, ".local", "state", "tarjama", "session.db"),
		Namespace:       session.DefaultNamespace,
		Audio:           audio.DefaultConfig(),
		LogLevel:        "warn",
	}
}
