package cli

import "time"

// DefaultBaseURL is the translation service used when none is configured
const DefaultBaseURL = "http://localhost:8080/translation-service/api/"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	EnvFile  string
	LogLevel string
	Yes      bool

	// Service flags
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures uint

	// Session flags
	SessionDB string
	Namespace string

	// Speech flags
	AudioProvider string
	ESpeakVoice   string
	ESpeakSpeed   int
	OpenAIModel   string
	OpenAIVoice   string
	OpenAISpeed   float64
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		EnvFile:         ".env",
		LogLevel:        "warn",
		BaseURL:         DefaultBaseURL,
		BreakerFailures: 5,
		Namespace:       "TranslationAppPrefs",
		AudioProvider:   "auto",
		ESpeakVoice:     "ar",
		ESpeakSpeed:     150,
		OpenAIModel:     "tts-1",
		OpenAIVoice:     "alloy",
		OpenAISpeed:     1.0,
	}
}
