package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/tarjama/internal"
	"codeberg.org/snonux/tarjama/internal/app"
	"codeberg.org/snonux/tarjama/internal/audio"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tarjama",
		Short: "Client for the translation service",
		Long: `tarjama translates text through the translation service, plays the
result aloud and keeps a searchable history of past translations.

Arabic and Darija results are spoken with espeak-ng on this machine;
other languages play the audio clip sent by the service.

Examples:
  tarjama login alice --remember-me   # Sign in and stay signed in
  tarjama translate -t French hello   # Translate and play the result
  tarjama interactive -t Darija       # Translate line by line
  tarjama history search bonjour      # Search past translations`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	home, _ := os.UserHomeDir()
	defaultSessionDB := filepath.Join(home, ".local", "state", "tarjama", "session.db")

	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.tarjama.yaml)")
	pf.StringVar(&flags.EnvFile, "env-file", flags.EnvFile, "dotenv file loaded before reading the environment")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Do not ask before destructive operations")

	// Service flags
	pf.StringVar(&flags.BaseURL, "api-url", flags.BaseURL, "Translation service base URL")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "Per-request timeout, 0 waits indefinitely")
	pf.UintVar(&flags.BreakerFailures, "breaker-failures", flags.BreakerFailures, "Consecutive failures before requests are paused")

	// Session flags
	pf.StringVar(&flags.SessionDB, "session-db", defaultSessionDB, "Session database file")
	pf.StringVar(&flags.Namespace, "session-namespace", flags.Namespace, "Namespace of the stored session")

	// Speech flags
	pf.StringVar(&flags.AudioProvider, "speech", flags.AudioProvider, "Speech synthesizer for Arabic: auto, espeak or openai")
	pf.StringVar(&flags.ESpeakVoice, "espeak-voice", flags.ESpeakVoice, "espeak-ng voice: "+strings.Join(audio.ListVoices(), ", "))
	pf.IntVar(&flags.ESpeakSpeed, "espeak-speed", flags.ESpeakSpeed, "espeak-ng speed in words per minute (80 to 450)")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, echo, fable, onyx, nova, shimmer")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("api.base_url", pf.Lookup("api-url"))
	viper.BindPFlag("api.timeout", pf.Lookup("timeout"))
	viper.BindPFlag("api.breaker_failures", pf.Lookup("breaker-failures"))
	viper.BindPFlag("session.db", pf.Lookup("session-db"))
	viper.BindPFlag("session.namespace", pf.Lookup("session-namespace"))
	viper.BindPFlag("audio.provider", pf.Lookup("speech"))
	viper.BindPFlag("audio.espeak_voice", pf.Lookup("espeak-voice"))
	viper.BindPFlag("audio.espeak_speed", pf.Lookup("espeak-speed"))
	viper.BindPFlag("audio.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", pf.Lookup("openai-speed"))
}

// LoadEnvFile exports the variables of a dotenv file that are not already
// set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".tarjama" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tarjama")
	}

	// Environment variables, e.g. TARJAMA_API_BASE_URL for api.base_url
	viper.SetEnvPrefix("TARJAMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// AppConfig assembles the application configuration from flags, config
// file and environment, in viper's order of precedence
func AppConfig() *app.Config {
	config := app.DefaultConfig()

	if v := viper.GetString("api.base_url"); v != "" {
		config.BaseURL = v
	}
	config.Timeout = viper.GetDuration("api.timeout")
	if v := viper.GetUint("api.breaker_failures"); v > 0 {
		config.BreakerFailures = uint32(v)
	}
	if v := viper.GetString("session.db"); v != "" {
		config.SessionDB = v
	}
	if v := viper.GetString("session.namespace"); v != "" {
		config.Namespace = v
	}
	if v := viper.GetString("log.level"); v != "" {
		config.LogLevel = v
	}

	if v := viper.GetString("audio.provider"); v != "" {
		config.Audio.Provider = v
	}
	if v := viper.GetString("audio.espeak_voice"); v != "" {
		config.Audio.ESpeakVoice = v
	}
	if v := viper.GetInt("audio.espeak_speed"); v > 0 {
		config.Audio.ESpeakSpeed = v
	}
	if v := viper.GetString("audio.openai_model"); v != "" {
		config.Audio.OpenAIModel = v
	}
	if v := viper.GetString("audio.openai_voice"); v != "" {
		config.Audio.OpenAIVoice = v
	}
	if v := viper.GetFloat64("audio.openai_speed"); v > 0 {
		config.Audio.OpenAISpeed = v
	}
	config.Audio.OpenAIKey = GetOpenAIKey()

	return config
}
