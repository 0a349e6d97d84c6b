package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	if cmd.Use != "tarjama" {
		t.Errorf("Expected Use to be 'tarjama', got %s", cmd.Use)
	}
	if !strings.Contains(cmd.Short, "translation service") {
		t.Errorf("Expected Short description to mention the translation service")
	}

	for _, name := range []string{
		"config", "env-file", "log-level", "yes", "api-url", "timeout",
		"breaker-failures", "session-db", "session-namespace", "speech",
		"espeak-voice", "espeak-speed", "openai-model", "openai-voice", "openai-speed",
	} {
		t.Run("flag_"+name, func(t *testing.T) {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("Expected persistent flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	dbFlag := cmd.PersistentFlags().Lookup("session-db")
	if dbFlag == nil {
		t.Fatal("session-db flag not found")
	}
	home, _ := os.UserHomeDir()
	expectedDefault := filepath.Join(home, ".local", "state", "tarjama", "session.db")
	if dbFlag.DefValue != expectedDefault {
		t.Errorf("Expected default session db to be %s, got %s", expectedDefault, dbFlag.DefValue)
	}

	urlFlag := cmd.PersistentFlags().Lookup("api-url")
	if urlFlag.DefValue != DefaultBaseURL {
		t.Errorf("Expected default api url %s, got %s", DefaultBaseURL, urlFlag.DefValue)
	}
}

func TestFlagTypes(t *testing.T) {
	cmd := CreateRootCommand(NewFlags())

	tests := []struct {
		name     string
		flagType string
		short    string
	}{
		{"yes", "bool", "y"},
		{"timeout", "duration", ""},
		{"breaker-failures", "uint", ""},
		{"espeak-speed", "int", ""},
		{"openai-speed", "float64", ""},
		{"api-url", "string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
				if f.Name == tt.name {
					flag = f
				}
			})
			if flag == nil {
				t.Fatalf("Flag %s not found", tt.name)
			}
			if flag.Value.Type() != tt.flagType {
				t.Errorf("Expected %s to be %s, got %s", tt.name, tt.flagType, flag.Value.Type())
			}
			if flag.Shorthand != tt.short {
				t.Errorf("Expected %s shorthand %q, got %q", tt.name, tt.short, flag.Shorthand)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		check     func(t *testing.T)
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `api:
  base_url: http://example.test/api/
  timeout: 15s
audio:
  openai_key: test-key`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			check: func(t *testing.T) {
				if got := viper.GetString("api.base_url"); got != "http://example.test/api/" {
					t.Errorf("api.base_url = %q", got)
				}
				if got := viper.GetDuration("api.timeout"); got != 15*time.Second {
					t.Errorf("api.timeout = %v", got)
				}
			},
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
			check: func(t *testing.T) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			InitConfig(tt.setupFunc(t))
			tt.check(t)

			// Test environment variable prefix and nested keys
			t.Setenv("TARJAMA_TEST_VAR", "test-value")
			t.Setenv("TARJAMA_SESSION_NAMESPACE", "OtherPrefs")

			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}
			if viper.GetString("session.namespace") != "OtherPrefs" {
				t.Error("Nested key not read from environment")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TARJAMA_DOTENV_PROBE=from-file\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Setenv("TARJAMA_DOTENV_PROBE", "")
	os.Unsetenv("TARJAMA_DOTENV_PROBE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() failed: %v", err)
	}
	if got := os.Getenv("TARJAMA_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("Expected variable from env file, got %q", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("Expected missing file to be ignored, got %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("Expected empty path to be ignored, got %v", err)
	}
}

func TestLoadEnvFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TARJAMA_DOTENV_KEEP=from-file\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Setenv("TARJAMA_DOTENV_KEEP", "from-shell")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() failed: %v", err)
	}
	if got := os.Getenv("TARJAMA_DOTENV_KEEP"); got != "from-shell" {
		t.Errorf("Expected shell value to win, got %q", got)
	}
}

func TestGetOpenAIKey(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{"from environment", "env-test-key", "config-test-key", "env-test-key"},
		{"from config when no env", "", "config-test-key", "config-test-key"},
		{"empty when neither set", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("OPENAI_API_KEY", tt.envKey)

			if tt.configKey != "" {
				viper.Set("audio.openai_key", tt.configKey)
			}

			if got := GetOpenAIKey(); got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBindFlagsToViper(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.PersistentFlags().Set("api-url", "http://10.0.0.2:8080/api/")
	cmd.PersistentFlags().Set("espeak-voice", "ar+f1")
	cmd.PersistentFlags().Set("timeout", "20s")

	bindFlagsToViper(cmd)

	if got := viper.GetString("api.base_url"); got != "http://10.0.0.2:8080/api/" {
		t.Errorf("Expected api.base_url from flag, got %s", got)
	}
	if got := viper.GetString("audio.espeak_voice"); got != "ar+f1" {
		t.Errorf("Expected audio.espeak_voice to be ar+f1, got %s", got)
	}
	if got := viper.GetDuration("api.timeout"); got != 20*time.Second {
		t.Errorf("Expected api.timeout to be 20s, got %v", got)
	}
}

func TestAppConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())
	cmd.PersistentFlags().Set("session-namespace", "TestPrefs")
	cmd.PersistentFlags().Set("espeak-voice", "ar+f1")
	viper.Set("audio.espeak_speed", 200)

	config := AppConfig()

	if config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", config.BaseURL)
	}
	if config.Namespace != "TestPrefs" {
		t.Errorf("Namespace = %q", config.Namespace)
	}
	if config.BreakerFailures != 5 {
		t.Errorf("BreakerFailures = %d", config.BreakerFailures)
	}
	if config.Audio.ESpeakVoice != "ar+f1" {
		t.Errorf("ESpeakVoice = %q", config.Audio.ESpeakVoice)
	}
	if config.Audio.ESpeakSpeed != 200 {
		t.Errorf("ESpeakSpeed = %d", config.Audio.ESpeakSpeed)
	}
	if config.Audio.OpenAIKey != "sk-env" {
		t.Errorf("OpenAIKey = %q", config.Audio.OpenAIKey)
	}
}
