package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/persistence"
	"github.com/shubham-0921/kbc-ai/internal/question"
)

// Config represents the complete kbc configuration
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// GameConfig holds the defaults for a new game
type GameConfig struct {
	// QuestionsPerTeam is how many questions each team answers before results
	QuestionsPerTeam int `mapstructure:"questions_per_team"`
	// TimerLength is the answer timer in seconds (0 = no timer)
	TimerLength int `mapstructure:"timer_length"`
	// NumTeams is the team count suggested during setup (2-6)
	NumTeams int `mapstructure:"num_teams"`
	// TopicsFile is an optional YAML topic pack replacing the built-in topics
	TopicsFile string `mapstructure:"topics_file"`
}

// GenerationConfig controls the question provider
type GenerationConfig struct {
	// BaseURL is the OpenAI-compatible API root
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	// APIKey is the provider credential. When empty, KBC_GENERATION_API_KEY
	// and then GROQ_API_KEY are consulted.
	APIKey string `mapstructure:"api_key"`
	// MaxAttempts is the number of requests made per question before giving up
	MaxAttempts int `mapstructure:"max_attempts"`
	// RetryDelayMs is the base retry delay; attempt n waits n times this
	RetryDelayMs   int     `mapstructure:"retry_delay_ms"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	Temperature    float64 `mapstructure:"temperature"`
}

// PersistenceConfig controls where the game is saved
type PersistenceConfig struct {
	// Backend is "file" or "sqlite"
	Backend string `mapstructure:"backend"`
	// StateDir holds the snapshot, lock and log. Empty means the XDG state
	// directory.
	StateDir string `mapstructure:"state_dir"`
	// DebounceMs is the write coalescing window in milliseconds
	DebounceMs int `mapstructure:"debounce_ms"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is active (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level sets the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Game: GameConfig{
			QuestionsPerTeam: game.DefaultQuestionsPerTeam,
			TimerLength:      game.DefaultTimerLength,
			NumTeams:         2,
			TopicsFile:       "",
		},
		Generation: GenerationConfig{
			BaseURL:        question.DefaultBaseURL,
			Model:          question.DefaultModel,
			APIKey:         "",
			MaxAttempts:    question.DefaultMaxAttempts,
			RetryDelayMs:   int(question.DefaultBaseDelay / time.Millisecond),
			TimeoutSeconds: 30,
			Temperature:    question.DefaultTemperature,
		},
		Persistence: PersistenceConfig{
			Backend:    persistence.BackendFile,
			StateDir:   "", // Empty means use default: $XDG_STATE_HOME/kbc
			DebounceMs: int(persistence.DefaultDebounce / time.Millisecond),
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// Settings returns the game settings for a new game.
func (c *GameConfig) Settings() game.Config {
	return game.Config{
		QuestionsPerTeam: c.QuestionsPerTeam,
		TimerLength:      c.TimerLength,
	}
}

// Topics returns the topic list: the pack at TopicsFile when set, the
// built-in list otherwise.
func (c *GameConfig) Topics() ([]string, error) {
	if c.TopicsFile == "" {
		return game.DefaultTopics, nil
	}
	pack, err := game.LoadTopicPack(expandHome(c.TopicsFile))
	if err != nil {
		return nil, err
	}
	return pack.Topics, nil
}

// RetryDelay returns the base retry delay as a time.Duration
func (c *GenerationConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// Timeout returns the per-request timeout as a time.Duration
func (c *GenerationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce returns the write coalescing window as a time.Duration
func (c *PersistenceConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ResolveStateDir returns the directory holding the saved game.
// If StateDir is empty, it returns $XDG_STATE_HOME/kbc or ~/.local/state/kbc.
// If StateDir starts with ~, it expands to the user's home directory.
func (c *PersistenceConfig) ResolveStateDir() string {
	if c.StateDir != "" {
		return expandHome(c.StateDir)
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "kbc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kbc"
	}
	return filepath.Join(home, ".local", "state", "kbc")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Game defaults
	viper.SetDefault("game.questions_per_team", defaults.Game.QuestionsPerTeam)
	viper.SetDefault("game.timer_length", defaults.Game.TimerLength)
	viper.SetDefault("game.num_teams", defaults.Game.NumTeams)
	viper.SetDefault("game.topics_file", defaults.Game.TopicsFile)

	// Generation defaults
	viper.SetDefault("generation.base_url", defaults.Generation.BaseURL)
	viper.SetDefault("generation.model", defaults.Generation.Model)
	viper.SetDefault("generation.api_key", defaults.Generation.APIKey)
	viper.SetDefault("generation.max_attempts", defaults.Generation.MaxAttempts)
	viper.SetDefault("generation.retry_delay_ms", defaults.Generation.RetryDelayMs)
	viper.SetDefault("generation.timeout_seconds", defaults.Generation.TimeoutSeconds)
	viper.SetDefault("generation.temperature", defaults.Generation.Temperature)

	// Persistence defaults
	viper.SetDefault("persistence.backend", defaults.Persistence.Backend)
	viper.SetDefault("persistence.state_dir", defaults.Persistence.StateDir)
	viper.SetDefault("persistence.debounce_ms", defaults.Persistence.DebounceMs)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kbc")
	}
	// Fall back to ~/.config/kbc
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kbc"
	}
	return filepath.Join(home, ".config", "kbc")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidBackends returns the list of valid persistence backends
func ValidBackends() []string {
	return []string{persistence.BackendFile, persistence.BackendSQLite}
}

// IsValidBackend checks if the given backend is valid
func IsValidBackend(backend string) bool {
	for _, valid := range ValidBackends() {
		if backend == valid {
			return true
		}
	}
	return false
}
