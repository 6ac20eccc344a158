package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shubham-0921/kbc-ai/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify kbc configuration",
	Long: `View or modify kbc configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  kbc config set game.questions_per_team 3
  kbc config set persistence.backend sqlite

Run 'kbc config show' for the full list of keys. The API key is not
settable here; use KBC_GENERATION_API_KEY or GROQ_API_KEY instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/kbc/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// settableKeys maps each key accepted by 'config set' to its value type.
var settableKeys = map[string]string{
	"game.questions_per_team":    "int",
	"game.timer_length":          "int",
	"game.num_teams":             "int",
	"game.topics_file":           "string",
	"generation.base_url":        "string",
	"generation.model":           "string",
	"generation.max_attempts":    "int",
	"generation.retry_delay_ms":  "int",
	"generation.timeout_seconds": "int",
	"generation.temperature":     "float",
	"persistence.backend":        "string",
	"persistence.state_dir":      "string",
	"persistence.debounce_ms":    "int",
	"logging.enabled":            "bool",
	"logging.level":              "string",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "game:")
	fmt.Fprintf(out, "  questions_per_team: %d\n", cfg.Game.QuestionsPerTeam)
	fmt.Fprintf(out, "  timer_length: %d\n", cfg.Game.TimerLength)
	fmt.Fprintf(out, "  num_teams: %d\n", cfg.Game.NumTeams)
	fmt.Fprintf(out, "  topics_file: %q\n", cfg.Game.TopicsFile)

	fmt.Fprintln(out, "generation:")
	fmt.Fprintf(out, "  base_url: %s\n", cfg.Generation.BaseURL)
	fmt.Fprintf(out, "  model: %s\n", cfg.Generation.Model)
	fmt.Fprintf(out, "  api_key: %s\n", maskKey(cfg.Generation.APIKey))
	fmt.Fprintf(out, "  max_attempts: %d\n", cfg.Generation.MaxAttempts)
	fmt.Fprintf(out, "  retry_delay_ms: %d\n", cfg.Generation.RetryDelayMs)
	fmt.Fprintf(out, "  timeout_seconds: %d\n", cfg.Generation.TimeoutSeconds)
	fmt.Fprintf(out, "  temperature: %.2f\n", cfg.Generation.Temperature)

	fmt.Fprintln(out, "persistence:")
	fmt.Fprintf(out, "  backend: %s\n", cfg.Persistence.Backend)
	fmt.Fprintf(out, "  state_dir: %s\n", cfg.Persistence.ResolveStateDir())
	fmt.Fprintf(out, "  debounce_ms: %d\n", cfg.Persistence.DebounceMs)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)

	return nil
}

// maskKey hides all but the last four characters of a credential.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := settableKeys[key]
	if !ok {
		keys := make([]string, 0, len(settableKeys))
		for k := range settableKeys {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return fmt.Errorf("unknown configuration key: %s\nValid keys:\n  %s", key, strings.Join(keys, "\n  "))
	}

	typedValue, err := parseValue(keyType, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Validate against the merged configuration before touching the file.
	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return err
	}

	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write through a separate instance so environment overrides and
	// defaults are not copied into the file.
	configFile := config.ConfigFile()
	file := viper.New()
	file.SetConfigFile(configFile)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	file.Set(key, typedValue)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)

	return nil
}

func parseValue(keyType, value string) (any, error) {
	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("expected true or false")
		}
		return value == "true", nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected integer")
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("expected number")
		}
		return f, nil
	default:
		return value, nil
	}
}

const defaultConfigContent = `# kbc configuration

# Defaults for a new game
game:
  # Questions each team answers before the results screen
  questions_per_team: 5
  # Answer timer in seconds (0 = no timer)
  timer_length: 30
  # Team count suggested during setup (2-6)
  num_teams: 2
  # Optional YAML topic pack replacing the built-in topics
  topics_file: ""

# Question generation (any OpenAI-compatible chat completions API)
generation:
  base_url: https://api.groq.com/openai/v1
  model: llama-3.3-70b-versatile
  # Prefer KBC_GENERATION_API_KEY or GROQ_API_KEY over storing the key here
  api_key: ""
  # Requests per question before giving up
  max_attempts: 3
  # Base retry delay; attempt n waits n times this
  retry_delay_ms: 1000
  timeout_seconds: 30
  temperature: 0.7

# Saved game
persistence:
  # file or sqlite
  backend: file
  # Empty means $XDG_STATE_HOME/kbc or ~/.local/state/kbc
  state_dir: ""
  # Write coalescing window in milliseconds
  debounce_ms: 500

logging:
  enabled: true
  # debug, info, warn or error
  level: info
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'kbc config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize your games.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: KBC_* (e.g., KBC_GAME_QUESTIONS_PER_TEAM)")

	return nil
}
