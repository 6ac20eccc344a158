package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got %d errors: %v", len(errs), errs)
	}
}

func hasFieldError(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestConfig_Validate_Game(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		field    string
		hasError bool
	}{
		{"one question", func(c *Config) { c.Game.QuestionsPerTeam = 1 }, "game.questions_per_team", false},
		{"zero questions", func(c *Config) { c.Game.QuestionsPerTeam = 0 }, "game.questions_per_team", true},
		{"too many questions", func(c *Config) { c.Game.QuestionsPerTeam = 51 }, "game.questions_per_team", true},
		{"no timer", func(c *Config) { c.Game.TimerLength = 0 }, "game.timer_length", false},
		{"negative timer", func(c *Config) { c.Game.TimerLength = -5 }, "game.timer_length", true},
		{"timer too long", func(c *Config) { c.Game.TimerLength = 601 }, "game.timer_length", true},
		{"six teams", func(c *Config) { c.Game.NumTeams = 6 }, "game.num_teams", false},
		{"one team", func(c *Config) { c.Game.NumTeams = 1 }, "game.num_teams", true},
		{"seven teams", func(c *Config) { c.Game.NumTeams = 7 }, "game.num_teams", true},
		{"missing topics file", func(c *Config) { c.Game.TopicsFile = "/does/not/exist.yaml" }, "game.topics_file", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if got := hasFieldError(cfg.Validate(), tt.field); got != tt.hasError {
				t.Errorf("Validate() error on %s = %v, want %v", tt.field, got, tt.hasError)
			}
		})
	}
}

func TestConfig_Validate_TopicsFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	if err := os.WriteFile(path, []byte("topics: [Cricket]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.Game.TopicsFile = path
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestConfig_Validate_Generation(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		field    string
		hasError bool
	}{
		{"local server", func(c *Config) { c.Generation.BaseURL = "http://localhost:11434/v1" }, "generation.base_url", false},
		{"no scheme", func(c *Config) { c.Generation.BaseURL = "api.groq.com" }, "generation.base_url", true},
		{"ftp scheme", func(c *Config) { c.Generation.BaseURL = "ftp://example.com" }, "generation.base_url", true},
		{"empty model", func(c *Config) { c.Generation.Model = "  " }, "generation.model", true},
		{"single attempt", func(c *Config) { c.Generation.MaxAttempts = 1 }, "generation.max_attempts", false},
		{"zero attempts", func(c *Config) { c.Generation.MaxAttempts = 0 }, "generation.max_attempts", true},
		{"too many attempts", func(c *Config) { c.Generation.MaxAttempts = 11 }, "generation.max_attempts", true},
		{"no retry delay", func(c *Config) { c.Generation.RetryDelayMs = 0 }, "generation.retry_delay_ms", false},
		{"negative retry delay", func(c *Config) { c.Generation.RetryDelayMs = -1 }, "generation.retry_delay_ms", true},
		{"zero timeout", func(c *Config) { c.Generation.TimeoutSeconds = 0 }, "generation.timeout_seconds", true},
		{"negative temperature", func(c *Config) { c.Generation.Temperature = -0.1 }, "generation.temperature", true},
		{"temperature too high", func(c *Config) { c.Generation.Temperature = 2.5 }, "generation.temperature", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if got := hasFieldError(cfg.Validate(), tt.field); got != tt.hasError {
				t.Errorf("Validate() error on %s = %v, want %v", tt.field, got, tt.hasError)
			}
		})
	}
}

func TestConfig_Validate_Persistence(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		field    string
		hasError bool
	}{
		{"sqlite backend", func(c *Config) { c.Persistence.Backend = "sqlite" }, "persistence.backend", false},
		{"unknown backend", func(c *Config) { c.Persistence.Backend = "localStorage" }, "persistence.backend", true},
		{"null in state dir", func(c *Config) { c.Persistence.StateDir = "state\x00dir" }, "persistence.state_dir", true},
		{"no debounce", func(c *Config) { c.Persistence.DebounceMs = 0 }, "persistence.debounce_ms", false},
		{"negative debounce", func(c *Config) { c.Persistence.DebounceMs = -1 }, "persistence.debounce_ms", true},
		{"debounce too long", func(c *Config) { c.Persistence.DebounceMs = 60001 }, "persistence.debounce_ms", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if got := hasFieldError(cfg.Validate(), tt.field); got != tt.hasError {
				t.Errorf("Validate() error on %s = %v, want %v", tt.field, got, tt.hasError)
			}
		})
	}
}

func TestConfig_Validate_Logging(t *testing.T) {
	tests := []struct {
		level    string
		hasError bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"DEBUG", false},
		{"", false},
		{"verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Default()
			cfg.Logging.Level = tt.level
			if got := hasFieldError(cfg.Validate(), "logging.level"); got != tt.hasError {
				t.Errorf("Validate() for level=%q: hasError=%v, want %v", tt.level, got, tt.hasError)
			}
		})
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	expected := []string{"debug", "info", "warn", "error"}
	if len(levels) != len(expected) {
		t.Fatalf("ValidLogLevels() length = %d, want %d", len(levels), len(expected))
	}
	for i, level := range expected {
		if levels[i] != level {
			t.Errorf("ValidLogLevels()[%d] = %q, want %q", i, levels[i], level)
		}
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Game.QuestionsPerTeam = 0
	cfg.Generation.MaxAttempts = 0
	cfg.Persistence.Backend = "tape"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}
