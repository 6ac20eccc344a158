package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/shubham-0921/kbc-ai/internal/team"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "game.questions_per_team")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Upper bounds that keep a game playable.
const (
	maxQuestionsPerTeam = 50
	maxTimerLength      = 600
	maxAttempts         = 10
	maxDebounceMs       = 60000
	maxTemperature      = 2.0
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGame()...)
	errors = append(errors, c.validateGeneration()...)
	errors = append(errors, c.validatePersistence()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateGame validates the GameConfig
func (c *Config) validateGame() []ValidationError {
	var errors []ValidationError

	if c.Game.QuestionsPerTeam < 1 || c.Game.QuestionsPerTeam > maxQuestionsPerTeam {
		errors = append(errors, ValidationError{
			Field:   "game.questions_per_team",
			Value:   c.Game.QuestionsPerTeam,
			Message: fmt.Sprintf("must be between 1 and %d", maxQuestionsPerTeam),
		})
	}

	if c.Game.TimerLength < 0 || c.Game.TimerLength > maxTimerLength {
		errors = append(errors, ValidationError{
			Field:   "game.timer_length",
			Value:   c.Game.TimerLength,
			Message: fmt.Sprintf("must be between 0 and %d seconds", maxTimerLength),
		})
	}

	if c.Game.NumTeams < team.MinTeams || c.Game.NumTeams > team.MaxTeams {
		errors = append(errors, ValidationError{
			Field:   "game.num_teams",
			Value:   c.Game.NumTeams,
			Message: fmt.Sprintf("must be between %d and %d", team.MinTeams, team.MaxTeams),
		})
	}

	if c.Game.TopicsFile != "" {
		if _, err := os.Stat(expandHome(c.Game.TopicsFile)); err != nil {
			errors = append(errors, ValidationError{
				Field:   "game.topics_file",
				Value:   c.Game.TopicsFile,
				Message: "file is not readable",
			})
		}
	}

	return errors
}

// validateGeneration validates the GenerationConfig
func (c *Config) validateGeneration() []ValidationError {
	var errors []ValidationError

	if u, err := url.Parse(c.Generation.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "generation.base_url",
			Value:   c.Generation.BaseURL,
			Message: "must be an http or https URL",
		})
	}

	if strings.TrimSpace(c.Generation.Model) == "" {
		errors = append(errors, ValidationError{
			Field:   "generation.model",
			Value:   c.Generation.Model,
			Message: "cannot be empty",
		})
	}

	if c.Generation.MaxAttempts < 1 || c.Generation.MaxAttempts > maxAttempts {
		errors = append(errors, ValidationError{
			Field:   "generation.max_attempts",
			Value:   c.Generation.MaxAttempts,
			Message: fmt.Sprintf("must be between 1 and %d", maxAttempts),
		})
	}

	if c.Generation.RetryDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "generation.retry_delay_ms",
			Value:   c.Generation.RetryDelayMs,
			Message: "must be non-negative",
		})
	}

	if c.Generation.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "generation.timeout_seconds",
			Value:   c.Generation.TimeoutSeconds,
			Message: "must be at least 1",
		})
	}

	if c.Generation.Temperature < 0 || c.Generation.Temperature > maxTemperature {
		errors = append(errors, ValidationError{
			Field:   "generation.temperature",
			Value:   c.Generation.Temperature,
			Message: fmt.Sprintf("must be between 0 and %.1f", maxTemperature),
		})
	}

	return errors
}

// validatePersistence validates the PersistenceConfig
func (c *Config) validatePersistence() []ValidationError {
	var errors []ValidationError

	if !IsValidBackend(c.Persistence.Backend) {
		errors = append(errors, ValidationError{
			Field:   "persistence.backend",
			Value:   c.Persistence.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if strings.ContainsRune(c.Persistence.StateDir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "persistence.state_dir",
			Value:   c.Persistence.StateDir,
			Message: "path contains invalid null character",
		})
	}

	if c.Persistence.DebounceMs < 0 || c.Persistence.DebounceMs > maxDebounceMs {
		errors = append(errors, ValidationError{
			Field:   "persistence.debounce_ms",
			Value:   c.Persistence.DebounceMs,
			Message: fmt.Sprintf("must be between 0 and %d", maxDebounceMs),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
