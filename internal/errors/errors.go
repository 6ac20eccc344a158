// Package errors provides the error taxonomy for the trivia engine.
//
// Every failure the engine can surface falls into one of a small number of
// categories, each with a fixed recovery policy:
//
//   - InvalidRosterError: setup input rejected; fatal to the requested action
//   - GenerationError: question generation exhausted its attempts; the game
//     rolls back and the caller may retry
//   - ValidationError: a provider response was malformed; retried exactly
//     like a generation failure
//   - PersistenceFault: a snapshot write failed; cleared and retried once,
//     then logged and dropped
//   - PersistenceCorruption: a saved snapshot could not be decoded; treated
//     as "no saved game"
//   - PreconditionError: an action was issued in the wrong state; fails fast
//     without mutating anything
//
// # Usage
//
//	err := errors.NewPreconditionError("submit_answer", errors.ErrWrongPhase).
//		WithPhase("topic_selection")
//
//	if errors.Is(err, errors.ErrWrongPhase) { ... }
//
//	var genErr *errors.GenerationError
//	if errors.As(err, &genErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Roster sentinel errors
var (
	// ErrTooFewPlayers indicates fewer than the minimum number of players.
	ErrTooFewPlayers = New("not enough players")
	// ErrTeamCountOutOfRange indicates a team count outside the supported range.
	ErrTeamCountOutOfRange = New("team count out of range")
	// ErrDuplicatePlayer indicates two players share a name.
	ErrDuplicatePlayer = New("duplicate player name")
	// ErrRosterMismatch indicates teams and players disagree about membership.
	ErrRosterMismatch = New("team membership does not match players")
)

// Generation sentinel errors
var (
	// ErrNotConfigured indicates the generation provider credential is missing.
	ErrNotConfigured = New("question generation is not configured")
	// ErrMalformedResponse indicates the provider response failed validation.
	ErrMalformedResponse = New("malformed question response")
	// ErrProviderStatus indicates the provider answered with a non-success status.
	ErrProviderStatus = New("provider returned an error status")
)

// Persistence sentinel errors
var (
	// ErrNoSavedGame indicates that no snapshot exists under the key.
	ErrNoSavedGame = New("no saved game")
	// ErrSnapshotWrite indicates a snapshot could not be written.
	ErrSnapshotWrite = New("snapshot write failed")
	// ErrSnapshotCorrupted indicates a stored snapshot could not be decoded.
	ErrSnapshotCorrupted = New("snapshot corrupted")
)

// Gameplay precondition sentinel errors
var (
	// ErrWrongPhase indicates the action is not allowed in the current phase.
	ErrWrongPhase = New("action not allowed in current phase")
	// ErrUnknownTopic indicates the topic is not in the available pool.
	ErrUnknownTopic = New("topic not available")
	// ErrLifelineUsed indicates the lifeline was already used for this question.
	ErrLifelineUsed = New("lifeline already used")
	// ErrNoActiveQuestion indicates there is no question to act on.
	ErrNoActiveQuestion = New("no active question")
	// ErrSelectionPending indicates a topic selection is already in flight.
	ErrSelectionPending = New("topic selection already in progress")
	// ErrSelectionAbandoned indicates the game was reset while a selection was in flight.
	ErrSelectionAbandoned = New("topic selection abandoned by reset")
	// ErrInvalidAnswer indicates an answer index outside the option range.
	ErrInvalidAnswer = New("answer index out of range")
	// ErrInvalidConfig indicates game configuration values out of range.
	ErrInvalidConfig = New("invalid game configuration")
	// ErrNoTeams indicates an action that needs formed teams was issued without them.
	ErrNoTeams = New("no teams formed")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// GameError is the base interface for all classified engine errors.
type GameError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the caller may retry the action.
	IsRetryable() bool

	// IsUserFacing returns true if the message is safe to show players.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "prefix [k=v, ...]: message: cause".
func (e *baseError) format(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.message == "" {
		if e.cause != nil {
			return fmt.Sprintf("%s: %v", prefix, e.cause)
		}
		return prefix
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Setup Errors
// -----------------------------------------------------------------------------

// InvalidRosterError reports a roster or team count that cannot form teams.
//
// Example:
//
//	err := errors.NewInvalidRosterError("at least 2 players required", errors.ErrTooFewPlayers).
//		WithCounts(1, 2)
type InvalidRosterError struct {
	baseError
	PlayerCount int
	TeamCount   int
}

// NewInvalidRosterError creates a new InvalidRosterError.
func NewInvalidRosterError(message string, cause error) *InvalidRosterError {
	return &InvalidRosterError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		PlayerCount: -1,
		TeamCount:   -1,
	}
}

// WithCounts records the player and team counts that were rejected.
func (e *InvalidRosterError) WithCounts(players, teams int) *InvalidRosterError {
	e.PlayerCount = players
	e.TeamCount = teams
	return e
}

// Error returns the formatted error message.
func (e *InvalidRosterError) Error() string {
	var parts []string
	if e.PlayerCount >= 0 {
		parts = append(parts, fmt.Sprintf("players=%d", e.PlayerCount))
	}
	if e.TeamCount >= 0 {
		parts = append(parts, fmt.Sprintf("teams=%d", e.TeamCount))
	}
	return e.format("invalid roster", parts)
}

// Is checks if this error matches the target.
func (e *InvalidRosterError) Is(target error) bool {
	if _, ok := target.(*InvalidRosterError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Generation Errors
// -----------------------------------------------------------------------------

// GenerationError reports that question generation gave up. The cause is the
// error from the last attempt.
//
// Example:
//
//	err := errors.NewGenerationError("Cricket", 3, lastErr)
//	fmt.Println(err) // "generation error [topic=Cricket, attempts=3]: ..."
type GenerationError struct {
	baseError
	Topic    string
	Attempts int
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(topic string, attempts int, cause error) *GenerationError {
	return &GenerationError{
		baseError: baseError{
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Topic:    topic,
		Attempts: attempts,
	}
}

// Error returns the formatted error message.
func (e *GenerationError) Error() string {
	var parts []string
	if e.Topic != "" {
		parts = append(parts, fmt.Sprintf("topic=%s", e.Topic))
	}
	if e.Attempts > 0 {
		parts = append(parts, fmt.Sprintf("attempts=%d", e.Attempts))
	}
	return e.format("generation error", parts)
}

// Is checks if this error matches the target.
func (e *GenerationError) Is(target error) bool {
	if _, ok := target.(*GenerationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// IsRetryable reports whether the game may re-offer the topic. A missing
// credential never heals on its own, so it is not retryable.
func (e *GenerationError) IsRetryable() bool {
	if errors.Is(e.cause, ErrNotConfigured) {
		return false
	}
	return e.retryable
}

// ValidationError reports a malformed provider response.
//
// Example:
//
//	err := errors.NewValidationError("options", "must contain exactly 4 entries").WithValue(3)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError for the given response field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: false,
		},
		Field: field,
	}
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return e.format("validation error", parts)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrMalformedResponse) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Persistence Errors
// -----------------------------------------------------------------------------

// PersistenceFault reports a failed snapshot write, clear or read.
type PersistenceFault struct {
	baseError
	Op  string
	Key string
}

// NewPersistenceFault creates a new PersistenceFault.
func NewPersistenceFault(op, key string, cause error) *PersistenceFault {
	return &PersistenceFault{
		baseError: baseError{
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: false,
		},
		Op:  op,
		Key: key,
	}
}

// Error returns the formatted error message.
func (e *PersistenceFault) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}
	return e.format("persistence fault", parts)
}

// Is checks if this error matches the target.
func (e *PersistenceFault) Is(target error) bool {
	if _, ok := target.(*PersistenceFault); ok {
		return true
	}
	if e.Op == "save" && errors.Is(target, ErrSnapshotWrite) {
		return true
	}
	return e.baseError.Is(target)
}

// PersistenceCorruption reports a saved snapshot that could not be decoded.
type PersistenceCorruption struct {
	baseError
	Key string
}

// NewPersistenceCorruption creates a new PersistenceCorruption.
func NewPersistenceCorruption(key string, cause error) *PersistenceCorruption {
	return &PersistenceCorruption{
		baseError: baseError{
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: false,
		},
		Key: key,
	}
}

// Error returns the formatted error message.
func (e *PersistenceCorruption) Error() string {
	var parts []string
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}
	return e.format("persistence corruption", parts)
}

// Is checks if this error matches the target.
func (e *PersistenceCorruption) Is(target error) bool {
	if _, ok := target.(*PersistenceCorruption); ok {
		return true
	}
	if errors.Is(target, ErrSnapshotCorrupted) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Gameplay Errors
// -----------------------------------------------------------------------------

// PreconditionError reports an action issued when its preconditions do not
// hold. State is never mutated when one of these is returned.
//
// Example:
//
//	err := errors.NewPreconditionError("next_turn", errors.ErrWrongPhase).WithPhase("answering")
type PreconditionError struct {
	baseError
	Action string
	Phase  string
}

// NewPreconditionError creates a new PreconditionError.
func NewPreconditionError(action string, cause error) *PreconditionError {
	return &PreconditionError{
		baseError: baseError{
			cause:      cause,
			severity:   SeverityInfo,
			retryable:  false,
			userFacing: true,
		},
		Action: action,
	}
}

// WithPhase records the phase the engine was in.
func (e *PreconditionError) WithPhase(phase string) *PreconditionError {
	e.Phase = phase
	return e
}

// WithDetail adds a human-readable detail message.
func (e *PreconditionError) WithDetail(detail string) *PreconditionError {
	e.message = detail
	return e
}

// Error returns the formatted error message.
func (e *PreconditionError) Error() string {
	var parts []string
	if e.Action != "" {
		parts = append(parts, fmt.Sprintf("action=%s", e.Action))
	}
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("phase=%s", e.Phase))
	}
	return e.format("precondition failed", parts)
}

// Is checks if this error matches the target.
func (e *PreconditionError) Is(target error) bool {
	if _, ok := target.(*PreconditionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a condition the player
// can retry from, such as a failed question generation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var gameErr GameError
	if As(err, &gameErr) {
		return gameErr.IsRetryable()
	}
	return false
}

// IsUserFacing returns true if the error message is safe to display to players.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var gameErr GameError
	if As(err, &gameErr) {
		return gameErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement GameError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var gameErr GameError
	if As(err, &gameErr) {
		return gameErr.Severity()
	}
	return SeverityError
}

// IsPrecondition returns true if the error is a fail-fast precondition error.
func IsPrecondition(err error) bool {
	var pre *PreconditionError
	return As(err, &pre)
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
