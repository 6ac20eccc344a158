package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvalidRosterError(t *testing.T) {
	err := NewInvalidRosterError("at least 2 players required", ErrTooFewPlayers).WithCounts(1, 2)

	want := "invalid roster [players=1, teams=2]: at least 2 players required: not enough players"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrTooFewPlayers) {
		t.Error("expected errors.Is(err, ErrTooFewPlayers)")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected roster errors to match ErrInvalidInput")
	}
	if IsRetryable(err) {
		t.Error("roster errors must not be retryable")
	}
	if !IsUserFacing(err) {
		t.Error("roster errors should be user facing")
	}

	var target *InvalidRosterError
	wrapped := fmt.Errorf("form teams: %w", err)
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find InvalidRosterError through wrapping")
	}
	if target.TeamCount != 2 {
		t.Errorf("TeamCount = %d, want 2", target.TeamCount)
	}
}

func TestInvalidRosterError_NoCounts(t *testing.T) {
	err := NewInvalidRosterError("duplicate", ErrDuplicatePlayer)
	if strings.Contains(err.Error(), "players=") {
		t.Errorf("unset counts should be omitted, got %q", err.Error())
	}
}

func TestGenerationError(t *testing.T) {
	last := NewValidationError("options", "must contain exactly 4 entries").WithValue(3)
	err := NewGenerationError("Cricket", 3, last)

	if !strings.HasPrefix(err.Error(), "generation error [topic=Cricket, attempts=3]: validation error [field=options, value=3]") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("generation error should expose the malformed response cause")
	}
	if !IsRetryable(err) {
		t.Error("generation errors should be retryable")
	}
	if GetSeverity(err) != SeverityError {
		t.Errorf("severity = %v, want error", GetSeverity(err))
	}

	var v *ValidationError
	if !errors.As(err, &v) || v.Field != "options" {
		t.Errorf("expected to unwrap ValidationError for options, got %v", v)
	}
}

func TestGenerationError_NotConfiguredIsNotRetryable(t *testing.T) {
	err := NewGenerationError("Cricket", 1, ErrNotConfigured)
	if IsRetryable(err) {
		t.Error("missing credentials should not be retryable")
	}
	if !errors.Is(err, ErrNotConfigured) {
		t.Error("expected ErrNotConfigured in chain")
	}
}

func TestValidationError_Is(t *testing.T) {
	err := NewValidationError("question", "must be a non-empty string")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("validation errors should match ErrMalformedResponse")
	}
	if !errors.Is(err, &ValidationError{}) {
		t.Error("validation errors should match by type")
	}
	if IsUserFacing(err) {
		t.Error("raw validation errors are internal")
	}
}

func TestPersistenceErrors(t *testing.T) {
	cause := errors.New("disk full")
	fault := NewPersistenceFault("save", "kbc_game_state", cause)
	if !errors.Is(fault, ErrSnapshotWrite) {
		t.Error("save fault should match ErrSnapshotWrite")
	}
	if !errors.Is(fault, cause) {
		t.Error("fault should unwrap to its cause")
	}
	if want := "persistence fault [op=save, key=kbc_game_state]: disk full"; fault.Error() != want {
		t.Errorf("Error() = %q, want %q", fault.Error(), want)
	}

	clearFault := NewPersistenceFault("clear", "k", cause)
	if errors.Is(clearFault, ErrSnapshotWrite) {
		t.Error("clear fault should not match ErrSnapshotWrite")
	}

	corrupt := NewPersistenceCorruption("kbc_game_state", errors.New("unexpected EOF"))
	if !errors.Is(corrupt, ErrSnapshotCorrupted) {
		t.Error("corruption should match ErrSnapshotCorrupted")
	}
	if GetSeverity(corrupt) != SeverityWarning {
		t.Errorf("severity = %v, want warning", GetSeverity(corrupt))
	}
}

func TestPreconditionError(t *testing.T) {
	err := NewPreconditionError("next_turn", ErrWrongPhase).WithPhase("answering")

	if want := "precondition failed [action=next_turn, phase=answering]: action not allowed in current phase"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrWrongPhase) {
		t.Error("expected ErrWrongPhase")
	}
	if !IsPrecondition(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsPrecondition should see through wrapping")
	}
	if IsPrecondition(errors.New("plain")) {
		t.Error("plain errors are not preconditions")
	}

	detailed := NewPreconditionError("select_topic", ErrUnknownTopic).WithDetail(`"Space" is not available`)
	if !strings.Contains(detailed.Error(), `"Space" is not available`) {
		t.Errorf("detail missing from %q", detailed.Error())
	}
}

func TestClassificationHelpers_PlainErrors(t *testing.T) {
	plain := errors.New("boom")
	if IsRetryable(plain) || IsUserFacing(plain) {
		t.Error("plain errors should not be classified")
	}
	if GetSeverity(plain) != SeverityError {
		t.Error("plain errors default to SeverityError")
	}
	if GetSeverity(nil) != SeverityDebug {
		t.Error("nil error should report SeverityDebug")
	}
	if IsRetryable(nil) || IsUserFacing(nil) {
		t.Error("nil should not be classified")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrapf(ErrNoSavedGame, "load %s", "kbc")
	if err.Error() != "load kbc: no saved game" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !Is(err, ErrNoSavedGame) {
		t.Error("wrapped error should match sentinel")
	}
}
