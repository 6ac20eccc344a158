package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/logging"
)

// Snapshots saves and restores the single game snapshot.
type Snapshots struct {
	store  Store
	key    string
	logger *logging.Logger
}

// NewSnapshots wraps store. A nil logger discards output.
func NewSnapshots(store Store, logger *logging.Logger) *Snapshots {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Snapshots{
		store:  store,
		key:    SnapshotKey,
		logger: logger.WithComponent("persistence"),
	}
}

// Save writes state. If the write fails, any previous snapshot is cleared
// and the write is retried once; a second failure is logged and returned as
// a *errors.PersistenceFault for the caller to drop.
func (s *Snapshots) Save(ctx context.Context, state game.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return kbcerrors.NewPersistenceFault("save", s.key, fmt.Errorf("encode snapshot: %w", err))
	}

	firstErr := s.store.Put(ctx, s.key, data)
	if firstErr == nil {
		return nil
	}

	s.logger.Warn("snapshot write failed, clearing and retrying", "key", s.key, "error", firstErr.Error())
	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Warn("snapshot clear failed", "key", s.key, "error", err.Error())
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		fault := kbcerrors.NewPersistenceFault("save", s.key, err)
		s.logger.Error("snapshot dropped", "key", s.key, "error", fault.Error())
		return fault
	}
	return nil
}

// Load returns the saved state. A missing snapshot yields
// errors.ErrNoSavedGame. An unreadable one is deleted and reported as a
// *errors.PersistenceCorruption that also matches ErrNoSavedGame.
func (s *Snapshots) Load(ctx context.Context) (game.State, error) {
	data, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return game.State{}, kbcerrors.NewPersistenceFault("load", s.key, err)
	}
	if !ok {
		return game.State{}, kbcerrors.ErrNoSavedGame
	}

	state, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Warn("discarding corrupted snapshot", "key", s.key, "error", err.Error())
		if delErr := s.store.Delete(ctx, s.key); delErr != nil {
			s.logger.Warn("snapshot clear failed", "key", s.key, "error", delErr.Error())
		}
		return game.State{}, kbcerrors.NewPersistenceCorruption(s.key, kbcerrors.Join(kbcerrors.ErrNoSavedGame, err))
	}
	return state, nil
}

// Exists reports whether a snapshot is stored. It does not validate it.
func (s *Snapshots) Exists(ctx context.Context) bool {
	_, ok, err := s.store.Get(ctx, s.key)
	return err == nil && ok
}

// Clear removes the snapshot.
func (s *Snapshots) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return kbcerrors.NewPersistenceFault("clear", s.key, err)
	}
	return nil
}

// DecodeSnapshot parses and sanity-checks a stored snapshot.
func DecodeSnapshot(data []byte) (game.State, error) {
	var state game.State
	if err := json.Unmarshal(data, &state); err != nil {
		return game.State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.FormatVersion != game.FormatVersion {
		return game.State{}, fmt.Errorf("snapshot format %d, want %d", state.FormatVersion, game.FormatVersion)
	}
	if !state.GamePhase.IsValid() {
		return game.State{}, fmt.Errorf("snapshot has unknown phase %q", state.GamePhase)
	}
	if err := game.CheckRoster(state.Players, state.Teams); err != nil {
		return game.State{}, err
	}
	if len(state.Teams) > 0 && (state.Turn.TeamIndex < 0 || state.Turn.TeamIndex >= len(state.Teams)) {
		return game.State{}, fmt.Errorf("snapshot turn index %d out of range", state.Turn.TeamIndex)
	}
	if state.HotSeatHistory == nil {
		state.HotSeatHistory = game.HotSeatHistory{}
	}
	return state, nil
}
