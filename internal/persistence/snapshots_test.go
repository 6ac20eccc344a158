package persistence

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/logging"
)

// mockStore is an in-memory Store whose operations can be overridden.
type mockStore struct {
	data map[string][]byte

	putFn    func(key string, data []byte) error
	deleteFn func(key string) error

	puts    int
	deletes int
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *mockStore) Put(_ context.Context, key string, data []byte) error {
	m.puts++
	if m.putFn != nil {
		if err := m.putFn(key, data); err != nil {
			return err
		}
	}
	m.data[key] = bytes.Clone(data)
	return nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	m.deletes++
	if m.deleteFn != nil {
		if err := m.deleteFn(key); err != nil {
			return err
		}
	}
	delete(m.data, key)
	return nil
}

func (m *mockStore) Close() error { return nil }

func playingState() game.State {
	s := game.NewState([]string{"Cricket", "Bollywood"})
	s.GamePhase = game.PhasePlaying
	s.Players = []game.Player{
		{ID: "p1", Name: "Asha", TeamID: game.Some("t1")},
		{ID: "p2", Name: "Ravi", TeamID: game.Some("t2")},
	}
	s.Teams = []game.Team{
		{ID: "t1", Name: "Chai Champions", PlayerIDs: []string{"p1"}, Score: 1, QuestionsAnswered: 1},
		{ID: "t2", Name: "Masala Mavericks", PlayerIDs: []string{"p2"}},
	}
	s.Turn.TeamIndex = 1
	return s
}

func TestSnapshots_SaveLoad(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			snaps := NewSnapshots(store, nil)

			if _, err := snaps.Load(ctx); !errors.Is(err, kbcerrors.ErrNoSavedGame) {
				t.Fatalf("Load on empty store = %v, want ErrNoSavedGame", err)
			}
			if snaps.Exists(ctx) {
				t.Error("Exists should be false before saving")
			}

			want := playingState()
			if err := snaps.Save(ctx, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if !snaps.Exists(ctx) {
				t.Error("Exists should be true after saving")
			}

			got, err := snaps.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.Turn.TeamIndex != 1 || got.Teams[0].Score != 1 || got.GamePhase != game.PhasePlaying {
				t.Errorf("loaded state = %+v", got)
			}

			if err := snaps.Clear(ctx); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			if snaps.Exists(ctx) {
				t.Error("Exists should be false after Clear")
			}
		})
	}
}

func TestSnapshots_SaveClearsAndRetriesOnce(t *testing.T) {
	store := newMockStore()
	store.data[SnapshotKey] = []byte("old")
	failures := 1
	store.putFn = func(string, []byte) error {
		if failures > 0 {
			failures--
			return errors.New("quota exceeded")
		}
		return nil
	}

	snaps := NewSnapshots(store, nil)
	if err := snaps.Save(context.Background(), playingState()); err != nil {
		t.Fatalf("Save should succeed on retry, got %v", err)
	}
	if store.puts != 2 || store.deletes != 1 {
		t.Errorf("puts = %d, deletes = %d; want 2 and 1", store.puts, store.deletes)
	}
	if string(store.data[SnapshotKey]) == "old" {
		t.Error("snapshot was not replaced")
	}
}

func TestSnapshots_SaveDropsAfterSecondFailure(t *testing.T) {
	var logBuf bytes.Buffer
	store := newMockStore()
	store.putFn = func(string, []byte) error { return errors.New("disk full") }

	snaps := NewSnapshots(store, logging.NewWriterLogger(&logBuf, logging.LevelDebug))
	err := snaps.Save(context.Background(), playingState())

	var fault *kbcerrors.PersistenceFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected PersistenceFault, got %v", err)
	}
	if !errors.Is(err, kbcerrors.ErrSnapshotWrite) {
		t.Error("fault should match ErrSnapshotWrite")
	}
	if store.puts != 2 {
		t.Errorf("puts = %d, want exactly 2", store.puts)
	}
	if !strings.Contains(logBuf.String(), "snapshot dropped") {
		t.Errorf("drop not logged: %s", logBuf.String())
	}
}

func TestSnapshots_LoadDiscardsCorruption(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{{{"},
		{"wrong version", `{"formatVersion":99,"gamePhase":"playing"}`},
		{"unknown phase", `{"formatVersion":1,"gamePhase":"bonus_round"}`},
		{"roster mismatch", `{"formatVersion":1,"gamePhase":"playing","players":[],"teams":[{"id":"t1","playerIds":["ghost"]}]}`},
		{"turn out of range", `{"formatVersion":1,"gamePhase":"playing","players":[],"teams":[{"id":"t1","playerIds":[]}],"currentTurn":{"teamIndex":3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			store.data[SnapshotKey] = []byte(tt.data)
			snaps := NewSnapshots(store, nil)

			_, err := snaps.Load(context.Background())
			if !errors.Is(err, kbcerrors.ErrSnapshotCorrupted) {
				t.Errorf("error = %v, want ErrSnapshotCorrupted", err)
			}
			if !errors.Is(err, kbcerrors.ErrNoSavedGame) {
				t.Error("corruption should read as no saved game")
			}
			if _, ok := store.data[SnapshotKey]; ok {
				t.Error("corrupted snapshot was not discarded")
			}
		})
	}
}

func TestDecodeSnapshot_FillsHotSeatHistory(t *testing.T) {
	state, err := DecodeSnapshot([]byte(`{"formatVersion":1,"gamePhase":"setup","hotSeatHistory":null}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if state.HotSeatHistory == nil {
		t.Error("HotSeatHistory should never be nil after decoding")
	}
}
