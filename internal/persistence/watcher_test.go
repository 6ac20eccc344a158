package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shubham-0921/kbc-ai/internal/game"
)

type watchUpdate struct {
	state game.State
	ok    bool
}

func startWatcher(t *testing.T) (*FileStore, <-chan watchUpdate) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(store, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan watchUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(state game.State, ok bool) {
			updates <- watchUpdate{state: state, ok: ok}
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return store, updates
}

func waitUpdate(t *testing.T, updates <-chan watchUpdate) watchUpdate {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a snapshot update")
		return watchUpdate{}
	}
}

func TestWatcher_ReportsSavesAndClears(t *testing.T) {
	store, updates := startWatcher(t)
	snaps := NewSnapshots(store, nil)
	ctx := context.Background()

	if err := snaps.Save(ctx, playingState()); err != nil {
		t.Fatal(err)
	}
	u := waitUpdate(t, updates)
	if !u.ok || u.state.GamePhase != game.PhasePlaying {
		t.Errorf("update = %+v, want the saved playing state", u)
	}

	if err := snaps.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if u := waitUpdate(t, updates); u.ok {
		t.Error("clear should be reported with ok false")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	store, updates := startWatcher(t)

	if err := os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case u := <-updates:
		t.Errorf("unexpected update %+v", u)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_SkipsUnreadableSnapshot(t *testing.T) {
	store, updates := startWatcher(t)

	if err := os.WriteFile(store.Path(SnapshotKey), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case u := <-updates:
		t.Errorf("unreadable snapshot produced update %+v", u)
	case <-time.After(200 * time.Millisecond):
	}

	if err := NewSnapshots(store, nil).Save(context.Background(), playingState()); err != nil {
		t.Fatal(err)
	}
	if u := waitUpdate(t, updates); !u.ok {
		t.Error("valid snapshot after garbage should be reported")
	}
}
