package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/logging"
)

// watchDebounce absorbs the create+rename pair an atomic write produces.
const watchDebounce = 50 * time.Millisecond

// Watcher follows a file-backed snapshot and reports every new version.
// It watches the directory rather than the file because atomic writes
// replace the file's inode.
type Watcher struct {
	store   *FileStore
	path    string
	watcher *fsnotify.Watcher
	logger  *logging.Logger
}

// NewWatcher starts watching the snapshot inside store's directory.
func NewWatcher(store *FileStore, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(store.Dir()); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", store.Dir(), err)
	}
	return &Watcher{
		store:   store,
		path:    filepath.Clean(store.Path(SnapshotKey)),
		watcher: fw,
		logger:  logger.WithComponent("watcher"),
	}, nil
}

// Run calls onChange with each decoded snapshot until ctx is done. A
// removed snapshot is reported with ok false. Snapshots that fail to decode
// are logged and skipped.
func (w *Watcher) Run(ctx context.Context, onChange func(state game.State, ok bool)) error {
	defer func() { _ = w.watcher.Close() }()

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			dirty = true
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			if !dirty {
				continue
			}
			dirty = false
			w.emit(ctx, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err.Error())
		}
	}
}

func (w *Watcher) emit(ctx context.Context, onChange func(game.State, bool)) {
	data, ok, err := w.store.Get(ctx, SnapshotKey)
	if err != nil {
		w.logger.Warn("reading snapshot failed", "error", err.Error())
		return
	}
	if !ok {
		onChange(game.State{}, false)
		return
	}
	state, err := DecodeSnapshot(data)
	if err != nil {
		w.logger.Warn("skipping unreadable snapshot", "error", err.Error())
		return
	}
	onChange(state, true)
}
