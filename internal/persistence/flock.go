package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

const lockFileName = "kbc.lock"

// ErrGameLocked is returned by TryLock when another process holds the game.
var ErrGameLocked = errors.New("another kbc process is running a game in this state directory")

// GameLock gives one process at a time ownership of a state directory, so
// two interactive games never overwrite each other's snapshot. It uses
// flock(2); the lock vanishes if the process dies.
type GameLock struct {
	path string
	file *os.File
}

// NewGameLock creates a lock for dir. Nothing is acquired yet.
func NewGameLock(dir string) *GameLock {
	return &GameLock{path: filepath.Join(dir, lockFileName)}
}

// TryLock acquires the lock without blocking. It returns ErrGameLocked when
// another process holds it.
func (l *GameLock) TryLock() error {
	if l.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrGameLocked
		}
		return fmt.Errorf("flock: %w", err)
	}

	l.file = f
	return nil
}

// Unlock releases the lock. It is safe to call when not held.
func (l *GameLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		_ = f.Close()
		return fmt.Errorf("funlock: %w", err)
	}
	return f.Close()
}
