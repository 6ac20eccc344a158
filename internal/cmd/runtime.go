package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/shubham-0921/kbc-ai/internal/config"
	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/logging"
	"github.com/shubham-0921/kbc-ai/internal/persistence"
)

// gameRuntime bundles what every command that touches the saved game needs.
type gameRuntime struct {
	cfg       *config.Config
	stateDir  string
	logger    *logging.Logger
	store     persistence.Store
	snapshots *persistence.Snapshots
}

// loadConfig reads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openRuntime opens the logger and snapshot store for cfg.
func openRuntime(cfg *config.Config) (*gameRuntime, error) {
	rt := &gameRuntime{
		cfg:      cfg,
		stateDir: cfg.Persistence.ResolveStateDir(),
		logger:   logging.NopLogger(),
	}

	if cfg.Logging.Enabled {
		logger, err := logging.NewLogger(rt.stateDir, cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
		rt.logger = logger
	}

	store, err := persistence.Open(cfg.Persistence.Backend, rt.stateDir)
	if err != nil {
		_ = rt.logger.Close()
		return nil, fmt.Errorf("failed to open saved game store: %w", err)
	}
	rt.store = store
	rt.snapshots = persistence.NewSnapshots(store, rt.logger)
	return rt, nil
}

// savedGame returns the saved game, if any. A corrupted snapshot counts as
// none.
func (rt *gameRuntime) savedGame(ctx context.Context) (game.State, bool, error) {
	state, err := rt.snapshots.Load(ctx)
	switch {
	case err == nil:
		return state, true, nil
	case errors.Is(err, kbcerrors.ErrNoSavedGame):
		return game.State{}, false, nil
	default:
		return game.State{}, false, err
	}
}

func (rt *gameRuntime) Close() error {
	return errors.Join(rt.store.Close(), rt.logger.Close())
}
