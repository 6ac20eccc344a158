package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/persistence"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the saved game as it is played",
	Long: `Print the scoreboard each time the saved game changes, for example on a
second screen facing the audience. Requires the file persistence backend.
Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Persistence.Backend != persistence.BackendFile {
		return fmt.Errorf("kbc watch needs persistence.backend %q, got %q", persistence.BackendFile, cfg.Persistence.Backend)
	}

	rt, err := openRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	store, ok := rt.store.(*persistence.FileStore)
	if !ok {
		return errors.New("kbc watch needs a file-backed store")
	}
	watcher, err := persistence.NewWatcher(store, rt.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if state, ok, err := rt.savedGame(ctx); err == nil && ok {
		printGame(out, state)
	} else {
		fmt.Fprintln(out, "No saved game yet, waiting...")
	}

	err = watcher.Run(ctx, func(state game.State, ok bool) {
		fmt.Fprintf(out, "\n--- %s ---\n", time.Now().Format("15:04:05"))
		if !ok {
			fmt.Fprintln(out, "Saved game cleared")
			return
		}
		printGame(out, state)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
