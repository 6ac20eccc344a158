package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shubham-0921/kbc-ai/internal/persistence"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved game",
	Long: `Delete the saved game so the next 'kbc play' starts fresh. Refuses to
run while a game is being played from the same state directory.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := openRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	lock := persistence.NewGameLock(rt.stateDir)
	if err := lock.TryLock(); err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	if !rt.snapshots.Exists(cmd.Context()) {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved game")
		return nil
	}
	if err := rt.snapshots.Clear(cmd.Context()); err != nil {
		return err
	}
	rt.logger.Info("saved game discarded")
	fmt.Fprintln(cmd.OutOrStdout(), "Saved game discarded")
	return nil
}
