package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/persistence"
	"github.com/shubham-0921/kbc-ai/internal/question"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved game and setup status",
	Long: `Display whether question generation is configured and summarize the
saved game, if there is one.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// timestamped is implemented by stores that record write times.
type timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := openRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()

	if question.ResolveAPIKey(cfg.Generation.APIKey) != "" {
		fmt.Fprintf(out, "Generation: configured (%s)\n", cfg.Generation.Model)
	} else {
		fmt.Fprintf(out, "Generation: not configured (set %s or %s)\n", question.EnvAPIKey, question.EnvGroqAPIKey)
	}
	fmt.Fprintf(out, "State dir: %s (%s)\n\n", rt.stateDir, cfg.Persistence.Backend)

	state, ok, err := rt.savedGame(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "No saved game")
		return nil
	}

	if saved, ok := savedAt(cmd.Context(), rt); ok {
		fmt.Fprintf(out, "Saved: %s\n", saved.Format("2006-01-02 15:04:05"))
	}
	printGame(out, state)
	return nil
}

// savedAt returns the last write time of the saved game.
func savedAt(ctx context.Context, rt *gameRuntime) (time.Time, bool) {
	switch s := rt.store.(type) {
	case timestamped:
		t, ok, err := s.UpdatedAt(ctx, persistence.SnapshotKey)
		return t, ok && err == nil
	case *persistence.FileStore:
		info, err := os.Stat(s.Path(persistence.SnapshotKey))
		if err != nil {
			return time.Time{}, false
		}
		return info.ModTime(), true
	}
	return time.Time{}, false
}

// printGame writes a plain-text summary of state.
func printGame(w io.Writer, state game.State) {
	fmt.Fprintf(w, "Phase: %s\n", state.GamePhase)
	if state.GamePhase == game.PhasePlaying {
		if current, ok := state.CurrentTeam(); ok {
			fmt.Fprintf(w, "Turn: %s (%s)\n", current.Name, state.Turn.Phase)
		}
	}
	fmt.Fprintf(w, "Questions played: %d\n", len(state.History))
	if len(state.Teams) == 0 {
		return
	}

	fmt.Fprintln(w)
	for i, t := range state.Leaderboard() {
		stats := t.Stats()
		fmt.Fprintf(w, "[%d] %s: %d/%d correct, %d players\n",
			i+1, t.Name, stats.Score, stats.QuestionsAnswered, stats.PlayerCount)
		for _, p := range state.TeamPlayers(t.ID) {
			fmt.Fprintf(w, "    %s\n", p.Name)
		}
	}
	if state.GamePhase == game.PhaseResults {
		if winner, ok := state.Winner(); ok {
			fmt.Fprintf(w, "\nWinner: %s\n", winner.Name)
		}
	}
}
