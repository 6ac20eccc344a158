package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shubham-0921/kbc-ai/internal/config"
	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/logging"
	"github.com/shubham-0921/kbc-ai/internal/orchestrator"
	"github.com/shubham-0921/kbc-ai/internal/persistence"
	"github.com/shubham-0921/kbc-ai/internal/question"
	"github.com/shubham-0921/kbc-ai/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or resume a game",
	Long: `Start a game in the terminal. If a saved game exists you are offered
to resume it from the home screen.

Questions are generated by an OpenAI-compatible chat API. Set
KBC_GENERATION_API_KEY or GROQ_API_KEY, or generation.api_key in the config
file, before playing.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("kbc play needs an interactive terminal")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	topics, err := cfg.Game.Topics()
	if err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
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

	opts := []orchestrator.Option{
		orchestrator.WithTopics(topics),
		orchestrator.WithConfig(cfg.Game.Settings()),
		orchestrator.WithLogger(rt.logger),
	}
	generator, err := newGenerator(cfg, rt.logger)
	switch {
	case err == nil:
		opts = append(opts, orchestrator.WithGenerator(generator))
	case errors.Is(err, kbcerrors.ErrNotConfigured):
		// Play still starts; picking a topic reports the missing credential.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	default:
		return err
	}

	engine := orchestrator.New(opts...)
	scheduler := persistence.NewScheduler(rt.snapshots, cfg.Persistence.Debounce(),
		persistence.WithSchedulerLogger(rt.logger))
	scheduler.Attach(engine.Bus())
	defer scheduler.Close(context.Background())

	modelOpts := []tui.ModelOption{tui.WithTeamCount(cfg.Game.NumTeams)}
	saved, ok, err := rt.savedGame(cmd.Context())
	if err != nil {
		rt.logger.Warn("saved game unavailable", "error", err.Error())
	}
	if ok {
		modelOpts = append(modelOpts, tui.WithSavedGame(saved))
	}

	rt.logger.Info("kbc started", "backend", cfg.Persistence.Backend, "resumable", ok)
	if err := tui.New(engine, modelOpts...).Run(cmd.Context()); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newGenerator builds the question client from the generation settings.
func newGenerator(cfg *config.Config, logger *logging.Logger) (*question.Client, error) {
	gen := cfg.Generation
	provider, err := question.NewChatClient(gen.APIKey,
		question.WithBaseURL(gen.BaseURL),
		question.WithModel(gen.Model),
		question.WithTemperature(gen.Temperature),
		question.WithTimeout(gen.Timeout()),
	)
	if err != nil {
		return nil, err
	}
	return question.NewClient(provider,
		question.WithMaxAttempts(gen.MaxAttempts),
		question.WithBaseDelay(gen.RetryDelay()),
		question.WithLogger(logger),
	), nil
}
