package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shubham-0921/kbc-ai/internal/orchestrator"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
}

// New creates a new TUI application driving engine
func New(engine *orchestrator.Engine, opts ...ModelOption) *App {
	return &App{model: NewModel(engine, opts...)}
}

// Run starts the TUI application. It returns when the players quit or the
// process is signalled; an in-flight question request is canceled on exit.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.model.ctx = ctx

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// The saved game survives a signal; the caller flushes it after Run returns.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)

	return err
}
