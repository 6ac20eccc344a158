package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/orchestrator"
)

// questionMsg carries the outcome of an asynchronous topic selection.
type questionMsg struct {
	question game.Question
	err      error
}

// tickMsg drives the answer timer. Ticks whose id no longer matches the
// model's timerID belong to an earlier question and are dropped.
type tickMsg struct {
	id int
}

// selectTopic runs the blocking selection off the event loop.
func selectTopic(ctx context.Context, engine *orchestrator.Engine, topic string) tea.Cmd {
	return func() tea.Msg {
		q, err := engine.SelectTopic(ctx, topic)
		return questionMsg{question: q, err: err}
	}
}

func tick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}
