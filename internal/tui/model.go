package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/orchestrator"
	"github.com/shubham-0921/kbc-ai/internal/team"
	"github.com/shubham-0921/kbc-ai/internal/tui/styles"
)

// Model is the Bubbletea model for a game. It never holds game rules of its
// own: every key press maps to one engine action and the view is rendered
// from the engine's state afterwards.
type Model struct {
	engine *orchestrator.Engine
	ctx    context.Context
	now    func() time.Time

	state game.State
	saved game.Option[game.State]

	// Setup
	input    textinput.Model
	numTeams int

	// Topic selection
	cursor     int
	generating bool
	spinner    spinner.Model

	// Answer timer
	questionStart time.Time
	timerID       int

	errorMsg string
	infoMsg  string

	width    int
	height   int
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithSavedGame offers state for resuming from the home screen.
func WithSavedGame(state game.State) ModelOption {
	return func(m *Model) {
		m.saved = game.Some(state)
	}
}

// WithTeamCount sets the team count suggested during setup.
func WithTeamCount(n int) ModelOption {
	return func(m *Model) {
		if n >= team.MinTeams && n <= team.MaxTeams {
			m.numTeams = n
		}
	}
}

// WithModelClock overrides the clock used for answer timing.
func WithModelClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel creates a Model driving engine.
func NewModel(engine *orchestrator.Engine, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "Asha, Bilal, Chitra, Dev"
	ti.CharLimit = 512
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Primary

	m := Model{
		engine:   engine,
		ctx:      context.Background(),
		now:      time.Now,
		input:    ti,
		numTeams: team.MinTeams,
		spinner:  sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	if m.hasQuestion() {
		m.questionStart = m.now()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.hasQuestion() && m.state.Config.TimerLength > 0 {
		cmds = append(cmds, tick(m.timerID))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		// Pick up the hot seat chosen by the in-flight selection.
		m.refresh()
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case questionMsg:
		return m.handleQuestion(msg)

	case tickMsg:
		return m.handleTick(msg)

	case tea.KeyMsg:
		m.errorMsg = ""
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKeypress(msg)
	}

	if m.state.GamePhase == game.PhaseSetup {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh reloads the engine state and keeps view-local cursors in range.
func (m *Model) refresh() {
	m.state = m.engine.State()
	if m.cursor >= len(m.state.AvailableTopics) {
		m.cursor = max(0, len(m.state.AvailableTopics)-1)
	}
	if m.state.GamePhase == game.PhaseSetup {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) fail(err error) {
	m.errorMsg = err.Error()
}

func (m Model) hasQuestion() bool {
	return m.state.GamePhase == game.PhasePlaying &&
		m.state.Turn.Phase == game.TurnAnswering &&
		m.state.CurrentQuestion.IsSome()
}

// startQuestion resets the answer clock and arms the timer when the game
// has one. Ticks from a previous question are invalidated.
func (m *Model) startQuestion() tea.Cmd {
	m.timerID++
	m.questionStart = m.now()
	if m.state.Config.TimerLength <= 0 {
		return nil
	}
	return tick(m.timerID)
}

func (m *Model) elapsed() time.Duration {
	return m.now().Sub(m.questionStart)
}

func (m *Model) remaining() time.Duration {
	left := m.state.Config.TimerDuration() - m.elapsed()
	if left < 0 {
		return 0
	}
	return left.Round(time.Second)
}

func (m Model) handleQuestion(msg questionMsg) (tea.Model, tea.Cmd) {
	m.generating = false
	m.refresh()
	if kbcerrors.Is(msg.err, kbcerrors.ErrSelectionAbandoned) {
		return m, nil
	}
	if msg.err != nil {
		m.errorMsg = "Could not get a question: " + msg.err.Error()
		return m, nil
	}
	return m, m.startQuestion()
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.timerID || !m.hasQuestion() {
		return m, nil
	}
	if m.remaining() > 0 {
		return m, tick(m.timerID)
	}
	m.submit(game.None[int]())
	m.infoMsg = "Time's up!"
	return m, nil
}

func (m *Model) submit(selected game.Option[int]) {
	if err := m.engine.SubmitAnswer(selected, m.elapsed()); err != nil {
		m.fail(err)
		return
	}
	m.timerID++
	m.refresh()
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.infoMsg = ""

	switch m.state.GamePhase {
	case game.PhaseHome:
		return m.handleHomeKeypress(msg)
	case game.PhaseSetup:
		return m.handleSetupKeypress(msg)
	case game.PhaseTeamDisplay:
		return m.handleTeamDisplayKeypress(msg)
	case game.PhasePlaying:
		return m.handlePlayingKeypress(msg)
	case game.PhaseResults:
		return m.handleResultsKeypress(msg)
	}
	return m, nil
}

func (m Model) handleHomeKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "r":
		saved, ok := m.saved.Get()
		if !ok {
			return m, nil
		}
		m.engine.Restore(saved)
		m.saved = game.None[game.State]()
		m.refresh()
		if m.hasQuestion() {
			return m, m.startQuestion()
		}

	case "n", "enter":
		if err := m.engine.StartSetup(); err != nil {
			m.fail(err)
			return m, nil
		}
		m.saved = game.None[game.State]()
		m.refresh()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleSetupKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.engine.ResetGame()
		m.refresh()
		return m, nil

	case "tab":
		m.numTeams++
		if m.numTeams > team.MaxTeams {
			m.numTeams = team.MinTeams
		}
		return m, nil

	case "enter":
		if err := m.engine.FormTeams(parseNames(m.input.Value()), m.numTeams); err != nil {
			m.fail(err)
			return m, nil
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleTeamDisplayKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.engine.ResetGame()

	case "s":
		if err := m.engine.ReshuffleTeams(); err != nil {
			m.fail(err)
			return m, nil
		}
		m.infoMsg = "Teams reshuffled"

	case "enter":
		// A zero config starts with the configured defaults.
		if err := m.engine.StartGame(game.Config{}); err != nil {
			m.fail(err)
			return m, nil
		}
		m.cursor = 0
	}
	m.refresh()
	return m, nil
}

func (m Model) handlePlayingKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.generating {
		return m, nil
	}

	switch m.state.Turn.Phase {
	case game.TurnTopicSelection:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.state.AvailableTopics)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.state.AvailableTopics) == 0 {
				return m, nil
			}
			topic := m.state.AvailableTopics[m.cursor]
			m.generating = true
			return m, tea.Batch(m.spinner.Tick, selectTopic(m.ctx, m.engine, topic))
		}

	case game.TurnAnswering:
		key := msg.String()
		if idx, ok := answerIndex(key); ok {
			m.submit(game.Some(idx))
			return m, nil
		}
		switch key {
		case "p":
			if err := m.engine.UsePhoneAFriend(); err != nil {
				m.fail(err)
				return m, nil
			}
			m.refresh()
		case "v":
			if _, err := m.engine.UseAudiencePoll(); err != nil {
				m.fail(err)
				return m, nil
			}
			m.refresh()
		}

	case game.TurnReveal:
		if msg.String() != "enter" && msg.String() != " " {
			return m, nil
		}
		result, err := m.engine.NextTurn()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.refresh()
		m.cursor = 0
		if t, ok := m.state.TeamByID(result.TeamID); ok {
			if result.Correct {
				m.infoMsg = fmt.Sprintf("%s scored a point", t.Name)
			} else {
				m.infoMsg = fmt.Sprintf("No point for %s", t.Name)
			}
		}
	}
	return m, nil
}

func (m Model) handleResultsKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "r":
		if err := m.engine.ReplayWithSameTeams(); err != nil {
			m.fail(err)
			return m, nil
		}
		m.cursor = 0
	case "n":
		m.engine.ResetGame()
	}
	m.refresh()
	return m, nil
}

// answerIndex maps a-d and 1-4 to an option index.
func answerIndex(key string) (int, bool) {
	switch strings.ToLower(key) {
	case "a", "1":
		return 0, true
	case "b", "2":
		return 1, true
	case "c", "3":
		return 2, true
	case "d", "4":
		return 3, true
	}
	return 0, false
}

// parseNames splits roster input on commas and newlines. Blank entries are
// left for the team service to drop.
func parseNames(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n'
	})
}
