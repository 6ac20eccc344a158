package orchestrator

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/event"
	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/lifeline"
	"github.com/shubham-0921/kbc-ai/internal/logging"
	"github.com/shubham-0921/kbc-ai/internal/team"
)

// Generator produces a question for a topic. *question.Client implements it.
type Generator interface {
	Generate(ctx context.Context, topic string) (game.Question, error)
}

// TeamFormer partitions a roster into teams. *team.Service implements it.
type TeamFormer interface {
	NewPlayers(names []string) ([]game.Player, error)
	CreateTeams(players []game.Player, numTeams int) ([]game.Team, []game.Player, error)
	ShuffleTeams(players []game.Player, numTeams int) ([]game.Team, []game.Player, error)
}

// PollSource draws audience poll results. *lifeline.PollGenerator
// implements it.
type PollSource interface {
	Generate(correctIndex int) ([game.OptionCount]int, error)
}

// Engine owns the canonical game state. Every action validates its
// preconditions and applies a transition under one mutex; events are
// published after the mutex is released, in commit order.
//
// Event handlers run synchronously on the acting goroutine and must not
// call back into the Engine; events carry everything a handler needs.
type Engine struct {
	mu    sync.Mutex
	state game.State

	// selecting is set while a SelectTopic call awaits its question.
	selecting bool
	// epoch changes on reset and restore; a selection that started in an
	// older epoch discards its result.
	epoch uint64

	// pubMu keeps publication in commit order across goroutines.
	pubMu sync.Mutex

	topics    []string
	config    game.Config
	rng       *rand.Rand
	now       func() time.Time
	bus       *event.Bus
	logger    *logging.Logger
	teams     TeamFormer
	polls     PollSource
	generator Generator
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source of randomness for hot-seat picks and, unless
// overridden, team formation and audience polls.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithClock sets the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithBus sets the bus state changes are published on.
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithTopics replaces the full topic list the pool is refilled from.
func WithTopics(topics []string) Option {
	return func(e *Engine) {
		e.topics = slices.Clone(topics)
	}
}

// WithTeamFormer replaces the team formation service.
func WithTeamFormer(t TeamFormer) Option {
	return func(e *Engine) {
		e.teams = t
	}
}

// WithPollSource replaces the audience poll generator.
func WithPollSource(p PollSource) Option {
	return func(e *Engine) {
		e.polls = p
	}
}

// WithGenerator sets the question generator. Without one, every topic
// selection fails with errors.ErrNotConfigured.
func WithGenerator(g Generator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithConfig sets the game settings StartGame uses when given a zero
// config.
func WithConfig(cfg game.Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// New creates an Engine in the home phase.
func New(opts ...Option) *Engine {
	e := &Engine{
		topics: slices.Clone(game.DefaultTopics),
		config: game.DefaultConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.bus == nil {
		e.bus = event.NewBus()
	}
	if e.logger == nil {
		e.logger = logging.NopLogger()
	}
	e.logger = e.logger.WithComponent("orchestrator")
	if e.teams == nil {
		e.teams = team.NewService(e.rng)
	}
	if e.polls == nil {
		e.polls = lifeline.NewPollGenerator(e.rng)
	}

	e.state = game.NewState(e.topics)
	e.state.Config = e.config
	return e
}

// Bus returns the bus the engine publishes on.
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

// Topics returns the full topic list.
func (e *Engine) Topics() []string {
	return slices.Clone(e.topics)
}

// State returns a deep copy of the current state.
func (e *Engine) State() game.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Selecting reports whether a topic selection is awaiting its question.
func (e *Engine) Selecting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selecting
}

// commit installs next as the current state and returns what must be
// published. It must be called with e.mu held; the caller publishes after
// unlocking via the returned function.
func (e *Engine) commit(next game.State, events ...event.Event) func() {
	prev := e.state.GamePhase
	e.state = next
	snapshot := next.Clone()

	e.pubMu.Lock()
	return func() {
		defer e.pubMu.Unlock()
		if prev != snapshot.GamePhase {
			e.bus.Publish(event.NewPhaseChangedEvent(prev, snapshot.GamePhase))
		}
		for _, ev := range events {
			e.bus.Publish(ev)
		}
		e.bus.Publish(event.NewStateChangedEvent(snapshot))
	}
}

// apply runs a transition that needs no collaborators. With newGame set, a
// successful transition also orphans any selection in flight, since the
// turn it was started for no longer exists.
func (e *Engine) apply(action string, newGame bool, fn func(game.State) (game.State, error)) error {
	e.mu.Lock()
	next, err := fn(e.state.Clone())
	if err != nil {
		e.mu.Unlock()
		e.logger.Debug("action rejected", "action", action, "error", err.Error())
		return err
	}
	if newGame {
		e.epoch++
		e.selecting = false
	}
	publish := e.commit(next)
	e.mu.Unlock()

	e.logger.Debug("action applied", "action", action, "phase", next.GamePhase.String())
	publish()
	return nil
}

// StartSetup moves from home to roster entry.
func (e *Engine) StartSetup() error {
	return e.apply("start_setup", false, startSetup)
}

// FormTeams builds players from names and splits them into numTeams
// teams. It may be called again from the team display to start over.
func (e *Engine) FormTeams(names []string, numTeams int) error {
	e.mu.Lock()
	if e.state.GamePhase != game.PhaseSetup && e.state.GamePhase != game.PhaseTeamDisplay {
		err := wrongPhase("form_teams", e.state)
		e.mu.Unlock()
		return err
	}
	players, err := e.teams.NewPlayers(names)
	if err == nil {
		var teams []game.Team
		teams, players, err = e.teams.CreateTeams(players, numTeams)
		if err == nil {
			return e.commitRoster(players, teams)
		}
	}
	e.mu.Unlock()
	e.logger.Warn("forming teams failed", "players", len(names), "teams", numTeams, "error", err.Error())
	return err
}

// ReshuffleTeams re-deals the current players into the same number of
// teams.
func (e *Engine) ReshuffleTeams() error {
	e.mu.Lock()
	if e.state.GamePhase != game.PhaseTeamDisplay {
		err := wrongPhase("reshuffle_teams", e.state)
		e.mu.Unlock()
		return err
	}
	teams, players, err := e.teams.ShuffleTeams(e.state.Players, len(e.state.Teams))
	if err != nil {
		e.mu.Unlock()
		return err
	}
	return e.commitRoster(players, teams)
}

// commitRoster is entered with e.mu held and releases it.
func (e *Engine) commitRoster(players []game.Player, teams []game.Team) error {
	next, err := formTeams(e.state.Clone(), players, teams)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	publish := e.commit(next)
	e.mu.Unlock()

	e.logger.Info("teams formed", "players", len(players), "teams", len(teams))
	publish()
	return nil
}

// InitializeGame starts play with an explicit roster, whatever the current
// phase.
func (e *Engine) InitializeGame(players []game.Player, teams []game.Team, cfg game.Config) error {
	players = slices.Clone(players)
	teams = cloneTeams(teams)
	err := e.apply("initialize_game", true, func(s game.State) (game.State, error) {
		return initializeGame(s, players, teams, cfg, e.topics)
	})
	if err == nil {
		e.logger.Info("game started", "teams", len(teams), "questions_per_team", cfg.QuestionsPerTeam)
	}
	return err
}

// StartGame starts play with the teams formed during setup. A zero config
// uses the engine's default settings.
func (e *Engine) StartGame(cfg game.Config) error {
	if cfg == (game.Config{}) {
		cfg = e.config
	}
	err := e.apply("start_game", true, func(s game.State) (game.State, error) {
		if s.GamePhase != game.PhaseTeamDisplay {
			return s, wrongPhase("start_game", s)
		}
		return initializeGame(s, s.Players, s.Teams, cfg, e.topics)
	})
	if err == nil {
		e.logger.Info("game started", "questions_per_team", cfg.QuestionsPerTeam)
	}
	return err
}

// SelectTopic picks the hot seat, claims topic and generates its question.
// The turn shows as answering with no question while generation runs; on
// failure the selection is rolled back and the error returned.
//
// Only one selection may be in flight; a second call fails with
// errors.ErrSelectionPending. A reset or restore while generation is
// running makes this call return errors.ErrSelectionAbandoned.
func (e *Engine) SelectTopic(ctx context.Context, topic string) (game.Question, error) {
	e.mu.Lock()
	if e.selecting {
		e.mu.Unlock()
		return game.Question{}, kbcerrors.NewPreconditionError("select_topic", kbcerrors.ErrSelectionPending)
	}
	next, err := beginSelection(e.state.Clone(), topic, e.rng)
	if err != nil {
		e.mu.Unlock()
		e.logger.Debug("action rejected", "action", "select_topic", "topic", topic, "error", err.Error())
		return game.Question{}, err
	}
	current, _ := next.CurrentTeam()
	hotSeat, _ := next.HotSeatPlayer.Get()
	e.selecting = true
	epoch := e.epoch
	publish := e.commit(next, event.NewTopicSelectedEvent(current.ID, topic, hotSeat))
	e.mu.Unlock()
	publish()

	logger := e.logger.WithTeam(current.Name).With("topic", topic)
	logger.Info("topic selected", "hot_seat", hotSeat.Name)

	q, genErr := e.generate(ctx, topic)

	e.mu.Lock()
	if e.epoch != epoch {
		e.mu.Unlock()
		logger.Info("selection abandoned")
		return game.Question{}, kbcerrors.NewPreconditionError("select_topic", kbcerrors.ErrSelectionAbandoned)
	}
	e.selecting = false

	if genErr != nil {
		rolled := rollbackSelection(e.state.Clone())
		publish := e.commit(rolled, event.NewGenerationFailedEvent(current.ID, topic, genErr))
		e.mu.Unlock()
		logger.Warn("question generation failed", "error", genErr.Error())
		publish()
		return game.Question{}, genErr
	}

	done, err := completeSelection(e.state.Clone(), q)
	if err != nil {
		e.mu.Unlock()
		return game.Question{}, err
	}
	stored, _ := done.CurrentQuestion.Get()
	publish = e.commit(done, event.NewQuestionReadyEvent(stored))
	e.mu.Unlock()
	logger.Debug("question ready", "question_id", stored.ID)
	publish()
	return stored, nil
}

func (e *Engine) generate(ctx context.Context, topic string) (game.Question, error) {
	if e.generator == nil {
		return game.Question{}, kbcerrors.NewGenerationError(topic, 0, kbcerrors.ErrNotConfigured)
	}
	return e.generator.Generate(ctx, topic)
}

// UsePhoneAFriend marks the phone-a-friend lifeline used. It has no other
// effect on play.
func (e *Engine) UsePhoneAFriend() error {
	e.mu.Lock()
	next, err := usePhoneAFriend(e.state.Clone())
	if err != nil {
		e.mu.Unlock()
		return err
	}
	current, _ := next.CurrentTeam()
	publish := e.commit(next, event.NewLifelineUsedEvent(current.ID, event.LifelinePhoneAFriend, game.None[[game.OptionCount]int]()))
	e.mu.Unlock()
	e.logger.Debug("lifeline used", "lifeline", event.LifelinePhoneAFriend)
	publish()
	return nil
}

// UseAudiencePoll draws poll results for the active question and returns
// them.
func (e *Engine) UseAudiencePoll() ([game.OptionCount]int, error) {
	e.mu.Lock()
	q, err := checkAudiencePoll(e.state)
	if err != nil {
		e.mu.Unlock()
		return [game.OptionCount]int{}, err
	}
	poll, err := e.polls.Generate(q.CorrectIndex)
	if err != nil {
		e.mu.Unlock()
		return [game.OptionCount]int{}, err
	}
	next, err := useAudiencePoll(e.state.Clone(), poll)
	if err != nil {
		e.mu.Unlock()
		return [game.OptionCount]int{}, err
	}
	current, _ := next.CurrentTeam()
	publish := e.commit(next, event.NewLifelineUsedEvent(current.ID, event.LifelineAudiencePoll, game.Some(poll)))
	e.mu.Unlock()
	e.logger.Debug("lifeline used", "lifeline", event.LifelineAudiencePoll)
	publish()
	return poll, nil
}

// SubmitAnswer records the hot seat's answer and reveals it. Pass
// game.None[int]() when the timer ran out.
func (e *Engine) SubmitAnswer(selected game.Option[int], timeSpent time.Duration) error {
	e.mu.Lock()
	next, err := submitAnswer(e.state.Clone(), selected, timeSpent)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	current, _ := next.CurrentTeam()
	publish := e.commit(next, event.NewAnswerSubmittedEvent(current.ID, selected, next.TimeSpent))
	e.mu.Unlock()
	e.logger.Debug("answer submitted", "team", current.Name)
	publish()
	return nil
}

// NextTurn scores the revealed answer and hands the turn to the next team,
// or ends the game when every team has answered its quota.
func (e *Engine) NextTurn() (game.QuestionResult, error) {
	e.mu.Lock()
	next, result, err := nextTurn(e.state.Clone(), e.topics, e.now())
	if err != nil {
		e.mu.Unlock()
		return game.QuestionResult{}, err
	}

	var events []event.Event
	if next.GamePhase == game.PhaseResults {
		events = append(events,
			event.NewTurnAdvancedEvent(result, ""),
			event.NewGameCompletedEvent(next.Leaderboard()))
	} else {
		upcoming, _ := next.CurrentTeam()
		events = append(events, event.NewTurnAdvancedEvent(result, upcoming.ID))
	}
	publish := e.commit(next, events...)
	e.mu.Unlock()

	e.logger.Debug("turn advanced", "correct", result.Correct, "phase", next.GamePhase.String())
	if next.GamePhase == game.PhaseResults {
		if winner, ok := next.Winner(); ok {
			e.logger.Info("game completed", "winner", winner.Name, "score", winner.Score)
		}
	}
	publish()
	return result, nil
}

// ResetGame abandons the game and returns home with an empty roster.
// Subscribers clear the saved game on the reset event.
func (e *Engine) ResetGame() {
	e.mu.Lock()
	e.epoch++
	e.selecting = false
	next := resetGame(e.state, e.topics)
	publish := e.commit(next, event.NewGameResetEvent())
	e.mu.Unlock()

	e.logger.Info("game reset")
	publish()
}

// ReplayWithSameTeams restarts play with the current teams and zeroed
// scores.
func (e *Engine) ReplayWithSameTeams() error {
	return e.apply("replay", true, func(s game.State) (game.State, error) {
		return replayWithSameTeams(s, e.topics)
	})
}

// Restore replaces the current state with a saved one. A snapshot taken
// while a question was being generated is rolled back to topic selection.
func (e *Engine) Restore(state game.State) {
	state = recoverPending(state.Clone())

	e.mu.Lock()
	e.epoch++
	e.selecting = false
	publish := e.commit(state)
	e.mu.Unlock()

	e.logger.Info("game restored", "phase", state.GamePhase.String())
	publish()
}

func cloneTeams(teams []game.Team) []game.Team {
	out := make([]game.Team, len(teams))
	for i, t := range teams {
		t.PlayerIDs = slices.Clone(t.PlayerIDs)
		out[i] = t
	}
	return out
}
