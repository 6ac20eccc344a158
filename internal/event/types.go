package event

import (
	"time"

	"github.com/shubham-0921/kbc-ai/internal/game"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns "category.action", e.g. "turn.advanced".
	EventType() string
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypePhaseChanged     = "game.phase_changed"
	TypeGameCompleted    = "game.completed"
	TypeGameReset        = "game.reset"
	TypeTopicSelected    = "turn.topic_selected"
	TypeQuestionReady    = "turn.question_ready"
	TypeGenerationFailed = "turn.generation_failed"
	TypeLifelineUsed     = "turn.lifeline_used"
	TypeAnswerSubmitted  = "turn.answer_submitted"
	TypeTurnAdvanced     = "turn.advanced"
	TypeStateChanged     = "state.changed"
)

// Lifeline names carried by LifelineUsedEvent.
const (
	LifelinePhoneAFriend = "phone_a_friend"
	LifelineAudiencePoll = "audience_poll"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Game Events
// -----------------------------------------------------------------------------

// PhaseChangedEvent is emitted when the game-level phase changes.
type PhaseChangedEvent struct {
	baseEvent
	From game.Phase
	To   game.Phase
}

// NewPhaseChangedEvent creates a PhaseChangedEvent.
func NewPhaseChangedEvent(from, to game.Phase) PhaseChangedEvent {
	return PhaseChangedEvent{
		baseEvent: newBaseEvent(TypePhaseChanged),
		From:      from,
		To:        to,
	}
}

// GameCompletedEvent is emitted when the last team answers its quota.
type GameCompletedEvent struct {
	baseEvent
	Leaderboard []game.Team // Highest score first
}

// NewGameCompletedEvent creates a GameCompletedEvent.
func NewGameCompletedEvent(leaderboard []game.Team) GameCompletedEvent {
	return GameCompletedEvent{
		baseEvent:   newBaseEvent(TypeGameCompleted),
		Leaderboard: leaderboard,
	}
}

// Winner returns the first leaderboard entry.
func (e GameCompletedEvent) Winner() (game.Team, bool) {
	if len(e.Leaderboard) == 0 {
		return game.Team{}, false
	}
	return e.Leaderboard[0], true
}

// GameResetEvent is emitted when the game returns to home and any saved
// game should be discarded.
type GameResetEvent struct {
	baseEvent
}

// NewGameResetEvent creates a GameResetEvent.
func NewGameResetEvent() GameResetEvent {
	return GameResetEvent{baseEvent: newBaseEvent(TypeGameReset)}
}

// StateChangedEvent carries the committed state after every transition.
// State is a private copy; handlers may keep it.
type StateChangedEvent struct {
	baseEvent
	State game.State
}

// NewStateChangedEvent creates a StateChangedEvent.
func NewStateChangedEvent(state game.State) StateChangedEvent {
	return StateChangedEvent{
		baseEvent: newBaseEvent(TypeStateChanged),
		State:     state,
	}
}

// -----------------------------------------------------------------------------
// Turn Events
// -----------------------------------------------------------------------------

// TopicSelectedEvent is emitted when a team picks a topic, before the
// question arrives.
type TopicSelectedEvent struct {
	baseEvent
	TeamID  string
	Topic   string
	HotSeat game.Player
}

// NewTopicSelectedEvent creates a TopicSelectedEvent.
func NewTopicSelectedEvent(teamID, topic string, hotSeat game.Player) TopicSelectedEvent {
	return TopicSelectedEvent{
		baseEvent: newBaseEvent(TypeTopicSelected),
		TeamID:    teamID,
		Topic:     topic,
		HotSeat:   hotSeat,
	}
}

// QuestionReadyEvent is emitted when a generated question is stored.
type QuestionReadyEvent struct {
	baseEvent
	Question game.Question
}

// NewQuestionReadyEvent creates a QuestionReadyEvent.
func NewQuestionReadyEvent(q game.Question) QuestionReadyEvent {
	return QuestionReadyEvent{
		baseEvent: newBaseEvent(TypeQuestionReady),
		Question:  q,
	}
}

// GenerationFailedEvent is emitted when question generation gives up and
// the topic selection is rolled back.
type GenerationFailedEvent struct {
	baseEvent
	TeamID string
	Topic  string
	Err    error
}

// NewGenerationFailedEvent creates a GenerationFailedEvent.
func NewGenerationFailedEvent(teamID, topic string, err error) GenerationFailedEvent {
	return GenerationFailedEvent{
		baseEvent: newBaseEvent(TypeGenerationFailed),
		TeamID:    teamID,
		Topic:     topic,
		Err:       err,
	}
}

// LifelineUsedEvent is emitted when a lifeline is spent. Lifeline is one of
// the Lifeline* names; Poll is set for the audience poll only.
type LifelineUsedEvent struct {
	baseEvent
	TeamID   string
	Lifeline string
	Poll     game.Option[[game.OptionCount]int]
}

// NewLifelineUsedEvent creates a LifelineUsedEvent.
func NewLifelineUsedEvent(teamID, lifeline string, poll game.Option[[game.OptionCount]int]) LifelineUsedEvent {
	return LifelineUsedEvent{
		baseEvent: newBaseEvent(TypeLifelineUsed),
		TeamID:    teamID,
		Lifeline:  lifeline,
		Poll:      poll,
	}
}

// AnswerSubmittedEvent is emitted when the hot seat locks in an answer or
// runs out of time.
type AnswerSubmittedEvent struct {
	baseEvent
	TeamID    string
	Selected  game.Option[int]
	TimeSpent time.Duration
}

// NewAnswerSubmittedEvent creates an AnswerSubmittedEvent.
func NewAnswerSubmittedEvent(teamID string, selected game.Option[int], spent time.Duration) AnswerSubmittedEvent {
	return AnswerSubmittedEvent{
		baseEvent: newBaseEvent(TypeAnswerSubmitted),
		TeamID:    teamID,
		Selected:  selected,
		TimeSpent: spent,
	}
}

// TurnAdvancedEvent is emitted when a revealed question is scored.
type TurnAdvancedEvent struct {
	baseEvent
	Result     game.QuestionResult
	NextTeamID string // Empty when the game just completed
}

// NewTurnAdvancedEvent creates a TurnAdvancedEvent.
func NewTurnAdvancedEvent(result game.QuestionResult, nextTeamID string) TurnAdvancedEvent {
	return TurnAdvancedEvent{
		baseEvent:  newBaseEvent(TypeTurnAdvanced),
		Result:     result,
		NextTeamID: nextTeamID,
	}
}
