package game

import "time"

// Phase is the game-level phase.
type Phase string

const (
	// PhaseHome is the landing state; nothing is persisted here.
	PhaseHome Phase = "home"

	// PhaseSetup is roster entry and configuration.
	PhaseSetup Phase = "setup"

	// PhaseTeamDisplay shows the formed teams before play starts.
	PhaseTeamDisplay Phase = "team_display"

	// PhasePlaying is active gameplay; turn phases apply only here.
	PhasePlaying Phase = "playing"

	// PhaseResults is reached automatically once every team has answered its quota.
	PhaseResults Phase = "results"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// IsValid returns true if this is a recognized phase value.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseHome, PhaseSetup, PhaseTeamDisplay, PhasePlaying, PhaseResults:
		return true
	default:
		return false
	}
}

// TurnPhase is the phase within a single team's turn.
type TurnPhase string

const (
	// TurnTopicSelection waits for the team on turn to pick a topic.
	TurnTopicSelection TurnPhase = "topic_selection"

	// TurnAnswering covers question generation and the answer window.
	TurnAnswering TurnPhase = "answering"

	// TurnReveal shows the correct answer before the next turn.
	TurnReveal TurnPhase = "reveal"
)

// String returns the string representation of the turn phase.
func (p TurnPhase) String() string {
	return string(p)
}

// OptionCount is the number of answer options on every question.
const OptionCount = 4

// AnswerLabels are the display labels for answer options.
var AnswerLabels = [OptionCount]string{"A", "B", "C", "D"}

// Player is a participant on the roster.
type Player struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	TeamID Option[string] `json:"teamId"`
}

// ColorScheme is a team's visual identity tag. It carries no behavior.
type ColorScheme struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Team is a group of players competing together.
type Team struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	ColorScheme       ColorScheme `json:"colorScheme"`
	PlayerIDs         []string    `json:"playerIds"`
	Score             int         `json:"score"`
	QuestionsAnswered int         `json:"questionsAnswered"`
}

// Config holds per-game settings.
type Config struct {
	QuestionsPerTeam int `json:"questionsPerTeam"`
	// TimerLength is advisory; the engine never enforces it.
	TimerLength int `json:"timerLength"`
}

// Default game settings.
const (
	DefaultQuestionsPerTeam = 5
	DefaultTimerLength      = 30
)

// DefaultConfig returns the default game settings.
func DefaultConfig() Config {
	return Config{
		QuestionsPerTeam: DefaultQuestionsPerTeam,
		TimerLength:      DefaultTimerLength,
	}
}

// TimerDuration returns the advisory answer timer as a time.Duration.
func (c Config) TimerDuration() time.Duration {
	return time.Duration(c.TimerLength) * time.Second
}

// Turn tracks whose turn it is and where in the turn we are.
type Turn struct {
	TeamIndex int `json:"teamIndex"`
	// QuestionIndex counts resolved questions; advisory only.
	QuestionIndex int       `json:"questionIndex"`
	Phase         TurnPhase `json:"phase"`
}

// Question is a generated multiple-choice question owned by one team.
type Question struct {
	ID           string              `json:"id"`
	Topic        string              `json:"topic"`
	Text         string              `json:"question"`
	Options      [OptionCount]string `json:"options"`
	CorrectIndex int                 `json:"correctIndex"`
	Explanation  string              `json:"explanation"`
	TeamID       string              `json:"teamId"`
	GeneratedAt  time.Time           `json:"generatedAt"`
}

// CorrectOption returns the text of the correct answer.
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// Lifelines records which aids were used on the current question.
type Lifelines struct {
	PhoneAFriend bool `json:"phoneAFriend"`
	AudiencePoll bool `json:"audiencePoll"`
}

// QuestionResult is one resolved question in the history.
type QuestionResult struct {
	QuestionID string        `json:"questionId"`
	TeamID     string        `json:"teamId"`
	Topic      string        `json:"topic"`
	Selected   Option[int]   `json:"selectedIndex"`
	Correct    bool          `json:"isCorrect"`
	TimeSpent  time.Duration `json:"timeSpent"`
	Timestamp  time.Time     `json:"timestamp"`
}

// HotSeatHistory maps a team ID to the player IDs already called this cycle.
type HotSeatHistory map[string][]string
