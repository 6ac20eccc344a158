package game

import (
	"fmt"
	"slices"
	"sort"
	"time"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
)

// FormatVersion is the persisted snapshot format. Bump it when State changes
// shape incompatibly.
const FormatVersion = 1

// State is the aggregate root of a game. It is a plain value: transitions take
// a State and return a new one, and Clone produces an independent copy.
type State struct {
	FormatVersion int `json:"formatVersion"`

	GamePhase Phase    `json:"gamePhase"`
	Players   []Player `json:"players"`
	Teams     []Team   `json:"teams"`
	Config    Config   `json:"config"`
	Turn      Turn     `json:"currentTurn"`

	AvailableTopics []string         `json:"availableTopics"`
	History         []QuestionResult `json:"questionHistory"`

	CurrentQuestion Option[Question]         `json:"currentQuestion"`
	SelectedAnswer  Option[int]              `json:"selectedAnswer"`
	TimeSpent       time.Duration            `json:"timeSpent"`
	Lifelines       Lifelines                `json:"lifelines"`
	PollResults     Option[[OptionCount]int] `json:"audiencePollResults"`

	HotSeatPlayer  Option[Player] `json:"hotSeatPlayer"`
	HotSeatHistory HotSeatHistory `json:"hotSeatHistory"`

	// PendingTopic is set between the optimistic answering transition and the
	// arrival of the generated question.
	PendingTopic Option[string] `json:"pendingTopic"`
}

// NewState returns the initial home state with a full topic pool.
func NewState(topics []string) State {
	return State{
		FormatVersion:   FormatVersion,
		GamePhase:       PhaseHome,
		Players:         []Player{},
		Teams:           []Team{},
		Config:          DefaultConfig(),
		Turn:            Turn{Phase: TurnTopicSelection},
		AvailableTopics: slices.Clone(topics),
		History:         []QuestionResult{},
		HotSeatHistory:  HotSeatHistory{},
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.Players = slices.Clone(s.Players)
	c.Teams = make([]Team, len(s.Teams))
	for i, t := range s.Teams {
		t.PlayerIDs = slices.Clone(t.PlayerIDs)
		c.Teams[i] = t
	}
	c.AvailableTopics = slices.Clone(s.AvailableTopics)
	c.History = slices.Clone(s.History)
	c.HotSeatHistory = make(HotSeatHistory, len(s.HotSeatHistory))
	for k, v := range s.HotSeatHistory {
		c.HotSeatHistory[k] = slices.Clone(v)
	}
	return c
}

// CurrentTeam returns the team on turn, if any.
func (s State) CurrentTeam() (Team, bool) {
	if s.Turn.TeamIndex < 0 || s.Turn.TeamIndex >= len(s.Teams) {
		return Team{}, false
	}
	return s.Teams[s.Turn.TeamIndex], true
}

// IsComplete reports whether every team has answered its quota.
func (s State) IsComplete() bool {
	if len(s.Teams) == 0 {
		return false
	}
	for _, t := range s.Teams {
		if t.QuestionsAnswered < s.Config.QuestionsPerTeam {
			return false
		}
	}
	return true
}

// Leaderboard returns teams ordered by score, highest first. Ties keep
// their original team order.
func (s State) Leaderboard() []Team {
	board := slices.Clone(s.Teams)
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	return board
}

// Winner returns the leading team once the game is complete.
func (s State) Winner() (Team, bool) {
	if !s.IsComplete() {
		return Team{}, false
	}
	return s.Leaderboard()[0], true
}

// HasTopic reports whether topic is still in the available pool.
func (s State) HasTopic(topic string) bool {
	return slices.Contains(s.AvailableTopics, topic)
}

// Player looks up a player by ID.
func (s State) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// TeamPlayers returns the members of a team in the team's roster order.
func (s State) TeamPlayers(teamID string) []Player {
	var members []Player
	for _, t := range s.Teams {
		if t.ID != teamID {
			continue
		}
		for _, pid := range t.PlayerIDs {
			if p, ok := s.Player(pid); ok {
				members = append(members, p)
			}
		}
	}
	return members
}

// TeamStats summarizes a team's performance.
type TeamStats struct {
	PlayerCount       int
	Score             int
	QuestionsAnswered int
	// Accuracy is the percentage of answered questions that were correct.
	Accuracy float64
}

// Stats returns performance figures for a team.
func (t Team) Stats() TeamStats {
	stats := TeamStats{
		PlayerCount:       len(t.PlayerIDs),
		Score:             t.Score,
		QuestionsAnswered: t.QuestionsAnswered,
	}
	if t.QuestionsAnswered > 0 {
		stats.Accuracy = float64(t.Score) / float64(t.QuestionsAnswered) * 100
	}
	return stats
}

// CheckRoster verifies that team membership and player back-references agree:
// every listed player exists, appears once, and points back at its team.
func CheckRoster(players []Player, teams []Team) error {
	byID := make(map[string]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	seen := make(map[string]bool, len(players))
	teamIDs := make(map[string]bool, len(teams))
	for _, t := range teams {
		if teamIDs[t.ID] {
			return rosterMismatch(fmt.Sprintf("team %q listed twice", t.ID))
		}
		teamIDs[t.ID] = true
		for _, pid := range t.PlayerIDs {
			p, ok := byID[pid]
			if !ok {
				return rosterMismatch(fmt.Sprintf("team %q lists unknown player %q", t.Name, pid))
			}
			if seen[pid] {
				return rosterMismatch(fmt.Sprintf("player %q is on more than one team", p.Name))
			}
			seen[pid] = true
			if teamID, ok := p.TeamID.Get(); !ok || teamID != t.ID {
				return rosterMismatch(fmt.Sprintf("player %q does not point back at team %q", p.Name, t.Name))
			}
		}
	}
	return nil
}

func rosterMismatch(detail string) error {
	return kbcerrors.NewInvalidRosterError(detail, kbcerrors.ErrRosterMismatch)
}

// TopicsUsed returns the distinct topics asked so far, in first-asked order.
func (s State) TopicsUsed() []string {
	seen := map[string]bool{}
	var used []string
	for _, r := range s.History {
		if r.Topic == "" || seen[r.Topic] {
			continue
		}
		seen[r.Topic] = true
		used = append(used, r.Topic)
	}
	return used
}

// teamIndex returns the index of the team with the given ID, or -1.
func (s State) teamIndex(id string) int {
	return slices.IndexFunc(s.Teams, func(t Team) bool { return t.ID == id })
}

// TeamByID looks up a team by ID.
func (s State) TeamByID(id string) (Team, bool) {
	if i := s.teamIndex(id); i >= 0 {
		return s.Teams[i], true
	}
	return Team{}, false
}
