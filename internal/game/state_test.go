package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
)

func twoTeamState() State {
	s := NewState(DefaultTopics)
	s.Players = []Player{
		{ID: "p1", Name: "Asha", TeamID: Some("t1")},
		{ID: "p2", Name: "Ravi", TeamID: Some("t2")},
		{ID: "p3", Name: "Meera", TeamID: Some("t1")},
	}
	s.Teams = []Team{
		{ID: "t1", Name: "A", PlayerIDs: []string{"p1", "p3"}},
		{ID: "t2", Name: "B", PlayerIDs: []string{"p2"}},
	}
	s.Config = Config{QuestionsPerTeam: 1, TimerLength: 30}
	return s
}

func TestNewState(t *testing.T) {
	s := NewState(DefaultTopics)

	if s.GamePhase != PhaseHome {
		t.Errorf("GamePhase = %q, want %q", s.GamePhase, PhaseHome)
	}
	if s.Turn.Phase != TurnTopicSelection {
		t.Errorf("Turn.Phase = %q, want %q", s.Turn.Phase, TurnTopicSelection)
	}
	if len(s.AvailableTopics) != len(DefaultTopics) {
		t.Errorf("AvailableTopics has %d entries, want %d", len(s.AvailableTopics), len(DefaultTopics))
	}
	if s.Config != DefaultConfig() {
		t.Errorf("Config = %+v, want defaults", s.Config)
	}

	s.AvailableTopics[0] = "changed"
	if DefaultTopics[0] == "changed" {
		t.Error("NewState must not alias the topic slice")
	}
}

func TestState_Clone(t *testing.T) {
	s := twoTeamState()
	s.HotSeatHistory["t1"] = []string{"p1"}
	s.History = append(s.History, QuestionResult{QuestionID: "q1"})

	c := s.Clone()
	c.Teams[0].PlayerIDs[0] = "zzz"
	c.Teams[0].Score = 9
	c.Players[0].Name = "changed"
	c.HotSeatHistory["t1"][0] = "zzz"
	c.AvailableTopics[0] = "zzz"
	c.History[0].QuestionID = "zzz"

	if s.Teams[0].PlayerIDs[0] != "p1" || s.Teams[0].Score != 0 {
		t.Error("Clone shares team data with the original")
	}
	if s.Players[0].Name != "Asha" {
		t.Error("Clone shares players with the original")
	}
	if s.HotSeatHistory["t1"][0] != "p1" {
		t.Error("Clone shares hot-seat history with the original")
	}
	if s.AvailableTopics[0] == "zzz" || s.History[0].QuestionID == "zzz" {
		t.Error("Clone shares topics or history with the original")
	}
}

func TestState_LeaderboardAndWinner(t *testing.T) {
	s := twoTeamState()

	if _, ok := s.Winner(); ok {
		t.Error("Winner should be unset before completion")
	}

	s.Teams[0].Score, s.Teams[0].QuestionsAnswered = 0, 1
	s.Teams[1].Score, s.Teams[1].QuestionsAnswered = 1, 1

	board := s.Leaderboard()
	if board[0].ID != "t2" || board[1].ID != "t1" {
		t.Errorf("Leaderboard order = [%s %s], want [t2 t1]", board[0].ID, board[1].ID)
	}
	if s.Teams[0].ID != "t1" {
		t.Error("Leaderboard must not reorder State.Teams")
	}

	winner, ok := s.Winner()
	if !ok || winner.ID != "t2" {
		t.Errorf("Winner = %v, %v; want t2", winner.ID, ok)
	}
}

func TestState_LeaderboardTiesKeepTeamOrder(t *testing.T) {
	s := twoTeamState()
	s.Teams[0].Score = 2
	s.Teams[1].Score = 2

	board := s.Leaderboard()
	if board[0].ID != "t1" {
		t.Errorf("tie should keep first team first, got %s", board[0].ID)
	}
}

func TestState_IsComplete(t *testing.T) {
	tests := []struct {
		name     string
		answered []int
		want     bool
	}{
		{"none answered", []int{0, 0}, false},
		{"one team done", []int{1, 0}, false},
		{"all done", []int{1, 1}, true},
		{"over quota", []int{2, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoTeamState()
			for i, n := range tt.answered {
				s.Teams[i].QuestionsAnswered = n
			}
			if got := s.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}

	if NewState(nil).IsComplete() {
		t.Error("a state without teams is never complete")
	}
}

func TestState_TeamPlayers(t *testing.T) {
	s := twoTeamState()
	members := s.TeamPlayers("t1")
	if len(members) != 2 || members[0].Name != "Asha" || members[1].Name != "Meera" {
		t.Errorf("TeamPlayers(t1) = %+v", members)
	}
	if len(s.TeamPlayers("missing")) != 0 {
		t.Error("unknown team should have no players")
	}
}

func TestTeam_Stats(t *testing.T) {
	team := Team{PlayerIDs: []string{"a", "b"}, Score: 3, QuestionsAnswered: 4}
	stats := team.Stats()
	if stats.PlayerCount != 2 || stats.Accuracy != 75 {
		t.Errorf("Stats() = %+v", stats)
	}
	if (Team{}).Stats().Accuracy != 0 {
		t.Error("accuracy with no answers should be 0")
	}
}

func TestCheckRoster(t *testing.T) {
	t.Run("consistent roster", func(t *testing.T) {
		s := twoTeamState()
		if err := CheckRoster(s.Players, s.Teams); err != nil {
			t.Errorf("CheckRoster() = %v", err)
		}
	})

	t.Run("wrong back reference", func(t *testing.T) {
		s := twoTeamState()
		s.Players[0].TeamID = Some("t2")
		err := CheckRoster(s.Players, s.Teams)
		if !errors.Is(err, kbcerrors.ErrRosterMismatch) {
			t.Errorf("expected ErrRosterMismatch, got %v", err)
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		s := twoTeamState()
		s.Teams[1].PlayerIDs = append(s.Teams[1].PlayerIDs, "ghost")
		if err := CheckRoster(s.Players, s.Teams); err == nil {
			t.Error("expected an error for an unknown player")
		}
	})

	t.Run("player on two teams", func(t *testing.T) {
		s := twoTeamState()
		s.Teams[1].PlayerIDs = append(s.Teams[1].PlayerIDs, "p1")
		var rosterErr *kbcerrors.InvalidRosterError
		if err := CheckRoster(s.Players, s.Teams); !errors.As(err, &rosterErr) {
			t.Errorf("expected InvalidRosterError, got %v", err)
		}
	})
}

func TestState_JSONRoundTrip(t *testing.T) {
	s := twoTeamState()
	s.GamePhase = PhasePlaying
	s.CurrentQuestion = Some(Question{
		ID:           "q1",
		Topic:        "Cricket & Indian Sports",
		Text:         "Who?",
		Options:      [OptionCount]string{"a", "b", "c", "d"},
		CorrectIndex: 2,
		Explanation:  "because",
		TeamID:       "t1",
		GeneratedAt:  time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
	})
	s.SelectedAnswer = Some(0)
	s.HotSeatPlayer = Some(s.Players[0])

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var restored State
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	q, ok := restored.CurrentQuestion.Get()
	if !ok || q.CorrectIndex != 2 || q.CorrectOption() != "c" {
		t.Errorf("CurrentQuestion = %+v, %v", q, ok)
	}
	if sel, ok := restored.SelectedAnswer.Get(); !ok || sel != 0 {
		t.Errorf("SelectedAnswer = %v, %v; want 0, true", sel, ok)
	}
	if restored.PollResults.IsSome() {
		t.Error("PollResults should stay empty")
	}
	if hs, ok := restored.HotSeatPlayer.Get(); !ok || hs.Name != "Asha" {
		t.Errorf("HotSeatPlayer = %+v", hs)
	}
	if tid, _ := restored.Players[1].TeamID.Get(); tid != "t2" {
		t.Errorf("player TeamID = %q, want t2", tid)
	}
}
