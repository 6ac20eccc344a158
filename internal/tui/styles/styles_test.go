package styles

import (
	"strings"
	"testing"

	"github.com/shubham-0921/kbc-ai/internal/game"
)

func TestPhaseColor(t *testing.T) {
	tests := []struct {
		phase    game.Phase
		expected string
	}{
		{game.PhaseHome, "#9CA3AF"},
		{game.PhaseSetup, "#F59E0B"},
		{game.PhaseTeamDisplay, "#A78BFA"},
		{game.PhasePlaying, "#10B981"},
		{game.PhaseResults, "#FBBF24"},
		{game.Phase("unknown"), "#9CA3AF"}, // Should fall back to MutedColor
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			got := PhaseColor(tt.phase)
			if string(got) != tt.expected {
				t.Errorf("PhaseColor(%q) = %q, want %q", tt.phase, got, tt.expected)
			}
		})
	}
}

func TestPhaseIcon(t *testing.T) {
	tests := []struct {
		phase    game.Phase
		expected string
	}{
		{game.PhaseHome, "○"},
		{game.PhaseSetup, "✎"},
		{game.PhaseTeamDisplay, "☰"},
		{game.PhasePlaying, "●"},
		{game.PhaseResults, "★"},
		{game.Phase("unknown"), "○"},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := PhaseIcon(tt.phase); got != tt.expected {
				t.Errorf("PhaseIcon(%q) = %q, want %q", tt.phase, got, tt.expected)
			}
		})
	}
}

func TestTeamColor(t *testing.T) {
	tests := []struct {
		name     string
		scheme   game.ColorScheme
		expected string
	}{
		{"hex value", game.ColorScheme{Name: "blue", Hex: "#3B82F6"}, "#3B82F6"},
		{"empty scheme", game.ColorScheme{}, "#A78BFA"},
		{"name only", game.ColorScheme{Name: "red", Hex: "red"}, "#A78BFA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TeamColor(tt.scheme); string(got) != tt.expected {
				t.Errorf("TeamColor(%+v) = %q, want %q", tt.scheme, got, tt.expected)
			}
		})
	}
}

func TestTeamCard(t *testing.T) {
	team := game.Team{Name: "Chai Champions", ColorScheme: game.ColorScheme{Hex: "#3B82F6"}}
	members := []game.Player{{Name: "Asha"}, {Name: "Dev"}}

	card := TeamCard(team, members)
	for _, want := range []string{"Chai Champions", "Asha", "Dev"} {
		if !strings.Contains(card, want) {
			t.Errorf("TeamCard() missing %q:\n%s", want, card)
		}
	}
	if !strings.Contains(TeamBadge(team), "Chai Champions") {
		t.Error("TeamBadge() should contain the team name")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "Asha", 10, "Asha"},
		{"exact", "Chai Champions", 14, "Chai Champions"},
		{"truncated", "Chai Champions", 10, "Chai Ch..."},
		{"tiny width", "Chai Champions", 3, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxWidth); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
		})
	}
}
