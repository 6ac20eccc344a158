package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/shubham-0921/kbc-ai/internal/game"
)

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	GoldColor      = lipgloss.Color("#FBBF24") // Winner highlight

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1).
		PaddingBottom(1)

	// Content area
	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	// Question card
	QuestionBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2).
			Width(72)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Answer options
	Option = lipgloss.NewStyle().
		Foreground(TextColor).
		Padding(0, 1)

	OptionSelected = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 1)

	OptionCorrect = lipgloss.NewStyle().
			Foreground(SurfaceColor).
			Background(SecondaryColor).
			Bold(true).
			Padding(0, 1)

	OptionWrong = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(ErrorColor).
			Bold(true).
			Padding(0, 1)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Success message
	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Warning message
	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	Winner = lipgloss.NewStyle().
		Foreground(GoldColor).
		Bold(true)
)

// PhaseColor returns the color for a game phase
func PhaseColor(phase game.Phase) lipgloss.Color {
	switch phase {
	case game.PhaseSetup:
		return WarningColor
	case game.PhaseTeamDisplay:
		return PrimaryColor
	case game.PhasePlaying:
		return SecondaryColor
	case game.PhaseResults:
		return GoldColor
	default:
		return MutedColor
	}
}

// PhaseIcon returns the icon for a game phase
func PhaseIcon(phase game.Phase) string {
	switch phase {
	case game.PhaseSetup:
		return "✎"
	case game.PhaseTeamDisplay:
		return "☰"
	case game.PhasePlaying:
		return "●"
	case game.PhaseResults:
		return "★"
	default:
		return "○"
	}
}

// TeamColor returns the team's identity color, falling back to the primary
// color when the scheme carries no hex value.
func TeamColor(scheme game.ColorScheme) lipgloss.Color {
	if !strings.HasPrefix(scheme.Hex, "#") {
		return PrimaryColor
	}
	return lipgloss.Color(scheme.Hex)
}

// TeamStyle returns a bold style in the team's color.
func TeamStyle(scheme game.ColorScheme) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(TeamColor(scheme))
}

// TeamBadge renders the team name as a colored badge.
func TeamBadge(t game.Team) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(SurfaceColor).
		Background(TeamColor(t.ColorScheme)).
		Padding(0, 1).
		Render(t.Name)
}

// cardWidth is the inner width of a team card.
const cardWidth = 24

// TeamCard renders a team with its members in a border of the team's color.
func TeamCard(t game.Team, members []game.Player) string {
	var b strings.Builder
	b.WriteString(TeamStyle(t.ColorScheme).Render(Truncate(t.Name, cardWidth)))
	for _, p := range members {
		b.WriteString("\n  ")
		b.WriteString(Text.Render(Truncate(p.Name, cardWidth-2)))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(TeamColor(t.ColorScheme)).
		Padding(0, 1).
		Width(cardWidth).
		Render(b.String())
}

// Truncate shortens s to maxWidth visual columns, adding "..." if truncated.
// ANSI escape codes and wide characters are accounted for.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}
