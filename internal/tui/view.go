package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/tui/styles"
)

const (
	// pollBarWidth is the width of a 100% audience poll bar.
	pollBarWidth = 20
	topicWidth   = 48
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.state.GamePhase {
	case game.PhaseHome:
		b.WriteString(m.renderHome())
	case game.PhaseSetup:
		b.WriteString(m.renderSetup())
	case game.PhaseTeamDisplay:
		b.WriteString(m.renderTeams())
	case game.PhasePlaying:
		b.WriteString(m.renderScoreboard())
		b.WriteString("\n\n")
		b.WriteString(m.renderTurn())
	case game.PhaseResults:
		b.WriteString(m.renderResults())
	}

	if m.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.errorMsg))
	}
	if m.infoMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.SuccessMsg.Render(m.infoMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	phase := m.state.GamePhase
	status := lipgloss.NewStyle().
		Foreground(styles.PhaseColor(phase)).
		Render(styles.PhaseIcon(phase) + " " + strings.ReplaceAll(phase.String(), "_", " "))

	header := "Kaun Banega Crorepati  " + status
	if m.width > 4 {
		return styles.Header.Width(m.width - 4).Render(header)
	}
	return styles.Header.Render(header)
}

func (m Model) renderHome() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Team trivia night"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Form teams, pick topics, and race for the top of the leaderboard."))
	if saved, ok := m.saved.Get(); ok {
		b.WriteString("\n\n")
		b.WriteString(styles.WarningMsg.Render("A saved game was found"))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render(fmt.Sprintf("%d teams, %d questions played, phase %s",
			len(saved.Teams), len(saved.History), saved.GamePhase)))
	}
	return b.String()
}

func (m Model) renderSetup() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Who's playing?"))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Enter player names separated by commas."))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Teams: %s", styles.Primary.Render(fmt.Sprint(m.numTeams))))
	return b.String()
}

func (m Model) renderTeams() string {
	cards := make([]string, 0, len(m.state.Teams))
	for _, t := range m.state.Teams {
		cards = append(cards, styles.TeamCard(t, m.state.TeamPlayers(t.ID)))
	}
	return styles.Title.Render("Your teams") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderScoreboard() string {
	current, _ := m.state.CurrentTeam()
	parts := make([]string, 0, len(m.state.Teams))
	for _, t := range m.state.Teams {
		marker := "  "
		if t.ID == current.ID {
			marker = styles.Secondary.Render("▶ ")
		}
		parts = append(parts, fmt.Sprintf("%s%s %d/%d", marker, styles.TeamBadge(t),
			t.Score, m.state.Config.QuestionsPerTeam))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderTurn() string {
	current, _ := m.state.CurrentTeam()

	switch m.state.Turn.Phase {
	case game.TurnTopicSelection:
		return m.renderTopics(current)
	case game.TurnAnswering:
		if m.generating || m.state.CurrentQuestion.IsNone() {
			return m.renderGenerating(current)
		}
		return m.renderQuestion(current, false)
	case game.TurnReveal:
		return m.renderQuestion(current, true)
	}
	return ""
}

func (m Model) renderTopics(current game.Team) string {
	var b strings.Builder
	b.WriteString(styles.TeamStyle(current.ColorScheme).Render(current.Name))
	b.WriteString(", pick a topic:\n\n")
	for i, topic := range m.state.AvailableTopics {
		if i == m.cursor {
			b.WriteString(styles.OptionSelected.Render("> " + styles.Truncate(topic, topicWidth)))
		} else {
			b.WriteString(styles.Option.Render("  " + styles.Truncate(topic, topicWidth)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderGenerating(current game.Team) string {
	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" Preparing a question")
	if topic, ok := m.state.PendingTopic.Get(); ok {
		b.WriteString(" on ")
		b.WriteString(styles.Primary.Render(topic))
	}
	b.WriteString(" for ")
	b.WriteString(styles.TeamStyle(current.ColorScheme).Render(current.Name))
	if p, ok := m.state.HotSeatPlayer.Get(); ok {
		b.WriteString("\n\nIn the hot seat: ")
		b.WriteString(styles.Text.Bold(true).Render(p.Name))
	}
	return b.String()
}

func (m Model) renderQuestion(current game.Team, reveal bool) string {
	q, _ := m.state.CurrentQuestion.Get()
	selected, answered := m.state.SelectedAnswer.Get()
	poll, polled := m.state.PollResults.Get()

	var b strings.Builder
	b.WriteString(styles.Muted.Render(q.Topic))
	if p, ok := m.state.HotSeatPlayer.Get(); ok {
		b.WriteString(styles.Muted.Render("  ·  hot seat: "))
		b.WriteString(styles.TeamStyle(current.ColorScheme).Render(p.Name))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Bold(true).Render(q.Text))
	b.WriteString("\n\n")

	for i, opt := range q.Options {
		label := fmt.Sprintf("%s. %s", game.AnswerLabels[i], opt)
		style := styles.Option
		switch {
		case reveal && i == q.CorrectIndex:
			style = styles.OptionCorrect
		case reveal && answered && i == selected:
			style = styles.OptionWrong
		}
		b.WriteString(style.Render(fmt.Sprintf("%-40s", label)))
		if polled {
			b.WriteString(" ")
			b.WriteString(renderPollBar(poll[i]))
		}
		b.WriteString("\n")
	}

	if reveal {
		b.WriteString("\n")
		switch {
		case !answered:
			b.WriteString(styles.WarningMsg.Render("No answer. The correct answer was " + q.CorrectOption()))
		case selected == q.CorrectIndex:
			b.WriteString(styles.SuccessMsg.Render("Correct!"))
		default:
			b.WriteString(styles.ErrorMsg.Render("Wrong. The correct answer was " + q.CorrectOption()))
		}
		if q.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(styles.Subtitle.Render(q.Explanation))
		}
	} else {
		b.WriteString("\n")
		b.WriteString(m.renderLifelines())
		if m.state.Config.TimerLength > 0 {
			b.WriteString("   ")
			b.WriteString(m.renderTimer())
		}
	}

	return styles.QuestionBox.Render(b.String())
}

func (m Model) renderLifelines() string {
	render := func(name string, used bool) string {
		if used {
			return styles.Muted.Strikethrough(true).Render(name)
		}
		return styles.Secondary.Render(name)
	}
	line := render("phone a friend", m.state.Lifelines.PhoneAFriend) + "  " +
		render("audience poll", m.state.Lifelines.AudiencePoll)
	if m.state.Lifelines.PhoneAFriend {
		line += "\n" + styles.Muted.Render("Phone a friend: ask anyone on your team for help.")
	}
	return line
}

func (m Model) renderTimer() string {
	left := m.remaining()
	style := styles.Text
	if left <= 5*time.Second {
		style = styles.WarningMsg
	}
	return style.Render(fmt.Sprintf("⏱ %ds", int(left.Seconds())))
}

func renderPollBar(percent int) string {
	filled := percent * pollBarWidth / 100
	return styles.Primary.Render(strings.Repeat("█", filled)) +
		styles.Muted.Render(strings.Repeat("░", pollBarWidth-filled)) +
		fmt.Sprintf(" %d%%", percent)
}

func (m Model) renderResults() string {
	var b strings.Builder
	if winner, ok := m.state.Winner(); ok {
		b.WriteString(styles.Winner.Render("★ " + winner.Name + " wins! ★"))
		b.WriteString("\n\n")
	}
	for i, t := range m.state.Leaderboard() {
		stats := t.Stats()
		b.WriteString(fmt.Sprintf("%d. %s  %d points  %.0f%% accuracy\n",
			i+1, styles.TeamBadge(t), stats.Score, stats.Accuracy))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	key := styles.HelpKey.Render
	var help string

	switch m.state.GamePhase {
	case game.PhaseHome:
		help = key("n") + " new game  "
		if m.saved.IsSome() {
			help += key("r") + " resume  "
		}
		help += key("q") + " quit"
	case game.PhaseSetup:
		help = key("enter") + " form teams  " + key("tab") + " team count  " + key("esc") + " back"
	case game.PhaseTeamDisplay:
		help = key("enter") + " start  " + key("s") + " reshuffle  " + key("esc") + " back  " + key("q") + " quit"
	case game.PhasePlaying:
		switch m.state.Turn.Phase {
		case game.TurnTopicSelection:
			help = key("j/k") + " move  " + key("enter") + " pick topic  "
		case game.TurnAnswering:
			help = key("a-d") + " answer  " + key("p") + " phone a friend  " + key("v") + " audience poll  "
		case game.TurnReveal:
			help = key("enter") + " next turn  "
		}
		help += key("q") + " save & quit"
	case game.PhaseResults:
		help = key("r") + " replay  " + key("n") + " new game  " + key("q") + " quit"
	}
	return styles.HelpBar.Render(help)
}
