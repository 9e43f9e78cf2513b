package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/podium-ai/podium/internal/debate"
)

// Styles for the printed transcript. Each role gets its own speaker color;
// the verdict gets a bordered box so it stands out at the end of a long
// transcript.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	roundStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	roleStyles = map[debate.Role]lipgloss.Style{
		debate.RoleModerator:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		debate.RoleAffirmative: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40")),
		debate.RoleNegative:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		debate.RoleJudge:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
	}

	verdictStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1).
			MarginTop(1)

	scoreHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// renderResult renders the transcript, score table, and verdict of a debate
// result for terminal output.
func renderResult(r *debate.Result) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Debate: " + r.Topic))
	sb.WriteString("\n")

	var lastRound debate.RoundType
	for _, msg := range r.Messages {
		if msg.RoundType != lastRound {
			sb.WriteString(roundStyle.Render("── " + msg.RoundType.Display() + " ──"))
			sb.WriteString("\n")
			lastRound = msg.RoundType
		}
		style, ok := roleStyles[msg.Role]
		if !ok {
			style = lipgloss.NewStyle().Bold(true)
		}
		sb.WriteString(style.Render(msg.Role.Display() + ":"))
		sb.WriteString(" " + msg.Content + "\n\n")
	}

	if len(r.Scores) > 0 {
		sb.WriteString(renderScores(r.Scores))
	}
	if r.Verdict != nil {
		sb.WriteString(renderVerdict(r.Verdict))
	}

	return sb.String()
}

// renderScores renders the per-round score table.
func renderScores(scores []debate.Score) string {
	var sb strings.Builder

	sb.WriteString(scoreHeaderStyle.Render("Scores"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-20s %-12s %7s %9s %9s %11s %7s\n",
		"Round", "Position", "Logic", "Evidence", "Rebuttal", "Expression", "Total"))
	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%-20s %-12s %7.1f %9.1f %9.1f %11.1f %7.1f\n",
			s.RoundType.Display(), s.Position.Display(),
			s.Logic, s.Evidence, s.Rebuttal, s.Expression, s.Total))
	}
	sb.WriteString("\n")

	return sb.String()
}

// renderVerdict renders the judge's verdict box.
func renderVerdict(v *debate.Verdict) string {
	var winner string
	switch v.Winner {
	case debate.WinnerAffirmative:
		winner = "Affirmative wins"
	case debate.WinnerNegative:
		winner = "Negative wins"
	default:
		winner = "Draw"
	}

	body := fmt.Sprintf("%s\nAffirmative: %.1f   Negative: %.1f",
		winner, v.AffirmativeTotal, v.NegativeTotal)
	if v.Comment != "" {
		body += "\n\n" + v.Comment
	}

	return verdictStyle.Render(body) + "\n"
}
