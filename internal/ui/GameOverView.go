package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const leaderboardSize = 10

var gameOverButtons = []string{"Exit", "Leaderboard"}

// GameOverState is what the death and leaderboard screens draw from.
type GameOverState struct {
	ScoreBoard     ScoreBoard
	FinalLength    int
	FinalTicks     int
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int
}

func (g *GameOverState) RenderGameOverScreen() string {
	stats := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Length: %d", g.FinalLength),
		fmt.Sprintf("Ticks survived: %d", g.FinalTicks),
	)
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.danger.Render("YOUR SNAKE IS DONE"),
		"",
		stats,
		"",
		buttonRow(gameOverButtons, g.SelectedButton),
		styles.muted.Render("←/→ choose, enter confirms"),
	)
	return centered(g.ScreenWidth, g.ScreenHeight, styles.frame.Render(content))
}

// leaderboard column widths: rank, name, length, ticks
var scoreColumns = [4]int{4, maxNameLength + 2, 8, 8}

func scoreRow(style lipgloss.Style, cells [4]string) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = style.Width(scoreColumns[i]).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (g *GameOverState) RenderLeaderboardScreen() string {
	var table strings.Builder
	table.WriteString(scoreRow(styles.th, [4]string{"#", "Name", "Length", "Ticks"}))
	table.WriteString("\n")
	table.WriteString(g.scoreLines())

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.heading.Render("LONGEST SNAKES"),
		"",
		table.String(),
		styles.muted.Render("esc or enter to go back"),
	)
	return centered(g.ScreenWidth, g.ScreenHeight, styles.frame.Render(content))
}

func (g *GameOverState) scoreLines() string {
	if g.ScoreBoard == nil {
		return styles.td.Render("High scores are not kept on this server.") + "\n"
	}
	scores, err := g.ScoreBoard.GetHighScores(leaderboardSize, 0)
	if err != nil {
		log.Error("Failed to load high scores", "error", err)
		return styles.td.Render("High scores are unavailable right now.") + "\n"
	}
	if len(scores) == 0 {
		return styles.td.Render("Nobody has finished a run yet.") + "\n"
	}

	var lines strings.Builder
	for i, score := range scores {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFor(score.PlayerName))).Render(score.PlayerName)
		row := scoreRow(styles.td, [4]string{strconv.Itoa(i + 1), name, strconv.Itoa(score.Length), strconv.Itoa(score.Ticks)})
		lines.WriteString(styles.tr.Render(row))
		lines.WriteString("\n")
	}
	return lines.String()
}
