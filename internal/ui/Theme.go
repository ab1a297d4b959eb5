package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal palette shared by every screen.
const (
	colorAccent = lipgloss.Color("42")
	colorMuted  = lipgloss.Color("244")
	colorRule   = lipgloss.Color("238")
	colorDanger = lipgloss.Color("196")
	colorVoid   = lipgloss.Color("234")
	colorWall   = lipgloss.Color("94")
	colorInk    = lipgloss.Color("255")
)

type theme struct {
	banner   lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	danger   lipgloss.Style
	button   lipgloss.Style
	selected lipgloss.Style
	frame    lipgloss.Style
	mapFrame lipgloss.Style
	panel    lipgloss.Style
	th       lipgloss.Style
	td       lipgloss.Style
	tr       lipgloss.Style
}

var styles = newTheme()

func newTheme() theme {
	button := lipgloss.NewStyle().
		Foreground(colorMuted).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorRule).
		Padding(0, 2).
		Margin(0, 1)

	return theme{
		banner:   lipgloss.NewStyle().Foreground(colorAccent),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginTop(1),
		muted:    lipgloss.NewStyle().Foreground(colorMuted),
		danger:   lipgloss.NewStyle().Bold(true).Foreground(colorDanger),
		button:   button,
		selected: button.Foreground(colorInk).BorderForeground(colorAccent).Bold(true),
		frame:    lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(colorRule).Padding(1, 3),
		mapFrame: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(colorRule),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorRule).Padding(0, 1),
		th:       lipgloss.NewStyle().Bold(true).Foreground(colorInk).Background(colorRule).Padding(0, 1),
		td:       lipgloss.NewStyle().Padding(0, 1),
		tr:       lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(colorRule),
	}
}

var (
	wallCell = lipgloss.NewStyle().Foreground(colorWall).Render("▒")
	voidCell = lipgloss.NewStyle().Background(colorVoid).Render(" ")
)

// buttonRow renders labels side by side with one highlighted.
func buttonRow(labels []string, selected int) string {
	rendered := make([]string, len(labels))
	for i, label := range labels {
		style := styles.button
		if i == selected {
			style = styles.selected
		}
		rendered[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

// centered places content in the middle of a width x height screen.
func centered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
