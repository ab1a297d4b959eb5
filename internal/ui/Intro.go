package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	introJoin = iota
	introLeaderboard
)

var introButtons = []string{"Join the grid", "Leaderboard"}

// IntroModel is the title screen.
type IntroModel struct {
	selected int
	width    int
	height   int
}

func NewIntroModel(w, h int) IntroModel {
	return IntroModel{width: w, height: h}
}

func (m IntroModel) Init() tea.Cmd { return nil }

func (m IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "right", "l", "tab":
			m.selected = (m.selected + 1) % len(introButtons)
		case "enter":
			choice := IntroSubmitMsg(m.selected)
			return m, func() tea.Msg { return choice }
		}
	}
	return m, nil
}

const gridSnakeBanner = `
  ██████  ██████  ██ ██████      ███████ ███    ██  █████  ██   ██ ███████
 ██       ██   ██ ██ ██   ██     ██      ████   ██ ██   ██ ██  ██  ██
 ██   ███ ██████  ██ ██   ██     ███████ ██ ██  ██ ███████ █████   █████
 ██    ██ ██   ██ ██ ██   ██          ██ ██  ██ ██ ██   ██ ██  ██  ██
  ██████  ██   ██ ██ ██████      ███████ ██   ████ ██   ██ ██   ██ ███████

              ▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▶▲
`

func (m IntroModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.banner.Render(gridSnakeBanner),
		buttonRow(introButtons, m.selected),
		styles.muted.Render("tab switches, enter picks, q quits"),
	)
	return centered(m.width, m.height, content)
}
