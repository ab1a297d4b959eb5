package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxNameLength = 20

// SetupModel asks for a name before joining.
type SetupModel struct {
	nameInput  textinput.Model
	focusIndex int // 0 is the name field, 1 the join button
	problem    string
	width      int
	height     int
}

func NewInitialSetupModel(w, h int) SetupModel {
	ti := textinput.New()
	ti.Placeholder = "Your snake's name"
	ti.Focus()
	ti.CharLimit = maxNameLength
	ti.Prompt = "name › "
	ti.PromptStyle = styles.banner

	return SetupModel{
		nameInput: ti,
		width:     w,
		height:    h,
	}
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil

		case "enter":
			if m.focusIndex == 0 {
				m.toggleFocus()
				return m, nil
			}
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.problem = "a name is required"
				m.focusIndex = 1
				m.toggleFocus()
				return m, nil
			}
			return m, func() tea.Msg { return SetupSubmitMsg{Name: name} }
		}

		if m.focusIndex == 0 {
			m.problem = ""
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *SetupModel) toggleFocus() {
	if m.focusIndex == 0 {
		m.focusIndex = 1
		m.nameInput.Blur()
		return
	}
	m.focusIndex = 0
	m.nameInput.Focus()
}

func (m SetupModel) View() string {
	lines := []string{styles.heading.Render("Pick a name for your snake"), "", m.nameInput.View(), ""}
	if m.problem != "" {
		lines = append(lines, styles.danger.Render(m.problem), "")
	}
	lines = append(lines,
		buttonRow([]string{"Join"}, m.focusIndex-1),
		styles.muted.Render("tab moves focus, enter confirms, ctrl+c quits"),
	)
	return centered(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, lines...))
}
