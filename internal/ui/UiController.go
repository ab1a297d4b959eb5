package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Mshel/gridsnake/internal/game"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
)

// IntroSubmitMsg carries the intro button that was picked.
type IntroSubmitMsg int

type SetupSubmitMsg struct {
	Name string
}

// ScoreBoard is the read side of the high score table.
type ScoreBoard interface {
	GetHighScores(limit, offset int) ([]game.Score, error)
}

type ControllerModel struct {
	CurrentScreen Screen
	GameManager   *game.GameManager
	ScoreBoard    ScoreBoard

	IntroModel tea.Model
	SetupModel tea.Model
	GameModel  tea.Model

	// ctx ends with the connection; the player is removed with it
	ctx          context.Context
	playerID     string
	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(ctx context.Context, gameManager *game.GameManager, scores ScoreBoard, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		GameManager:   gameManager,
		ScoreBoard:    scores,
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(screenWidth, screenHeight),

		ctx:          ctx,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel == nil {
			return ""
		}
		return m.GameModel.View()
	default:
		return m.IntroModel.View()
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.isQuitKey(key.String()) {
		if m.playerID != "" {
			m.GameManager.RemovePlayer(m.playerID)
		}
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg)
	case IntroSubmitMsg:
		return m.introChoice(msg)
	case SetupSubmitMsg:
		return m.join(msg.Name)
	case QuitGameMsg:
		m.CurrentScreen = IntroScreen
		return m, m.IntroModel.Init()
	}
	return m.forward(msg)
}

// q is a letter on the setup screen, not a quit key.
func (m ControllerModel) isQuitKey(key string) bool {
	return key == "ctrl+c" || (key == "q" && m.CurrentScreen != SetupScreen)
}

func (m ControllerModel) resize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
	m.IntroModel, _ = m.IntroModel.Update(msg)
	m.SetupModel, _ = m.SetupModel.Update(msg)
	var cmd tea.Cmd
	if m.GameModel != nil {
		m.GameModel, cmd = m.GameModel.Update(msg)
	}
	return m, cmd
}

func (m ControllerModel) introChoice(choice IntroSubmitMsg) (tea.Model, tea.Cmd) {
	switch choice {
	case introJoin:
		m.CurrentScreen = SetupScreen
		return m, m.SetupModel.Init()
	case introLeaderboard:
		m.CurrentScreen = GameScreen
		m.GameModel = NewLeaderboardModel(m.GameManager, m.ScoreBoard, m.ScreenWidth, m.ScreenHeight)
		return m, m.GameModel.Init()
	}
	return m, nil
}

func (m ControllerModel) join(name string) (tea.Model, tea.Cmd) {
	player, updates, err := m.GameManager.JoinPlayer(name)
	if err != nil {
		log.Error("Could not join the game", "player", name, "error", err)
		return m, tea.Quit
	}
	m.playerID = player.ID
	m.watchConnection(player.ID)

	m.CurrentScreen = GameScreen
	m.GameModel = NewGameModel(m.GameManager, m.ScoreBoard, player.ID, updates, m.ScreenWidth, m.ScreenHeight)
	return m, m.GameModel.Init()
}

// forward hands everything else to the screen on display.
func (m ControllerModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.CurrentScreen {
	case IntroScreen:
		m.IntroModel, cmd = m.IntroModel.Update(msg)
	case SetupScreen:
		m.SetupModel, cmd = m.SetupModel.Update(msg)
	case GameScreen:
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
		}
	}
	return m, cmd
}

// watchConnection removes the player when the connection drops without a quit key.
func (m ControllerModel) watchConnection(playerID string) {
	if m.ctx == nil {
		return
	}
	go func() {
		<-m.ctx.Done()
		m.GameManager.RemovePlayer(playerID)
	}()
}
