package ui

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Mshel/gridsnake/internal/event"
	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/grid"
)

type GameState int

const (
	StatePlaying GameState = iota
	StateGameOver
	StateLeaderboard
)

var (
	// screen up is +Y
	headRunes = map[grid.Direction]string{
		grid.Up:    "▲",
		grid.Down:  "▼",
		grid.Left:  "◀",
		grid.Right: "▶",
	}

	directionKeys = map[string]grid.Direction{
		"w": grid.Up, "up": grid.Up,
		"s": grid.Down, "down": grid.Down,
		"a": grid.Left, "left": grid.Left,
		"d": grid.Right, "right": grid.Right,
	}

	snakePalette = []string{"9", "10", "11", "12", "13", "14", "39", "118", "129", "199", "202", "208"}
)

const (
	mapShare         = 0.7
	panelChrome      = 4
	snapshotInterval = 50 * time.Millisecond
)

type snapshotMsg game.Snapshot

// QuitGameMsg sends the controller back to the intro screen.
type QuitGameMsg struct{}

type GameViewModel struct {
	ScreenWidth  int
	ScreenHeight int
	gameManager  *game.GameManager
	playerID     string // empty when viewing the leaderboard from the intro screen
	updates      <-chan tea.Msg
	snapshot     game.Snapshot

	gameState     GameState
	gameOverState GameOverState
}

func NewGameModel(gm *game.GameManager, scores ScoreBoard, playerID string, updates <-chan tea.Msg, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		gameManager:  gm,
		playerID:     playerID,
		updates:      updates,
		snapshot:     gm.Snapshot(),
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StatePlaying,
		gameOverState: GameOverState{
			ScoreBoard:   scores,
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
		},
	}
}

func NewLeaderboardModel(gm *game.GameManager, scores ScoreBoard, screenWidth int, screenHeight int) GameViewModel {
	m := NewGameModel(gm, scores, "", nil, screenWidth, screenHeight)
	m.gameState = StateLeaderboard
	return m
}

func (m GameViewModel) Init() tea.Cmd {
	if m.playerID == "" {
		return nil
	}
	return tea.Batch(m.pollSnapshot(), m.listenForGameUpdates())
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.gameOverState.ScreenWidth, m.gameOverState.ScreenHeight = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.gameState == StateGameOver || m.gameState == StateLeaderboard {
			return m.updateMenus(msg)
		}
		return m, m.steer(msg.String())

	case snapshotMsg:
		m.snapshot = game.Snapshot(msg)
		if m.gameState != StatePlaying {
			return m, nil
		}
		return m, m.pollSnapshot()

	case game.PlayerDeadMsg:
		if msg.PlayerID != m.playerID {
			return m, m.listenForGameUpdates()
		}
		log.Info("Current player died, showing Game Over screen.", "player", m.playerID, "length", msg.Length)
		m.gameState = StateGameOver
		m.gameOverState.FinalLength = msg.Length
		m.gameOverState.FinalTicks = msg.Ticks
		m.gameOverState.SelectedButton = 0
		return m, nil
	}

	return m, nil
}

// steer turns a key into an event for the frame loop. Reversals are left for the
// engine to reject.
func (m GameViewModel) steer(key string) tea.Cmd {
	if d, ok := directionKeys[key]; ok {
		m.gameManager.Submit(event.CategoryInput, event.Subcategory(m.playerID), event.NewDirectionEvent(d))
		return nil
	}
	if key == "k" && m.gameManager.Config.DebugKeys {
		m.gameManager.Submit(event.CategoryGameState, event.SubNone, event.NewGrowEvent(m.gameManager.Config.DebugGrowAmount))
	}
	return nil
}

func (m GameViewModel) updateMenus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gameState == StateLeaderboard {
		if msg.String() != "esc" && msg.String() != "enter" {
			return m, nil
		}
		// a viewer from the intro screen has no game over screen to go back to
		if m.playerID == "" {
			return m, func() tea.Msg { return QuitGameMsg{} }
		}
		m.gameState = StateGameOver
		return m, nil
	}

	switch msg.String() {
	case "left", "h", "right", "l", "tab":
		m.gameOverState.SelectedButton = (m.gameOverState.SelectedButton + 1) % len(gameOverButtons)
	case "enter":
		if m.gameOverState.SelectedButton == 0 {
			return m, tea.Quit
		}
		m.gameState = StateLeaderboard
	}
	return m, nil
}

func (m GameViewModel) View() string {
	switch m.gameState {
	case StateGameOver:
		return m.gameOverState.RenderGameOverScreen()
	case StateLeaderboard:
		return m.gameOverState.RenderLeaderboardScreen()
	}

	me, ok := m.snapshot.Player(m.playerID)
	if !ok {
		return centered(m.ScreenWidth, m.ScreenHeight, styles.muted.Render("joining..."))
	}

	mapWidth := int(float64(m.ScreenWidth) * mapShare)
	panelWidth := max(m.ScreenWidth-mapWidth-panelChrome, 0)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.mapFrame.Render(renderMap(m.snapshot, me, mapWidth, m.ScreenHeight)),
		styles.panel.Width(panelWidth).Height(m.ScreenHeight).Render(m.renderStatusPanel(me)),
	)
}

// renderMap draws the window of the grid centered on me. Row zero of the output is
// the highest Y in view; anything off the grid or on a hole is wall.
func renderMap(snapshot game.Snapshot, me game.PlayerState, width int, height int) string {
	cells := make(map[grid.Point]string)
	for _, player := range snapshot.Players {
		style := lipgloss.NewStyle().Background(colorVoid).Foreground(lipgloss.Color(colorFor(player.ID)))
		if player.ID == me.ID {
			style = style.Bold(true)
		}

		leader := player.Head
		for i, piece := range player.Tail {
			connected := []grid.Point{leader}
			if i+1 < len(player.Tail) {
				connected = append(connected, player.Tail[i+1])
			}
			cells[piece] = style.Render(tailRune(piece, connected...))
			leader = piece
		}
		cells[player.Head] = style.Render(headRunes[player.Direction])
	}

	holes := make(map[grid.Point]bool, len(snapshot.Holes))
	for _, hole := range snapshot.Holes {
		holes[hole] = true
	}

	var sb strings.Builder
	startX := me.Head.X - width/2
	topY := me.Head.Y + height/2
	for row := 0; row < height; row++ {
		y := topY - row
		for col := 0; col < width; col++ {
			p := grid.Point{X: startX + col, Y: y}
			switch {
			case p.X < 0 || p.Y < 0 || p.X >= snapshot.Width || p.Y >= snapshot.Width || holes[p]:
				sb.WriteString(wallCell)
			case cells[p] != "":
				sb.WriteString(cells[p])
			default:
				sb.WriteString(voidCell)
			}
		}
		if row < height-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

const (
	linkUp = 1 << iota
	linkDown
	linkLeft
	linkRight
)

// tailRunes maps the sides a piece connects on to a box drawing rune. Chain ends
// continue straight.
var tailRunes = map[int]string{
	linkUp: "│", linkDown: "│", linkUp | linkDown: "│",
	linkLeft: "─", linkRight: "─", linkLeft | linkRight: "─",
	linkUp | linkRight:   "└",
	linkUp | linkLeft:    "┘",
	linkDown | linkRight: "┌",
	linkDown | linkLeft:  "┐",
}

// tailRune picks the rune joining cur to its neighbors in the chain.
func tailRune(cur grid.Point, connected ...grid.Point) string {
	links := 0
	for _, other := range connected {
		switch (grid.Point{X: other.X - cur.X, Y: other.Y - cur.Y}) {
		case grid.Point{Y: 1}:
			links |= linkUp
		case grid.Point{Y: -1}:
			links |= linkDown
		case grid.Point{X: -1}:
			links |= linkLeft
		case grid.Point{X: 1}:
			links |= linkRight
		}
	}
	if r, ok := tailRunes[links]; ok {
		return r
	}
	return "•"
}

// renderStatusPanel lists my run, the live top ten and the keys.
func (m GameViewModel) renderStatusPanel(me game.PlayerState) string {
	dot := func(id string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorFor(id))).Render("●")
	}

	lines := []string{
		dot(me.ID) + " " + me.Name,
		fmt.Sprintf("length   %d", len(me.Tail)+1),
		fmt.Sprintf("growing  +%d", me.PendingGrowth),
		fmt.Sprintf("ticks    %d", me.Ticks),
		fmt.Sprintf("heading  %s", headRunes[me.Direction]),
	}
	if me.Stalled {
		lines = append(lines, styles.danger.Render("blocked, turn away"))
	}

	players := slices.Clone(m.snapshot.Players)
	slices.SortStableFunc(players, func(a, b game.PlayerState) int {
		return cmp.Compare(len(b.Tail), len(a.Tail))
	})
	bots := 0
	for _, player := range players {
		if player.Bot {
			bots++
		}
	}

	lines = append(lines,
		styles.heading.Render("On the grid"),
		styles.muted.Render(fmt.Sprintf("%d players, %d bots", len(players)-bots, bots)),
	)
	for i, player := range players[:min(leaderboardSize, len(players))] {
		lines = append(lines, fmt.Sprintf("%2d %s %s %d", i+1, dot(player.ID), player.Name, len(player.Tail)+1))
	}

	lines = append(lines, styles.heading.Render("Keys"), "wasd / arrows  steer")
	if m.gameManager.Config.DebugKeys {
		lines = append(lines, fmt.Sprintf("k  grow all by %d", m.gameManager.Config.DebugGrowAmount))
	}
	lines = append(lines, "q / ctrl+c  leave")

	return strings.Join(lines, "\n")
}

func (m GameViewModel) pollSnapshot() tea.Cmd {
	return tea.Tick(snapshotInterval, func(time.Time) tea.Msg {
		return snapshotMsg(m.gameManager.Snapshot())
	})
}

// listenForGameUpdates waits for the next message on the player's channel.
func (m GameViewModel) listenForGameUpdates() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	updates := m.updates
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return msg
	}
}

func colorFor(key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	return snakePalette[h.Sum32()%uint32(len(snakePalette))]
}
