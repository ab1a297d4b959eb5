package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Mshel/gridsnake/internal/event"
	"github.com/Mshel/gridsnake/internal/grid"
)

type PlayerDeadMsg struct {
	PlayerID string
	Length   int
	Ticks    int
}

// ScoreRecorder persists a finished run.
type ScoreRecorder interface {
	SavePlayersHighScore(playerName string, length int, ticks int) error
}

type submission struct {
	category    event.Category
	subcategory event.Subcategory
	event       event.Event
}

// GameManager owns one grid and everything moving on it. All game state is
// mutated under mu by the frame loop; other goroutines talk to it through
// Submit and read it through Snapshot.
type GameManager struct {
	Config     *Config
	Graph      *grid.Graph
	Bus        *event.Bus
	Metrics    *Metrics
	HighScores ScoreRecorder

	mu             sync.Mutex
	players        []*Player
	heads          map[*Transform]*Player
	transforms     map[*Transform]struct{}
	updateChannels map[string]chan tea.Msg
	pendingDeaths  []string
	arrivals       []*Transform
	botMaster      *BotMaster
	frame          int64

	inputChannel chan submission
	snapshotLock sync.RWMutex
	snapshot     Snapshot
	IsRunning    atomic.Bool
}

func NewGameManager(config *Config, graph *grid.Graph, highScores ScoreRecorder) *GameManager {
	gm := &GameManager{
		Config:         config,
		Graph:          graph,
		Bus:            event.NewBus(),
		Metrics:        &Metrics{},
		HighScores:     highScores,
		heads:          make(map[*Transform]*Player),
		transforms:     make(map[*Transform]struct{}),
		updateChannels: make(map[string]chan tea.Msg),
		inputChannel:   make(chan submission, inputChannelSize),
	}
	gm.botMaster = NewBotMaster(gm)
	gm.snapshot = Snapshot{Width: graph.Width()}
	return gm
}

// CreateNewPlayer spawns a player at spawn and returns it with the channel its
// death is announced on.
func (gm *GameManager) CreateNewPlayer(name string, spawn grid.Point) (*Player, <-chan tea.Msg, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.createPlayer(name, spawn)
}

func (gm *GameManager) createPlayer(name string, spawn grid.Point) (*Player, chan tea.Msg, error) {
	node := gm.Graph.NodeAt(spawn)
	if node == nil {
		return nil, nil, fmt.Errorf("spawn (%d,%d) is not on the grid", spawn.X, spawn.Y)
	}

	head := gm.newTransform("", SegmentHead)
	player := CreateNewPlayer(name, head, gm.Bus, nil)
	head.Owner = player.ID
	player.newSegment = func() *Transform { return gm.newTransform(player.ID, SegmentTail) }
	player.Destroyer = gm
	player.Metrics = gm.Metrics
	head.Warp(node)

	updates := make(chan tea.Msg, updateChannelSize)
	gm.players = append(gm.players, player)
	gm.heads[head] = player
	gm.updateChannels[player.ID] = updates

	log.Info("Player joined", "player", name, "id", player.ID, "x", spawn.X, "y", spawn.Y)
	return player, updates, nil
}

// JoinPlayer spawns a player on the configured spawn, or on a random open node
// when something already stands there.
func (gm *GameManager) JoinPlayer(name string) (*Player, <-chan tea.Msg, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	spawn, ok := gm.findSpawn()
	if !ok {
		return nil, nil, errors.New("no free node to spawn on")
	}
	return gm.createPlayer(name, spawn)
}

// findSpawn wants a free node with a free node above it, so a fresh player facing
// up does not stall or crash on its first tick.
func (gm *GameManager) findSpawn() (grid.Point, bool) {
	open := func(node *grid.Node) bool {
		return isFree(node) && isFree(node.Neighbor(grid.Up))
	}
	if open(gm.Graph.NodeAt(gm.Config.Spawn)) {
		return gm.Config.Spawn, true
	}

	var candidates []grid.Point
	for node := range gm.Graph.Nodes() {
		if open(node) {
			candidates = append(candidates, node.Position())
		}
	}
	if len(candidates) == 0 {
		return grid.Point{}, false
	}
	return candidates[rand.IntN(len(candidates))], true
}

// AddBot spawns a scripted player.
func (gm *GameManager) AddBot(config BotConfig) (*Bot, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	var strategy *BotStrategy
	if config.Script != "" {
		strategy = &BotStrategy{StrategyName: config.Name, StrategyDefinition: config.Script}
	}
	// the script is compiled before anything lands on the grid
	bot, err := NewBot(nil, strategy)
	if err != nil {
		return nil, err
	}

	player, _, err := gm.createPlayer(config.Name, config.Spawn)
	if err != nil {
		bot.close()
		return nil, fmt.Errorf("failed to spawn bot %q: %w", config.Name, err)
	}
	bot.Player = player
	gm.botMaster.Add(bot)
	return bot, nil
}

// Submit hands an event to the frame loop. It never blocks; when the loop is
// backed up the event is discarded.
func (gm *GameManager) Submit(category event.Category, subcategory event.Subcategory, e event.Event) bool {
	select {
	case gm.inputChannel <- submission{category, subcategory, e}:
		return true
	default:
		gm.Metrics.IncSubmitsDiscarded()
		return false
	}
}

// RemovePlayer ends a player, for example when its connection goes away.
func (gm *GameManager) RemovePlayer(playerID string) {
	gm.Submit(event.CategoryGameState, event.SubNone, event.NewGameOverEvent(playerID))
}

func (gm *GameManager) StartGameLoop(ctx context.Context) {
	if !gm.IsRunning.CompareAndSwap(false, true) {
		return
	}
	defer gm.IsRunning.Store(false)
	log.Info("Game loop started.", "frame", gm.Config.FrameDuration)

	ticker := time.NewTicker(gm.Config.FrameDuration)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("Game loop stopped.")
			gm.botMaster.Close()
			return
		case now := <-ticker.C:
			gm.ProcessFrame(now.Sub(last))
			last = now
		}
	}
}

// ProcessFrame runs one frame: queued input, transitions, player ticks, rules.
func (gm *GameManager) ProcessFrame(dt time.Duration) {
	start := time.Now()
	gm.mu.Lock()

	gm.processPlayerInput()
	for t := range gm.transforms {
		t.Advance(dt)
	}
	gm.botMaster.processBots()
	gm.processGameTick()
	gm.processDeaths()
	gm.frame++
	snapshot := gm.buildSnapshot()

	gm.mu.Unlock()

	gm.snapshotLock.Lock()
	gm.snapshot = snapshot
	gm.snapshotLock.Unlock()

	gm.Metrics.AddFrame(time.Since(start).Nanoseconds())
}

// processPlayerInput drains submitted events without blocking.
func (gm *GameManager) processPlayerInput() {
	for {
		select {
		case s := <-gm.inputChannel:
			gm.Bus.Broadcast(s.category, s.subcategory, s.event)
		default:
			return
		}
	}
}

// processGameTick moves every tail before any head moves, then judges the heads
// where everything ended up. The order players joined in never changes who dies.
func (gm *GameManager) processGameTick() {
	var moving []*Player
	for _, player := range slices.Clone(gm.players) {
		if player.IsDetached() {
			continue
		}
		if player.prepareTick() {
			moving = append(moving, player)
			continue
		}
		if player.Stalled() && gm.Config.WallIsFatal {
			gm.killPlayer(player.ID)
		}
	}

	for _, player := range moving {
		player.moveHead()
		if head, ok := player.Head().(*Transform); ok {
			gm.arrivals = append(gm.arrivals, head)
		}
		if every := gm.Config.GrowEveryTicks; every > 0 && player.Ticks()%every == 0 {
			player.Grow(1)
		}
	}
	gm.resolveArrivals()
}

// resolveArrivals kills every head that shares its node with another segment.
// Two heads meeting on one node both die.
func (gm *GameManager) resolveArrivals() {
	arrivals := gm.arrivals
	gm.arrivals = nil
	for _, head := range arrivals {
		node := head.CurrentNode()
		if node == nil {
			continue
		}
		for _, occupant := range node.Occupants() {
			other, ok := occupant.(*Transform)
			if !ok || other == head {
				continue
			}
			if other.Owner == head.Owner && !gm.Config.SelfCollisionFatal {
				continue
			}
			log.Debug("Head collision", "player", head.Owner, "hit", other.Owner)
			gm.killPlayer(head.Owner)
			break
		}
	}
}

// processDeaths announces deaths found during the tick. Broadcasting here instead
// of from inside a collision keeps teardown out of node notification.
func (gm *GameManager) processDeaths() {
	deaths := gm.pendingDeaths
	gm.pendingDeaths = nil
	for _, id := range deaths {
		gm.Bus.Broadcast(event.CategoryGameState, event.SubNone, event.NewGameOverEvent(id))
	}
}

func (gm *GameManager) killPlayer(playerID string) {
	if !slices.Contains(gm.pendingDeaths, playerID) {
		gm.pendingDeaths = append(gm.pendingDeaths, playerID)
	}
}

func (gm *GameManager) newTransform(owner string, kind SegmentKind) *Transform {
	t := NewTransform(owner, kind, gm.Config.MoveSpeed)
	t.Events.OnCollision = gm.onCollision
	gm.transforms[t] = struct{}{}
	return t
}

// onCollision runs on the segment that was already standing on the node. Heads
// arriving outside the frame's head step, such as a spawn, are judged with the
// next frame; tail pieces sliding onto each other are normal.
func (gm *GameManager) onCollision(_, other *Transform) {
	if other.Kind == SegmentHead {
		gm.arrivals = append(gm.arrivals, other)
	}
}

func (gm *GameManager) Players() []*Player {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return slices.Clone(gm.players)
}

func (gm *GameManager) Snapshot() Snapshot {
	gm.snapshotLock.RLock()
	defer gm.snapshotLock.RUnlock()
	return gm.snapshot
}
