package game

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Mshel/gridsnake/internal/event"
	"github.com/Mshel/gridsnake/internal/grid"
)

// SegmentFactory makes the transform for a new tail piece.
type SegmentFactory func() *Transform

// Destroyer receives the leader and its whole ordered tail when a player is torn down.
type Destroyer interface {
	Destroy(leader Mover, tail []*TailPiece)
}

// Player turns buffered direction input into one validated move per tick and
// drags a growing tail behind it.
type Player struct {
	ID   string
	Name string

	Destroyer Destroyer
	Metrics   *Metrics

	transform   Mover
	bus         *event.Bus
	newSegment  SegmentFactory
	inputBuffer []event.Event
	direction   grid.Direction
	growCount   int
	tailPieces  []*TailPiece
	dispatch    map[event.Kind]func(event.Event)
	detached    bool
	stalled     bool
	ticks       int
}

// CreateNewPlayer subscribes the player to its own input channel and to the game
// state channel. The player starts facing up.
func CreateNewPlayer(name string, transform Mover, bus *event.Bus, newSegment SegmentFactory) *Player {
	p := &Player{
		ID:         uuid.NewString(),
		Name:       name,
		transform:  transform,
		bus:        bus,
		newSegment: newSegment,
		direction:  grid.Up,
	}
	p.dispatch = map[event.Kind]func(event.Event){
		event.KindDirection: p.enqueueInput,
		event.KindGrow:      func(e event.Event) { p.Grow(e.Count) },
		event.KindGameOver:  p.gameOver,
	}

	bus.AddHandler(event.CategoryInput, p.InputSubcategory(), p)
	bus.AddHandler(event.CategoryGameState, event.SubNone, p)
	return p
}

func (p *Player) InputSubcategory() event.Subcategory {
	return event.Subcategory(p.ID)
}

func (p *Player) AcceptEvent(e event.Event) {
	if p.detached {
		return
	}
	if handle, ok := p.dispatch[e.Kind]; ok {
		handle(e)
	}
}

// Tick runs one turn. Nothing happens while the previous move is still in flight.
func (p *Player) Tick() {
	if p.prepareTick() {
		p.moveHead()
	}
}

// prepareTick runs a turn up to the head step: input, the stall check, growth
// and the tail. It reports whether the head should move.
func (p *Player) prepareTick() bool {
	if p.detached || !p.transform.IsTransitionDone() {
		return false
	}

	p.updateInput()

	p.stalled = !p.transform.CanMoveTo(p.direction)
	if p.stalled {
		p.Metrics.IncStalls()
		return false
	}

	p.updateGrowing()
	p.updateTail()
	return true
}

func (p *Player) moveHead() {
	p.transform.Move(p.direction)
	p.ticks++
}

// updateInput applies at most one direction change. A rejected event gets one
// more chance next tick, then it is dropped.
func (p *Player) updateInput() {
	var retry []event.Event
	for len(p.inputBuffer) > 0 {
		e := p.inputBuffer[0]
		p.inputBuffer = p.inputBuffer[1:]

		if e.Kind != event.KindDirection {
			continue
		}
		if p.setDirection(e.Direction) {
			break
		}
		if e.Reenqueued {
			p.Metrics.IncInputsDropped()
			continue
		}
		p.Metrics.IncInputsReenqueued()
		retry = append(retry, e.Reenqueue())
	}
	p.inputBuffer = append(p.inputBuffer, retry...)

	// only the latest input survives a burst
	if n := len(p.inputBuffer); n > 1 {
		p.Metrics.AddInputsDropped(n - 1)
		p.inputBuffer = slices.Clone(p.inputBuffer[n-1:])
	}
}

func (p *Player) updateGrowing() {
	if p.growCount <= 0 {
		return
	}
	var leader Mover = p.transform
	if n := len(p.tailPieces); n > 0 {
		leader = p.tailPieces[n-1].Transform()
	}
	p.tailPieces = append(p.tailPieces, NewTailPiece(leader, p.newSegment()))
	p.growCount--
	p.Metrics.IncSegmentsGrown()
}

// updateTail runs from the tail end forward, so every piece reads its leader
// before the leader moves.
func (p *Player) updateTail() {
	for i := len(p.tailPieces) - 1; i >= 0; i-- {
		p.tailPieces[i].UpdatePosition()
	}
}

// Grow queues length new tail pieces. They are added one per tick.
func (p *Player) Grow(length int) {
	p.growCount += length
}

// setDirection refuses a full reversal.
func (p *Player) setDirection(direction grid.Direction) bool {
	if !direction.Valid() || p.direction.IsOpposite(direction) {
		return false
	}
	p.direction = direction
	return true
}

func (p *Player) enqueueInput(e event.Event) {
	p.inputBuffer = append(p.inputBuffer, e)
	p.Metrics.IncInputsAccepted()
}

func (p *Player) gameOver(e event.Event) {
	if e.Player != "" && e.Player != p.ID {
		return
	}
	p.Detach()
}

// Detach is terminal: the player stops listening and hands the head and the
// whole tail to its Destroyer.
func (p *Player) Detach() {
	if p.detached {
		return
	}
	p.detached = true
	p.bus.RemoveHandler(event.CategoryInput, p.InputSubcategory(), p)
	p.bus.RemoveHandler(event.CategoryGameState, event.SubNone, p)
	log.Debug("Player detached", "player", p.Name, "length", len(p.tailPieces)+1, "ticks", p.ticks)

	if p.Destroyer != nil {
		p.Destroyer.Destroy(p.transform, slices.Clone(p.tailPieces))
	}
}

func (p *Player) Head() Mover {
	return p.transform
}

func (p *Player) Direction() grid.Direction {
	return p.direction
}

func (p *Player) TailPieces() []*TailPiece {
	return slices.Clone(p.tailPieces)
}

func (p *Player) PendingGrowth() int {
	return p.growCount
}

func (p *Player) QueuedInput() []event.Event {
	return slices.Clone(p.inputBuffer)
}

func (p *Player) IsDetached() bool {
	return p.detached
}

// Stalled reports whether the last tick found no node in the facing direction.
func (p *Player) Stalled() bool {
	return p.stalled
}

func (p *Player) Ticks() int {
	return p.ticks
}

func (p *Player) Length() int {
	return len(p.tailPieces) + 1
}
