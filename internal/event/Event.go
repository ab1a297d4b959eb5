package event

import (
	"time"

	"github.com/Mshel/gridsnake/internal/grid"
)

// Category is the top level channel an event travels on.
type Category int

const (
	CategoryNone Category = iota
	CategoryInput
	CategoryGameState
)

// Subcategory narrows a category. Input subcategories are per player.
type Subcategory string

const (
	SubNone    Subcategory = ""
	SubPlayer1 Subcategory = "player1"
)

// Kind tags the payload an Event carries.
type Kind int

const (
	// KindDirection asks a player to face a new direction.
	// Payload: Direction, Reenqueued
	KindDirection Kind = iota + 1

	// KindGrow queues trailing segments.
	// Payload: Count
	KindGrow

	// KindGameOver ends a player, or every player when Player is empty.
	// Payload: Player
	KindGameOver
)

func (k Kind) String() string {
	switch k {
	case KindDirection:
		return "direction"
	case KindGrow:
		return "grow"
	case KindGameOver:
		return "game_over"
	}
	return "unknown"
}

type Event struct {
	Kind Kind
	At   time.Time

	Direction  grid.Direction
	Reenqueued bool

	Count int

	Player string
}

func NewDirectionEvent(d grid.Direction) Event {
	return Event{Kind: KindDirection, Direction: d, At: time.Now()}
}

func NewGrowEvent(count int) Event {
	return Event{Kind: KindGrow, Count: count, At: time.Now()}
}

// NewGameOverEvent targets one player id; an empty id ends every player.
func NewGameOverEvent(playerID string) Event {
	return Event{Kind: KindGameOver, Player: playerID, At: time.Now()}
}

// Reenqueue marks a direction event that already failed validation once.
func (e Event) Reenqueue() Event {
	e.Reenqueued = true
	return e
}

// IsInput reports whether the event belongs in a player's input buffer.
func (e Event) IsInput() bool {
	return e.Kind == KindDirection
}
