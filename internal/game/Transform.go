package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/Mshel/gridsnake/internal/grid"
)

// Mover is what a controller needs from the entity it drives.
type Mover interface {
	CurrentNode() *grid.Node
	Warp(node *grid.Node)
	CanMoveTo(direction grid.Direction) bool
	Move(direction grid.Direction)
	IsTransitionDone() bool
}

type SegmentKind int

const (
	SegmentHead SegmentKind = iota
	SegmentTail
)

type TransformEvents struct {
	// OnCollision fires on a transform already standing on a node when another arrives.
	OnCollision func(self, other *Transform)
}

// Transform places an entity on a grid node and tracks the visual transition
// from the previous node. Progress runs from 0 to 1; speed is in cells per second
// and a speed of zero makes every move instant.
type Transform struct {
	ID     uuid.UUID
	Owner  string
	Kind   SegmentKind
	Events TransformEvents

	node     *grid.Node
	previous *grid.Node
	progress float64
	speed    float64
}

func NewTransform(owner string, kind SegmentKind, speed float64) *Transform {
	return &Transform{
		ID:       uuid.New(),
		Owner:    owner,
		Kind:     kind,
		speed:    speed,
		progress: 1,
	}
}

func (t *Transform) CurrentNode() *grid.Node {
	return t.node
}

// Warp places the transform on node with no transition.
func (t *Transform) Warp(node *grid.Node) {
	if t.node != nil {
		t.node.Detach(t)
	}
	t.node = node
	t.previous = node
	t.progress = 1
	if node != nil {
		node.Attach(t)
	}
}

func (t *Transform) CanMoveTo(direction grid.Direction) bool {
	return t.node != nil && t.node.Neighbor(direction) != nil
}

func (t *Transform) Move(direction grid.Direction) {
	if t.node == nil {
		return
	}
	next := t.node.Neighbor(direction)
	if next == nil {
		return
	}
	t.moveTo(next)
}

// Follow steps onto node, which is expected to be the current node or adjacent to it.
func (t *Transform) Follow(node *grid.Node) {
	switch {
	case node == nil || node == t.node:
		return
	case t.node != nil && t.node.IsAdjacent(node):
		t.moveTo(node)
	default:
		t.Warp(node)
	}
}

// Remove takes the transform off the grid.
func (t *Transform) Remove() {
	if t.node != nil {
		t.node.Detach(t)
	}
	t.node = nil
	t.previous = nil
	t.progress = 1
}

func (t *Transform) IsTransitionDone() bool {
	return t.progress >= 1
}

// Advance moves the transition forward by dt.
func (t *Transform) Advance(dt time.Duration) {
	if t.progress >= 1 {
		return
	}
	if t.speed <= 0 {
		t.progress = 1
		return
	}
	t.progress = min(1, t.progress+t.speed*dt.Seconds())
}

// Target is the interpolated world position between the previous and current node.
func (t *Transform) Target() (x, y float64) {
	if t.node == nil {
		return 0, 0
	}
	if t.previous == nil || t.progress >= 1 {
		return float64(t.node.X), float64(t.node.Y)
	}
	x = float64(t.previous.X) + (float64(t.node.X-t.previous.X))*t.progress
	y = float64(t.previous.Y) + (float64(t.node.Y-t.previous.Y))*t.progress
	return x, y
}

func (t *Transform) OnCollision(other grid.Occupant) {
	if t.Events.OnCollision == nil {
		return
	}
	if o, ok := other.(*Transform); ok {
		t.Events.OnCollision(t, o)
	}
}

func (t *Transform) moveTo(next *grid.Node) {
	t.previous = t.node
	t.node.Detach(t)
	t.node = next
	t.progress = 0
	if t.speed <= 0 {
		t.progress = 1
	}
	next.Attach(t)
}
