package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mshel/gridsnake/internal/event"
	"github.com/Mshel/gridsnake/internal/grid"
)

type testRig struct {
	graph  *grid.Graph
	bus    *event.Bus
	head   *Transform
	player *Player
}

type recordingDestroyer struct {
	calls  int
	leader Mover
	tail   []*TailPiece
}

func (d *recordingDestroyer) Destroy(leader Mover, tail []*TailPiece) {
	d.calls++
	d.leader = leader
	d.tail = tail
}

func newTestRig(t *testing.T, width int, spawn grid.Point) *testRig {
	t.Helper()
	graph, err := grid.NewGraph(width)
	require.NoError(t, err)

	bus := event.NewBus()
	head := NewTransform("", SegmentHead, 0)
	player := CreateNewPlayer("tester", head, bus, func() *Transform {
		return NewTransform("", SegmentTail, 0)
	})
	player.Metrics = &Metrics{}
	head.Warp(graph.NodeAt(spawn))

	return &testRig{graph: graph, bus: bus, head: head, player: player}
}

func (r *testRig) press(d grid.Direction) {
	r.bus.Broadcast(event.CategoryInput, r.player.InputSubcategory(), event.NewDirectionEvent(d))
}

func (r *testRig) headAt() grid.Point {
	return r.head.CurrentNode().Position()
}

func (r *testRig) positions() []grid.Point {
	out := []grid.Point{r.headAt()}
	for _, piece := range r.player.TailPieces() {
		out = append(out, piece.CurrentNode().Position())
	}
	return out
}

func TestPlayer_MovesUpFromOrigin(t *testing.T) {
	rig := newTestRig(t, grid.DefaultWidth, grid.Point{X: 0, Y: 0})

	assert.Equal(t, grid.Up, rig.player.Direction())
	assert.True(t, rig.head.CanMoveTo(grid.Up))
	assert.False(t, rig.head.CanMoveTo(grid.Down))
	assert.False(t, rig.head.CanMoveTo(grid.Left))

	rig.player.Tick()

	assert.Equal(t, grid.Point{X: 0, Y: 1}, rig.headAt())
	assert.False(t, rig.graph.Node(0, 0).IsOccupied())
	assert.Equal(t, []grid.Occupant{rig.head}, rig.graph.Node(0, 1).Occupants())
}

func TestPlayer_SetDirectionNeverReverses(t *testing.T) {
	rig := newTestRig(t, 10, grid.Point{X: 5, Y: 5})

	for _, d := range grid.Directions {
		rig.player.direction = d
		assert.False(t, rig.player.setDirection(d.Opposite()), "%s then %s", d, d.Opposite())
		assert.Equal(t, d, rig.player.Direction())

		for _, other := range grid.Directions {
			if other == d.Opposite() {
				continue
			}
			rig.player.direction = d
			assert.True(t, rig.player.setDirection(other), "%s then %s", d, other)
			assert.Equal(t, other, rig.player.Direction())
		}
	}
}

func TestPlayer_ReversalIsRetriedOnceThenDropped(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 5})
	rig.press(grid.Down)

	rig.player.Tick()
	queued := rig.player.QueuedInput()
	require.Len(t, queued, 1)
	assert.True(t, queued[0].Reenqueued)
	assert.Equal(t, grid.Down, queued[0].Direction)
	assert.Equal(t, grid.Up, rig.player.Direction())

	rig.player.Tick()
	assert.Empty(t, rig.player.QueuedInput())
	assert.Equal(t, grid.Up, rig.player.Direction())

	rig.player.Tick()
	assert.Equal(t, grid.Up, rig.player.Direction())
	assert.Equal(t, grid.Point{X: 5, Y: 8}, rig.headAt())

	assert.EqualValues(t, 1, rig.player.Metrics.InputsReenqueued)
	assert.EqualValues(t, 1, rig.player.Metrics.InputsDropped)
}

func TestPlayer_RepeatedReversalEachGetsOneRetry(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 5})

	rig.press(grid.Down)
	rig.player.Tick()
	rig.press(grid.Down)
	rig.player.Tick()

	// the first request is gone, the second one waits for its retry
	queued := rig.player.QueuedInput()
	require.Len(t, queued, 1)
	assert.True(t, queued[0].Reenqueued)

	rig.player.Tick()
	assert.Empty(t, rig.player.QueuedInput())
	assert.Equal(t, grid.Up, rig.player.Direction())
}

func TestPlayer_OneTurnPerTickAndQueueTrim(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 5})

	rig.press(grid.Right)
	rig.press(grid.Up)
	rig.press(grid.Left)
	rig.press(grid.Down)

	rig.player.Tick()

	assert.Equal(t, grid.Right, rig.player.Direction())
	assert.Equal(t, grid.Point{X: 6, Y: 5}, rig.headAt())
	queued := rig.player.QueuedInput()
	require.Len(t, queued, 1)
	assert.Equal(t, grid.Down, queued[0].Direction)
	assert.False(t, queued[0].Reenqueued)

	rig.player.Tick()
	assert.Equal(t, grid.Down, rig.player.Direction())
	assert.Equal(t, grid.Point{X: 6, Y: 4}, rig.headAt())
}

func TestPlayer_TrimKeepsNewestAfterFailures(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 5})

	rig.press(grid.Down)
	rig.press(grid.Down)
	rig.press(grid.Down)
	rig.player.Tick()

	queued := rig.player.QueuedInput()
	require.Len(t, queued, 1)
	assert.True(t, queued[0].Reenqueued)
	assert.Equal(t, grid.Up, rig.player.Direction())
}

func TestPlayer_GrowthIsOnePiecePerTick(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 0})
	rig.player.Grow(5)

	for tick := 1; tick <= 5; tick++ {
		rig.player.Tick()
		assert.Len(t, rig.player.TailPieces(), tick)
		assert.Equal(t, 5-tick, rig.player.PendingGrowth())
	}

	rig.player.Tick()
	assert.Len(t, rig.player.TailPieces(), 5)
	assert.Zero(t, rig.player.PendingGrowth())
	assert.EqualValues(t, 5, rig.player.Metrics.SegmentsGrown)
}

func TestPlayer_GrowThreeTrailsTheHead(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 5})
	rig.player.Grow(3)

	rig.player.Tick()
	rig.player.Tick()
	rig.player.Tick()

	assert.Equal(t, []grid.Point{
		{X: 5, Y: 8},
		{X: 5, Y: 7},
		{X: 5, Y: 6},
		{X: 5, Y: 5},
	}, rig.positions())

	tail := rig.player.TailPieces()
	assert.Same(t, rig.head, tail[0].Leader())
	assert.Same(t, tail[0].Transform(), tail[1].Leader())
	assert.Same(t, tail[1].Transform(), tail[2].Leader())
}

func TestPlayer_TailFollowsLeaderOneTickLate(t *testing.T) {
	rig := newTestRig(t, 30, grid.Point{X: 10, Y: 10})
	rig.player.Grow(6)

	turns := map[int]grid.Direction{3: grid.Right, 5: grid.Down, 8: grid.Left, 9: grid.Up, 12: grid.Right}
	for tick := 0; tick < 16; tick++ {
		if d, ok := turns[tick]; ok {
			rig.press(d)
		}

		before := rig.positions()
		rig.player.Tick()
		after := rig.positions()

		for i := 1; i < len(after); i++ {
			assert.Equal(t, before[i-1], after[i], "tick %d piece %d", tick, i-1)
		}
	}
	assert.Len(t, rig.player.TailPieces(), 6)
}

func TestPlayer_StallsAtBoundary(t *testing.T) {
	rig := newTestRig(t, 5, grid.Point{X: 2, Y: 4})
	rig.player.Grow(2)

	rig.player.Tick()

	assert.True(t, rig.player.Stalled())
	assert.Equal(t, grid.Point{X: 2, Y: 4}, rig.headAt())
	assert.Empty(t, rig.player.TailPieces())
	assert.Equal(t, 2, rig.player.PendingGrowth())
	assert.Zero(t, rig.player.Ticks())

	rig.press(grid.Left)
	rig.player.Tick()

	assert.False(t, rig.player.Stalled())
	assert.Equal(t, grid.Point{X: 1, Y: 4}, rig.headAt())
	assert.Len(t, rig.player.TailPieces(), 1)
}

func TestPlayer_WaitsForTransition(t *testing.T) {
	graph, err := grid.NewGraph(10)
	require.NoError(t, err)
	bus := event.NewBus()
	head := NewTransform("", SegmentHead, 10)
	player := CreateNewPlayer("slow", head, bus, func() *Transform { return NewTransform("", SegmentTail, 10) })
	head.Warp(graph.Node(5, 5))

	player.Tick()
	require.Equal(t, grid.Point{X: 5, Y: 6}, head.CurrentNode().Position())
	require.False(t, head.IsTransitionDone())

	bus.Broadcast(event.CategoryInput, player.InputSubcategory(), event.NewDirectionEvent(grid.Right))
	player.Grow(1)
	player.Tick()

	assert.Equal(t, grid.Point{X: 5, Y: 6}, head.CurrentNode().Position())
	assert.Equal(t, grid.Up, player.Direction())
	assert.Len(t, player.QueuedInput(), 1)
	assert.Equal(t, 1, player.PendingGrowth())

	head.Advance(200 * time.Millisecond)
	require.True(t, head.IsTransitionDone())
	player.Tick()

	assert.Equal(t, grid.Right, player.Direction())
	assert.Equal(t, grid.Point{X: 6, Y: 6}, head.CurrentNode().Position())
	assert.Len(t, player.TailPieces(), 1)
}

func TestPlayer_EventReactions(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 5})
	destroyer := &recordingDestroyer{}
	rig.player.Destroyer = destroyer

	rig.bus.Broadcast(event.CategoryGameState, event.SubNone, event.NewGrowEvent(DebugGrowAmount))
	assert.Equal(t, DebugGrowAmount, rig.player.PendingGrowth())

	rig.player.Tick()
	rig.player.Tick()
	tail := rig.player.TailPieces()
	require.Len(t, tail, 2)

	rig.bus.Broadcast(event.CategoryGameState, event.SubNone, event.NewGameOverEvent("someone-else"))
	assert.False(t, rig.player.IsDetached())

	rig.bus.Broadcast(event.CategoryGameState, event.SubNone, event.NewGameOverEvent(rig.player.ID))
	assert.True(t, rig.player.IsDetached())
	assert.Equal(t, 1, destroyer.calls)
	assert.Same(t, rig.head, destroyer.leader)
	assert.Equal(t, tail, destroyer.tail)
	assert.Zero(t, rig.bus.HandlerCount(event.CategoryInput, rig.player.InputSubcategory()))
	assert.Zero(t, rig.bus.HandlerCount(event.CategoryGameState, event.SubNone))

	// terminal: nothing reaches it any more
	rig.player.AcceptEvent(event.NewGrowEvent(3))
	rig.player.AcceptEvent(event.NewDirectionEvent(grid.Left))
	rig.player.Tick()
	rig.player.Detach()
	assert.Equal(t, DebugGrowAmount-2, rig.player.PendingGrowth())
	assert.Empty(t, rig.player.QueuedInput())
	assert.Equal(t, 1, destroyer.calls)
}

func TestPlayer_GlobalGameOver(t *testing.T) {
	rig := newTestRig(t, 20, grid.Point{X: 5, Y: 5})

	rig.bus.Broadcast(event.CategoryGameState, event.SubNone, event.NewGameOverEvent(""))

	assert.True(t, rig.player.IsDetached())
}
