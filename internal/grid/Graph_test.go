package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, width int, holes ...Point) *Graph {
	t.Helper()
	g, err := NewGraph(width, holes...)
	require.NoError(t, err)
	return g
}

func TestNewGraph_RejectsBadWidth(t *testing.T) {
	for _, width := range []int{0, -3, MaxWidth + 1} {
		_, err := NewGraph(width)
		assert.ErrorIs(t, err, ErrInvalidWidth, "width %d", width)
	}
}

func TestGraph_NeighborsAreSymmetric(t *testing.T) {
	g := buildGraph(t, 12, Point{X: 3, Y: 3}, Point{X: 0, Y: 5}, Point{X: 11, Y: 11})

	for node := range g.Nodes() {
		for _, d := range Directions {
			neighbor := node.Neighbor(d)
			if neighbor == nil {
				continue
			}
			assert.Same(t, node, neighbor.Neighbor(d.Opposite()),
				"(%d,%d) %s", node.X, node.Y, d)
		}
	}
}

func TestGraph_NodeOutOfBoundsIsNil(t *testing.T) {
	g := buildGraph(t, DefaultWidth)

	cases := []Point{
		{X: -1, Y: 0},
		{X: 0, Y: -1},
		{X: DefaultWidth, Y: 0},
		{X: 0, Y: DefaultWidth},
		{X: -50, Y: 500},
		{X: DefaultWidth, Y: DefaultWidth},
	}
	for _, p := range cases {
		assert.Nil(t, g.NodeAt(p), "(%d,%d)", p.X, p.Y)
	}

	corner := g.Node(DefaultWidth-1, DefaultWidth-1)
	require.NotNil(t, corner)
	assert.Equal(t, Point{X: DefaultWidth - 1, Y: DefaultWidth - 1}, corner.Position())
}

func TestGraph_BoundaryCellsHaveFewerLinks(t *testing.T) {
	g := buildGraph(t, 5)

	count := func(n *Node) int {
		c := 0
		for range n.Neighbors() {
			c++
		}
		return c
	}

	assert.Equal(t, 2, count(g.Node(0, 0)))
	assert.Equal(t, 3, count(g.Node(2, 0)))
	assert.Equal(t, 4, count(g.Node(2, 2)))
	assert.Nil(t, g.Node(0, 0).Neighbor(Left))
	assert.Nil(t, g.Node(0, 0).Neighbor(Down))
	assert.Same(t, g.Node(0, 1), g.Node(0, 0).Neighbor(Up))
	assert.Same(t, g.Node(1, 0), g.Node(0, 0).Neighbor(Right))
}

func TestGraph_HolesAreAbsent(t *testing.T) {
	g := buildGraph(t, 4, Point{X: 1, Y: 1})

	assert.Nil(t, g.Node(1, 1))
	assert.Equal(t, 15, g.Len())
	assert.Nil(t, g.Node(0, 1).Neighbor(Right))
	assert.Nil(t, g.Node(1, 0).Neighbor(Up))
	assert.Nil(t, g.Node(2, 1).Neighbor(Left))
	assert.Nil(t, g.Node(1, 2).Neighbor(Down))
}

func TestAutoLink_JaggedCells(t *testing.T) {
	g := buildGraph(t, 3)
	// relink a fresh copy of the arena using a jagged table with gaps
	for i := range g.nodes {
		g.nodes[i].neighbors = [4]int{noNeighbor, noNeighbor, noNeighbor, noNeighbor}
	}
	cells := [][]*Node{
		{g.Node(0, 0), g.Node(0, 1), g.Node(0, 2)},
		{g.Node(1, 0)},
		{nil, g.Node(2, 1)},
	}
	autoLink(cells)

	assert.Same(t, g.Node(1, 0), g.Node(0, 0).Neighbor(Right))
	assert.Nil(t, g.Node(0, 1).Neighbor(Right))
	assert.Nil(t, g.Node(1, 0).Neighbor(Right))
	assert.Nil(t, g.Node(2, 1).Neighbor(Left))
	assert.Nil(t, g.Node(2, 1).Neighbor(Down))
}
