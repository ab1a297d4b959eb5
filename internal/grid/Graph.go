package grid

import (
	"errors"
	"fmt"
	"iter"
)

const (
	DefaultWidth = 100
	MaxWidth     = 1000
)

var ErrInvalidWidth = errors.New("grid width out of range")

type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Graph is a square lattice of nodes stored in one arena. Links are arena
// indices and never change once the graph is built.
type Graph struct {
	width   int
	nodes   []Node
	present []bool
	count   int
}

// NewGraph builds a width x width lattice with one node per cell, leaving out the
// given holes, and links every node to its orthogonal neighbors.
func NewGraph(width int, holes ...Point) (*Graph, error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("width %d not in [1,%d]: %w", width, MaxWidth, ErrInvalidWidth)
	}

	g := &Graph{
		width:   width,
		nodes:   make([]Node, width*width),
		present: make([]bool, width*width),
	}

	skip := make(map[Point]bool, len(holes))
	for _, h := range holes {
		skip[h] = true
	}

	cells := make([][]*Node, width)
	for x := 0; x < width; x++ {
		cells[x] = make([]*Node, width)
		for y := 0; y < width; y++ {
			if skip[Point{X: x, Y: y}] {
				continue
			}
			i := g.index(x, y)
			g.nodes[i] = Node{
				X:         x,
				Y:         y,
				graph:     g,
				index:     i,
				neighbors: [4]int{noNeighbor, noNeighbor, noNeighbor, noNeighbor},
			}
			g.present[i] = true
			g.count++
			cells[x][y] = &g.nodes[i]
		}
	}
	autoLink(cells)

	return g, nil
}

func (g *Graph) Width() int {
	return g.width
}

// Len is the number of present nodes.
func (g *Graph) Len() int {
	return g.count
}

// Node returns the node at (x, y), or nil when the coordinate is outside the
// lattice or is a hole.
func (g *Graph) Node(x, y int) *Node {
	if x < 0 || x >= g.width || y < 0 || y >= g.width {
		return nil
	}
	return g.at(g.index(x, y))
}

func (g *Graph) NodeAt(p Point) *Node {
	return g.Node(p.X, p.Y)
}

// Nodes yields every present node, x-major.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := range g.nodes {
			if !g.present[i] {
				continue
			}
			if !yield(&g.nodes[i]) {
				return
			}
		}
	}
}

func (g *Graph) index(x, y int) int {
	return x*g.width + y
}

func (g *Graph) at(i int) *Node {
	if i < 0 || i >= len(g.nodes) || !g.present[i] {
		return nil
	}
	return &g.nodes[i]
}
