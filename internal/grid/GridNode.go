package grid

import (
	"iter"
	"slices"
)

const noNeighbor = -1

// Occupant is anything that can stand on a node. Nodes keep plain references,
// they never own what stands on them.
type Occupant interface {
	OnCollision(other Occupant)
}

type Node struct {
	X, Y int

	graph     *Graph
	index     int
	neighbors [4]int
	occupants []Occupant
}

func (n *Node) Position() Point {
	return Point{X: n.X, Y: n.Y}
}

// Neighbor returns the node one step in direction d, or nil at a boundary.
func (n *Node) Neighbor(d Direction) *Node {
	if !d.Valid() {
		return nil
	}
	return n.graph.at(n.neighbors[d])
}

// NeighborFromVector resolves a raw unit vector to a neighbor. With recoverFromError set an
// unrecognized vector yields a nil node instead of ErrInvalidDirection.
func (n *Node) NeighborFromVector(v Vec2, recoverFromError bool) (*Node, error) {
	d, err := DirectionFromVector(v)
	if err != nil {
		if recoverFromError {
			return nil, nil
		}
		return nil, err
	}
	return n.Neighbor(d), nil
}

func (n *Node) IsAdjacent(other *Node) bool {
	if other == nil {
		return false
	}
	for _, d := range Directions {
		if n.Neighbor(d) == other {
			return true
		}
	}
	return false
}

// DirectionTo returns the direction leading from n to an adjacent node.
func (n *Node) DirectionTo(other *Node) (Direction, bool) {
	if other == nil {
		return Up, false
	}
	for _, d := range Directions {
		if n.Neighbor(d) == other {
			return d, true
		}
	}
	return Up, false
}

// Neighbors yields the present neighbors in left, right, up, down order.
func (n *Node) Neighbors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, d := range Directions {
			neighbor := n.Neighbor(d)
			if neighbor == nil {
				continue
			}
			if !yield(neighbor) {
				return
			}
		}
	}
}

// Attach registers o on the node after telling every current occupant, in
// attachment order, that o collided with it.
func (n *Node) Attach(o Occupant) {
	// callbacks may detach occupants or tear whole entities down
	present := slices.Clone(n.occupants)
	for _, existing := range present {
		existing.OnCollision(o)
	}
	n.occupants = append(n.occupants, o)
}

func (n *Node) Detach(o Occupant) {
	i := slices.Index(n.occupants, o)
	if i < 0 {
		return
	}
	n.occupants = slices.Delete(n.occupants, i, i+1)
}

func (n *Node) Occupants() []Occupant {
	return slices.Clone(n.occupants)
}

func (n *Node) IsOccupied() bool {
	return len(n.occupants) > 0
}

func (n *Node) link(d Direction, other *Node) {
	n.neighbors[d] = other.index
	other.neighbors[d.Opposite()] = n.index
}

// cellAt bounds-checks both axes of a possibly jagged cell table.
func cellAt(cells [][]*Node, x, y int) *Node {
	if x < 0 || x >= len(cells) {
		return nil
	}
	if y < 0 || y >= len(cells[x]) {
		return nil
	}
	return cells[x][y]
}

// autoLink links every present cell to its present orthogonal neighbors, both ways.
// Cells are indexed [x][y]; missing or out of range cells are simply not linked.
func autoLink(cells [][]*Node) {
	for x := range cells {
		for y := range cells[x] {
			node := cells[x][y]
			if node == nil {
				continue
			}
			if left := cellAt(cells, x-1, y); left != nil {
				node.link(Left, left)
			}
			if right := cellAt(cells, x+1, y); right != nil {
				node.link(Right, right)
			}
			if down := cellAt(cells, x, y-1); down != nil {
				node.link(Down, down)
			}
			if up := cellAt(cells, x, y+1); up != nil {
				node.link(Up, up)
			}
		}
	}
}
