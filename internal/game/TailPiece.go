package game

import "github.com/Mshel/gridsnake/internal/grid"

// TailPiece is one trailing segment. It replays the position of the segment
// directly ahead of it, one tick late.
type TailPiece struct {
	leader    Mover
	transform *Transform
}

// NewTailPiece puts transform on the leader's node.
func NewTailPiece(leader Mover, transform *Transform) *TailPiece {
	transform.Warp(leader.CurrentNode())
	return &TailPiece{leader: leader, transform: transform}
}

// UpdatePosition moves the piece to where its leader stands now. Call it before the
// leader moves.
func (tp *TailPiece) UpdatePosition() {
	tp.transform.Follow(tp.leader.CurrentNode())
}

func (tp *TailPiece) Leader() Mover {
	return tp.leader
}

func (tp *TailPiece) Transform() *Transform {
	return tp.transform
}

func (tp *TailPiece) CurrentNode() *grid.Node {
	return tp.transform.CurrentNode()
}
