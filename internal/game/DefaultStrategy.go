package game

import (
	"math"

	"github.com/Mshel/gridsnake/internal/grid"
)

// Strategy picks the direction a bot asks for next.
type Strategy interface {
	getNextBestDirection(player *Player, gm *GameManager) grid.Direction
}

// DefaultStrategy keeps going straight while it can and otherwise turns toward
// the roomiest free cell, drifting back toward the middle of the grid.
type DefaultStrategy struct{}

func (s *DefaultStrategy) getNextBestDirection(player *Player, gm *GameManager) grid.Direction {
	current := player.Head().CurrentNode()
	if current == nil {
		return player.Direction()
	}

	// --- 1. Collect moves that are not a reversal and land on a free node ---
	validMoves := make(map[grid.Direction]*grid.Node)
	for _, dir := range grid.Directions {
		if dir.IsOpposite(player.Direction()) {
			continue
		}
		next := current.Neighbor(dir)
		if !isFree(next) {
			continue
		}
		validMoves[dir] = next
	}

	if len(validMoves) == 0 {
		return player.Direction() // Trapped
	}

	// --- 2. Inertia: keep the facing while it has room to breathe ---
	if next, ok := validMoves[player.Direction()]; ok && countFreeNeighbors(next) >= 2 {
		return player.Direction()
	}

	// --- 3. Otherwise the roomiest cell, ties broken toward the center ---
	width := gm.Graph.Width()
	center := grid.Point{X: width / 2, Y: width / 2}
	bestDir := player.Direction()
	bestScore := math.MinInt32

	for _, dir := range grid.Directions {
		next, ok := validMoves[dir]
		if !ok {
			continue
		}
		score := countFreeNeighbors(next)*width*2 - GetManhattanDistance(next.Position(), center)
		if score > bestScore {
			bestScore = score
			bestDir = dir
		}
	}
	return bestDir
}
