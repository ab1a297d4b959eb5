package game

import (
	"math"

	"github.com/Mshel/gridsnake/internal/grid"
)

func GetManhattanDistance(a, b grid.Point) int {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return int(dx + dy)
}

// isFree reports whether a node exists and nothing stands on it.
func isFree(node *grid.Node) bool {
	return node != nil && !node.IsOccupied()
}

func countFreeNeighbors(node *grid.Node) int {
	count := 0
	for neighbor := range node.Neighbors() {
		if isFree(neighbor) {
			count++
		}
	}
	return count
}
