package grid

import (
	"errors"
	"strings"
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ErrInvalidDirection is returned when a vector is not one of the four cardinal unit vectors.
var ErrInvalidDirection = errors.New("unrecognized direction, directions can only be left, right, up or down")

// Directions lists the cardinal directions in neighbor enumeration order.
var Directions = []Direction{Left, Right, Up, Down}

// Vec2 is a raw 2D vector. Up is +Y, matching lattice coordinates.
type Vec2 struct {
	X, Y int
}

var (
	VecLeft  = Vec2{X: -1, Y: 0}
	VecRight = Vec2{X: 1, Y: 0}
	VecUp    = Vec2{X: 0, Y: 1}
	VecDown  = Vec2{X: 0, Y: -1}
)

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// IsOpposite reports whether d and other form the up/down or the left/right pair.
func (d Direction) IsOpposite(other Direction) bool {
	return d.Valid() && other.Valid() && d.Opposite() == other
}

func (d Direction) Vector() Vec2 {
	switch d {
	case Up:
		return VecUp
	case Down:
		return VecDown
	case Left:
		return VecLeft
	case Right:
		return VecRight
	}
	return Vec2{}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// DirectionFromVector maps a canonical unit vector to its direction.
func DirectionFromVector(v Vec2) (Direction, error) {
	switch v {
	case VecLeft:
		return Left, nil
	case VecRight:
		return Right, nil
	case VecUp:
		return Up, nil
	case VecDown:
		return Down, nil
	}
	return Up, ErrInvalidDirection
}

// ParseDirection accepts "up", "down", "left" and "right", case insensitive.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Up, false
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return ErrInvalidDirection
	}
	*d = parsed
	return nil
}
