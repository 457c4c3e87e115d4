package hilbert

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAxis is returned for slicing axes other than x, y or z.
var ErrInvalidAxis = errors.New("invalid axis")

// Axis names one of the three coordinate axes of the cube.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis accepts "x", "y" or "z" (any case).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: %q (want x, y or z)", ErrInvalidAxis, s)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Valid reports whether a is one of the three named axes.
func (a Axis) Valid() bool { return a >= AxisX && a <= AxisZ }

// Plane returns the two axes spanning a slice perpendicular to a, as
// (column axis, row axis).
func (a Axis) Plane() (Axis, Axis) {
	switch a {
	case AxisX:
		return AxisY, AxisZ
	case AxisY:
		return AxisX, AxisZ
	default:
		return AxisX, AxisY
	}
}

// Point is one unit cell of the d×d×d volume.
type Point struct {
	X, Y, Z int
}

// Coord returns the coordinate of p along a.
func (p Point) Coord(a Axis) int {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// Manhattan returns the L1 distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y) + abs(p.Z-q.Z)
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
