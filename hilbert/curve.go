// Package hilbert builds the 3D Hilbert curve that fills a cube of
// power-of-two side.
//
// The curve is produced by recursive octant subdivision. At every level the
// local frame is rotated/reflected so the path through consecutive octants
// joins end to start; the recursion is unrolled into a per-digit walk over
// the curve index (see walk.go), so depth is log2(d) and no stack is used.
package hilbert

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxDimension bounds the cube side accepted by Generate. A curve of side
// 256 already holds 16M points.
const MaxDimension = 256

// ErrInvalidDimension is returned for a side that is < 1, not a power of
// two, or larger than MaxDimension.
var ErrInvalidDimension = errors.New("invalid dimension")

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Order returns log2(d) after validating d.
func Order(d int) (int, error) {
	if d < 1 {
		return 0, fmt.Errorf("%w: %d must be at least 1", ErrInvalidDimension, d)
	}
	if !IsPowerOfTwo(d) {
		return 0, fmt.Errorf("%w: %d is not a power of two", ErrInvalidDimension, d)
	}
	if d > MaxDimension {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrInvalidDimension, d, MaxDimension)
	}
	return bits.TrailingZeros(uint(d)), nil
}

// Curve is the ordered path through every cell of a d×d×d cube. The
// position of a point in Points is its order index.
type Curve struct {
	Dimension int
	Order     int
	Points    []Point
}

// Generate returns the Hilbert curve of side d. The result depends only on d.
func Generate(d int) (*Curve, error) {
	order, err := Order(d)
	if err != nil {
		return nil, err
	}
	n := d * d * d
	c := &Curve{Dimension: d, Order: order, Points: make([]Point, n)}
	for i := range c.Points {
		c.Points[i] = IndexToPoint(uint64(i), order)
	}
	return c, nil
}

// Len returns the number of points, d³.
func (c *Curve) Len() int { return len(c.Points) }

// Contains reports whether p lies inside the cube.
func (c *Curve) Contains(p Point) bool {
	d := c.Dimension
	return p.X >= 0 && p.X < d && p.Y >= 0 && p.Y < d && p.Z >= 0 && p.Z < d
}

// Index returns the order index of p, or false when p is outside the cube.
func (c *Curve) Index(p Point) (uint64, bool) {
	if !c.Contains(p) {
		return 0, false
	}
	return PointToIndex(p, c.Order), true
}
