// Package volume builds the solid brick model of a Hilbert curve: a voxel
// lattice where every curve point and every step between two points is a
// filled cell. The VOPL, glTF and LDraw exporters all read from it.
package volume

import (
	"github.com/vosslab/hilbert-curve-brick/gradient"
	"github.com/vosslab/hilbert-curve-brick/hilbert"
)

// Volume is a W×H×D voxel box. Y is the vertical (build) axis. A cell value
// of 0 is empty; anything else is a palette slot.
type Volume struct {
	W, H, D int
	Cells   []uint8 // laid out [y][x][z]
}

// New allocates an empty volume.
func New(w, h, d int) *Volume {
	return &Volume{W: w, H: h, D: d, Cells: make([]uint8, w*h*d)}
}

func (v *Volume) index(x, y, z int) int { return (y*v.W+x)*v.D + z }

// Dims returns the box size as (w, h, d).
func (v *Volume) Dims() (int, int, int) { return v.W, v.H, v.D }

// In reports whether (x, y, z) lies inside the box.
func (v *Volume) In(x, y, z int) bool {
	return x >= 0 && x < v.W && y >= 0 && y < v.H && z >= 0 && z < v.D
}

// At returns the cell at (x, y, z), or 0 outside the box.
func (v *Volume) At(x, y, z int) uint8 {
	if !v.In(x, y, z) {
		return 0
	}
	return v.Cells[v.index(x, y, z)]
}

// Set writes a cell; writes outside the box are ignored.
func (v *Volume) Set(x, y, z int, c uint8) {
	if v.In(x, y, z) {
		v.Cells[v.index(x, y, z)] = c
	}
}

// Count is the number of filled cells.
func (v *Volume) Count() int {
	n := 0
	for _, c := range v.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// Build lays curve c onto a (2d+1)³ lattice. Point p sits at 2p+1, leaving
// a one-cell border and an empty cell between neighbours; each step from
// point i-1 to i fills that gap with the color of point i-1. shade maps an
// order index to a nonzero cell value.
func Build(c *hilbert.Curve, shade func(order uint64) uint8) *Volume {
	side := 2*c.Dimension + 1
	v := New(side, side, side)
	var prev hilbert.Point
	for i, p := range c.Points {
		v.Set(2*p.X+1, 2*p.Y+1, 2*p.Z+1, nonzero(shade(uint64(i))))
		if i > 0 {
			v.Set(p.X+prev.X+1, p.Y+prev.Y+1, p.Z+prev.Z+1, nonzero(shade(uint64(i-1))))
		}
		prev = p
	}
	return v
}

func nonzero(c uint8) uint8 {
	if c == 0 {
		return 1
	}
	return c
}

// Solid is a shade that fills every cell with slot 1.
func Solid(uint64) uint8 { return 1 }

// Shade spreads n order indices over palette slots 1..levels.
func Shade(n uint64, levels int) func(order uint64) uint8 {
	if levels < 1 {
		levels = 1
	}
	if levels > 255 {
		levels = 255
	}
	return func(order uint64) uint8 {
		return uint8(1 + gradient.Quantize(gradient.Position(order, n), levels))
	}
}

// Scale zooms the volume by sxz along x and z and by sy along y, nearest
// neighbour. Factors below 1 are treated as 1.
func (v *Volume) Scale(sxz, sy int) *Volume {
	if sxz < 1 {
		sxz = 1
	}
	if sy < 1 {
		sy = 1
	}
	if sxz == 1 && sy == 1 {
		out := New(v.W, v.H, v.D)
		copy(out.Cells, v.Cells)
		return out
	}
	out := New(v.W*sxz, v.H*sy, v.D*sxz)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			row := v.index(x/sxz, y/sy, 0)
			for z := 0; z < out.D; z++ {
				out.Cells[out.index(x, y, z)] = v.Cells[row+z/sxz]
			}
		}
	}
	return out
}

// ComputeScale picks the largest power-of-two scale with
// (2d+2)*scale <= target, and never less than 1.
func ComputeScale(d, target int) int {
	unit := 2*d + 2
	scale := 1
	for unit*scale*2 <= target {
		scale *= 2
	}
	return scale
}

// Chunks calls fn with the origin of every size³ block that holds at least
// one filled cell, walking y, then x, then z. A non-nil error from fn stops
// the walk and is returned.
func (v *Volume) Chunks(size int, fn func(ox, oy, oz int) error) error {
	if size < 1 {
		size = 1
	}
	for oy := 0; oy < v.H; oy += size {
		for ox := 0; ox < v.W; ox += size {
			for oz := 0; oz < v.D; oz += size {
				if !v.anyIn(ox, oy, oz, size) {
					continue
				}
				if err := fn(ox, oy, oz); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (v *Volume) anyIn(ox, oy, oz, size int) bool {
	for y := oy; y < oy+size && y < v.H; y++ {
		for x := ox; x < ox+size && x < v.W; x++ {
			for z := oz; z < oz+size && z < v.D; z++ {
				if v.Cells[v.index(x, y, z)] != 0 {
					return true
				}
			}
		}
	}
	return false
}
