// Package ldraw converts a voxel volume into an LDraw model built from
// standard 2x2-footprint bricks.
//
// Every volume cell becomes one 2x2 stud footprint (40 LDU square) one brick
// high (24 LDU). Vertical runs of three filled cells are merged into a tall
// 2x2x3 brick first; what remains on each layer is tiled greedily with 2x6,
// 2x4 and 2x2 bricks in either orientation.
package ldraw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	CellLDU        = 40
	BrickHeightLDU = 24
)

// Rotation is a row-major 3x3 LDraw transform.
type Rotation [9]int

var (
	RotIdentity = Rotation{1, 0, 0, 0, 1, 0, 0, 0, 1}
	RotY90      = Rotation{0, 0, 1, 0, 1, 0, -1, 0, 0}
)

// Part is a brick shape measured in cells.
type Part struct {
	ID     string
	SizeX  int
	SizeZ  int
	Height int
}

var (
	Part2x2   = Part{ID: "3003.dat", SizeX: 1, SizeZ: 1, Height: 1}
	Part2x4   = Part{ID: "3001.dat", SizeX: 2, SizeZ: 1, Height: 1}
	Part2x6   = Part{ID: "2456.dat", SizeX: 3, SizeZ: 1, Height: 1}
	Part2x2x3 = Part{ID: "30145.dat", SizeX: 1, SizeZ: 1, Height: 3}
)

// Brick is one placed part; X, Y, Z is its center in LDU.
type Brick struct {
	Part    string
	X, Y, Z int
	Rot     Rotation
}

// Grid is the occupancy source; any nonzero cell is filled.
type Grid interface {
	Dims() (w, h, d int)
	At(x, y, z int) uint8
}

func place(p Part, x, y, z int, rot Rotation, sizeX, sizeZ int) Brick {
	widthX := sizeX * CellLDU
	widthZ := sizeZ * CellLDU
	height := p.Height * BrickHeightLDU
	return Brick{
		Part: p.ID,
		X:    x*CellLDU + widthX/2,
		Y:    y*BrickHeightLDU + height/2,
		Z:    z*CellLDU + widthZ/2,
		Rot:  rot,
	}
}

// Bricks covers every filled cell of g with exactly one brick.
func Bricks(g Grid) []Brick {
	w, h, d := g.Dims()
	covered := make([]bool, w*h*d)
	idx := func(x, y, z int) int { return (y*w+x)*d + z }
	filled := func(x, y, z int) bool { return g.At(x, y, z) != 0 }
	free := func(x, y, z int) bool { return filled(x, y, z) && !covered[idx(x, y, z)] }

	var bricks []Brick
	for y := 0; y+2 < h; y++ {
		for z := 0; z < d; z++ {
			for x := 0; x < w; x++ {
				if !free(x, y, z) || !free(x, y+1, z) || !free(x, y+2, z) {
					continue
				}
				bricks = append(bricks, place(Part2x2x3, x, y, z, RotIdentity, 1, 1))
				for dy := 0; dy < 3; dy++ {
					covered[idx(x, y+dy, z)] = true
				}
			}
		}
	}

	fits := func(x, y, z, sx, sz int) bool {
		if x+sx > w || z+sz > d {
			return false
		}
		for dz := 0; dz < sz; dz++ {
			for dx := 0; dx < sx; dx++ {
				if !free(x+dx, y, z+dz) {
					return false
				}
			}
		}
		return true
	}
	mark := func(x, y, z, sx, sz int) {
		for dz := 0; dz < sz; dz++ {
			for dx := 0; dx < sx; dx++ {
				covered[idx(x+dx, y, z+dz)] = true
			}
		}
	}
	// longest first; each length along x, then rotated along z
	tiles := []struct {
		part   Part
		sx, sz int
		rot    Rotation
	}{
		{Part2x6, 3, 1, RotIdentity},
		{Part2x6, 1, 3, RotY90},
		{Part2x4, 2, 1, RotIdentity},
		{Part2x4, 1, 2, RotY90},
		{Part2x2, 1, 1, RotIdentity},
	}
	for y := 0; y < h; y++ {
		for z := 0; z < d; z++ {
			for x := 0; x < w; x++ {
				if !free(x, y, z) {
					continue
				}
				for _, t := range tiles {
					if fits(x, y, z, t.sx, t.sz) {
						bricks = append(bricks, place(t.part, x, y, z, t.rot, t.sx, t.sz))
						mark(x, y, z, t.sx, t.sz)
						break
					}
				}
			}
		}
	}
	return bricks
}

// Line formats b as an LDraw type-1 line.
func (b Brick) Line(color int) string {
	r := b.Rot
	return fmt.Sprintf("1 %d %d %d %d %d %d %d %d %d %d %d %d %d %s",
		color, b.X, b.Y, b.Z, r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8], b.Part)
}

// Write emits a complete model: the header lines, then one line per brick.
func Write(w io.Writer, bricks []Brick, color int, title, filename string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "0 FILE %s\n", filename)
	fmt.Fprintf(bw, "0 Name: %s\n", title)
	fmt.Fprintln(bw, "0 Author: hilbert-curve-brick")
	fmt.Fprintln(bw, "0 !LDRAW_ORG Unofficial_Model")
	fmt.Fprintln(bw, "0 !LICENSE Redistributable under CC BY-SA 4.0")
	for _, b := range bricks {
		fmt.Fprintln(bw, b.Line(color))
	}
	return bw.Flush()
}

// WriteFile writes the model to path, creating its directory if needed.
func WriteFile(path string, bricks []Brick, color int, title string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, bricks, color, title, filepath.Base(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
