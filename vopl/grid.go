// Package vopl reads and writes the VOPL voxel chunk format and its
// .voplpack container, and meshes voxel data for glTF export.
package vopl

import "fmt"

const (
	Height = 16
	Width  = 16
	Depth  = 16

	cells = Width * Height * Depth
)

// Voxels is any box of palette indices; 0 is empty.
type Voxels interface {
	Dims() (w, h, d int)
	At(x, y, z int) uint8
}

// VoxelGrid[y][x][z]
type VoxelGrid [Height][Width][Depth]uint8

func (g *VoxelGrid) Dims() (int, int, int) { return Width, Height, Depth }

// At returns the voxel at (x, y, z), or 0 outside the chunk.
func (g *VoxelGrid) At(x, y, z int) uint8 {
	if x < 0 || x >= Width || y < 0 || y >= Height || z < 0 || z >= Depth {
		return 0
	}
	return g[y][x][z]
}

// Count is the number of non-empty voxels.
func (g *VoxelGrid) Count() int {
	n := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			for z := 0; z < Depth; z++ {
				if g[y][x][z] != 0 {
					n++
				}
			}
		}
	}
	return n
}

// GridFrom copies the 16³ block of src starting at (ox, oy, oz). Cells past
// the edge of src stay empty.
func GridFrom(src Voxels, ox, oy, oz int) *VoxelGrid {
	grid := new(VoxelGrid)
	w, h, d := src.Dims()
	for y := 0; y < Height && oy+y < h; y++ {
		for x := 0; x < Width && ox+x < w; x++ {
			for z := 0; z < Depth && oz+z < d; z++ {
				grid[y][x][z] = src.At(ox+x, oy+y, oz+z)
			}
		}
	}
	return grid
}

// ChunkName is the pack entry name for the chunk at origin (ox, oy, oz).
func ChunkName(ox, oy, oz int) string {
	return fmt.Sprintf("chunk_%d_%d_%d.vopl", ox/Width, oy/Height, oz/Depth)
}
