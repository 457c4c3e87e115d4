package vopl

import "sort"

// mortonOrder[rank] is the linear index (y, z, x nesting) of the voxel
// stored at position rank of the payload stream.
var mortonOrder = buildMortonOrder()

func buildMortonOrder() []int {
	type kv struct {
		key uint64
		i   int
	}
	idx := make([]kv, 0, cells)
	i := 0
	for y := 0; y < Height; y++ {
		for z := 0; z < Depth; z++ {
			for x := 0; x < Width; x++ {
				idx = append(idx, kv{Morton3D64(uint32(x), uint32(y), uint32(z)), i})
				i++
			}
		}
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a].key < idx[b].key })
	order := make([]int, cells)
	for rank := range idx {
		order[rank] = idx[rank].i
	}
	return order
}

// flatten returns the grid as a Morton-ordered stream.
func flatten(grid *VoxelGrid) []uint8 {
	lin := make([]uint8, cells)
	p := 0
	for y := 0; y < Height; y++ {
		for z := 0; z < Depth; z++ {
			for x := 0; x < Width; x++ {
				lin[p] = grid[y][x][z]
				p++
			}
		}
	}
	stream := make([]uint8, cells)
	for rank, src := range mortonOrder {
		stream[rank] = lin[src]
	}
	return stream
}

// applyOrder fills grid from a Morton-ordered stream.
func applyOrder(grid *VoxelGrid, stream []uint8) {
	back := make([]uint8, cells)
	for rank, src := range mortonOrder {
		back[src] = stream[rank]
	}
	p := 0
	for y := 0; y < Height; y++ {
		for z := 0; z < Depth; z++ {
			for x := 0; x < Width; x++ {
				grid[y][x][z] = back[p]
				p++
			}
		}
	}
}

// Morton3D64 interleaves the low 21 bits of x, y and z.
func Morton3D64(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) |
		(part1By2(uint64(y)) << 1) |
		(part1By2(uint64(z)) << 2)
}

func MortonDecode3D64(index uint64) (x, y, z uint32) {
	x = uint32(compact1By2(index))
	y = uint32(compact1By2(index >> 1))
	z = uint32(compact1By2(index >> 2))
	return
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}
