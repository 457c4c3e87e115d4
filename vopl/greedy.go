package vopl

// Vertex is one mesh corner; Color is a palette index.
type Vertex struct {
	Position [3]float32
	Color    uint8
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Quads is the number of faces in the mesh.
func (m *Mesh) Quads() int { return len(m.Indices) / 6 }

type dirSpec struct {
	normal [3]float32
	u, v   int
	du, dv [3]int
}

var directions = []dirSpec{
	{[3]float32{1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{-1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, -1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 0, 1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
	{[3]float32{0, 0, -1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
}

func addQuad(mesh *Mesh, dir dirSpec, start [3]int, w, h int, color uint8, perp int) {
	base := [3]float32{}
	base[perp] = float32(start[0])
	if dir.normal[perp] > 0 {
		base[perp] += 1
	}
	base[dir.u] = float32(start[1])
	base[dir.v] = float32(start[2])

	corner := func(a, b int) Vertex {
		var p [3]float32
		for k := range p {
			p[k] = base[k] + float32(dir.du[k]*a+dir.dv[k]*b)
		}
		return Vertex{Position: p, Color: color}
	}
	verts := [4]Vertex{corner(0, 0), corner(h, 0), corner(h, w), corner(0, w)}

	// keep counter-clockwise winding facing outwards
	if (dir.normal[perp] < 0) != (perp == 1) {
		verts[1], verts[3] = verts[3], verts[1]
	}

	baseIdx := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, verts[:]...)
	mesh.Indices = append(mesh.Indices, baseIdx, baseIdx+1, baseIdx+2, baseIdx, baseIdx+2, baseIdx+3)
}

// GenerateMesh greedily merges exposed voxel faces of equal color into
// rectangles. Positions are in voxel units with the box corner at the origin.
func GenerateMesh(src Voxels) *Mesh {
	mesh := &Mesh{}
	w, h, d := src.Dims()
	dims := [3]int{w, h, d}
	at := func(pos [3]int) uint8 { return src.At(pos[0], pos[1], pos[2]) }

	for _, dir := range directions {
		perp := 3 - dir.u - dir.v
		nu, nv := dims[dir.u], dims[dir.v]
		mask := make([]uint8, nu*nv)
		visited := make([]bool, nu*nv)

		for p := 0; p < dims[perp]; p++ {
			clear(mask)
			clear(visited)
			for u := 0; u < nu; u++ {
				for v := 0; v < nv; v++ {
					var pos [3]int
					pos[dir.u], pos[dir.v], pos[perp] = u, v, p
					voxel := at(pos)
					if voxel == 0 {
						continue
					}
					adj := pos
					if dir.normal[perp] < 0 {
						adj[perp] = p - 1
					} else {
						adj[perp] = p + 1
					}
					if adj[perp] < 0 || adj[perp] >= dims[perp] || at(adj) == 0 {
						mask[u*nv+v] = voxel
					}
				}
			}

			for u := 0; u < nu; u++ {
				for v := 0; v < nv; {
					color := mask[u*nv+v]
					if color == 0 || visited[u*nv+v] {
						v++
						continue
					}
					width := 1
					for x := v + 1; x < nv && mask[u*nv+x] == color && !visited[u*nv+x]; x++ {
						width++
					}
					height := 1
				grow:
					for hu := u + 1; hu < nu; hu++ {
						for x := v; x < v+width; x++ {
							if mask[hu*nv+x] != color || visited[hu*nv+x] {
								break grow
							}
						}
						height++
					}
					for hu := u; hu < u+height; hu++ {
						for x := v; x < v+width; x++ {
							visited[hu*nv+x] = true
						}
					}
					addQuad(mesh, dir, [3]int{p, u, v}, width, height, color, perp)
					v += width
				}
			}
		}
	}
	return mesh
}
