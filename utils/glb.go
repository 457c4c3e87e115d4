package utils

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/vosslab/hilbert-curve-brick/logger"
	"github.com/vosslab/hilbert-curve-brick/vopl"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// BuildGLBDocument meshes src and returns a single-node glTF document with
// per-vertex colors taken from pal. The model is centred on x and z and
// rests on y = 0.
func BuildGLBDocument(src vopl.Voxels, pal vopl.Palette, name string) (*gltf.Document, error) {
	mesh := vopl.GenerateMesh(src)
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("glb: volume has no filled voxels")
	}
	w, _, d := src.Dims()
	cx, cz := float32(w)/2, float32(d)/2

	positions := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]float32, len(mesh.Vertices))
	hasAlpha := false
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{v.Position[0] - cx, v.Position[1], v.Position[2] - cz}
		rgba, err := pal.RGBA(v.Color)
		if err != nil {
			return nil, err
		}
		colors[i] = rgba
		if rgba[3] < 1.0 {
			hasAlpha = true
		}
	}

	// flat normals per face
	normals := make([][3]float32, len(positions))
	for i := 0; i < len(mesh.Indices); i += 3 {
		v0, v1, v2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		p0, p1, p2 := positions[v0], positions[v1], positions[v2]
		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		if l := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))); l > 0 {
			n[0], n[1], n[2] = n[0]/l, n[1]/l, n[2]/l
		}
		normals[v0], normals[v1], normals[v2] = n, n, n
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "hilbert-curve-brick"

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			gltf.COLOR_0:  modeler.WriteColor(doc, colors),
		},
		Indices:  gltf.Index(modeler.WriteIndices(doc, mesh.Indices)),
		Material: gltf.Index(0),
	}

	material := &gltf.Material{
		Name: "curve",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}
	doc.Meshes = []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// GLBBytes returns the binary glTF for src.
func GLBBytes(src vopl.Voxels, pal vopl.Palette, name string) ([]byte, error) {
	doc, err := BuildGLBDocument(src, pal, name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("glb: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// RunGLB writes src as a .glb file.
func RunGLB(src vopl.Voxels, pal vopl.Palette, name, outPath string, log *logger.Logger) error {
	defer log.Step("glb export")()
	data, err := GLBBytes(src, pal, name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("glb: %w", err)
	}
	log.Saved(".glb", outPath)
	return nil
}
