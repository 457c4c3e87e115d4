// Package api exposes the generator as in-memory byte producers for callers
// that cannot touch a filesystem, such as the wasm build.
package api

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/vosslab/hilbert-curve-brick/gradient"
	"github.com/vosslab/hilbert-curve-brick/hilbert"
	"github.com/vosslab/hilbert-curve-brick/render"
	"github.com/vosslab/hilbert-curve-brick/utils"
	"github.com/vosslab/hilbert-curve-brick/vopl"
)

// SlicePNG renders slice index of a side-d cube along axis with the default
// look and returns it PNG encoded.
func SlicePNG(d int, axis string, index int, grid bool) ([]byte, error) {
	c, err := hilbert.Generate(d)
	if err != nil {
		return nil, err
	}
	opts := render.DefaultOptions()
	if opts.Axis, err = hilbert.ParseAxis(axis); err != nil {
		return nil, err
	}
	opts.Grid = grid
	img, err := render.RenderSlice(c, index, opts)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return out.Bytes(), nil
}

// VOPLPack returns the brick volume of a side-d curve as a zstd .voplpack.
func VOPLPack(d int) ([]byte, error) {
	c, err := hilbert.Generate(d)
	if err != nil {
		return nil, err
	}
	return utils.VOPLPackBytes(utils.BuildVolume(c), vopl.PackCompZstd)
}

// GLB returns the brick volume of a side-d curve as binary glTF colored with
// the named gradient (empty for the default).
func GLB(d int, gradientName string) ([]byte, error) {
	c, err := hilbert.Generate(d)
	if err != nil {
		return nil, err
	}
	grad, err := gradient.Parse(gradientName)
	if err != nil {
		return nil, err
	}
	return utils.GLBBytes(utils.BuildVolume(c), vopl.NewPalette(grad), utils.Title(d))
}

// LDraw returns the brick model of a side-d curve in one LDraw color.
func LDraw(d, color int) ([]byte, error) {
	c, err := hilbert.Generate(d)
	if err != nil {
		return nil, err
	}
	return utils.LDrawBytes(utils.BuildVolume(c), color, utils.Title(d), fmt.Sprintf("hilbert%d.ldr", d))
}

// UnpackVOPLPack returns a map of entry name -> .vopl bytes from a .voplpack blob.
func UnpackVOPLPack(packBytes []byte) (map[string][]byte, error) {
	pack, _, err := vopl.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(pack.Entries))
	for i, e := range pack.Entries {
		out[e.Name] = pack.File(i)
	}
	return out, nil
}
