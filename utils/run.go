// Package utils wires the curve, renderer and exporters into whole runs.
package utils

import (
	"context"
	"fmt"

	"github.com/vosslab/hilbert-curve-brick/config"
	"github.com/vosslab/hilbert-curve-brick/gradient"
	"github.com/vosslab/hilbert-curve-brick/hilbert"
	"github.com/vosslab/hilbert-curve-brick/logger"
	"github.com/vosslab/hilbert-curve-brick/render"
	"github.com/vosslab/hilbert-curve-brick/volume"
	"github.com/vosslab/hilbert-curve-brick/vopl"
)

// BuildVolume lays c onto its brick lattice, shading cells over the 63
// non-empty palette slots by order index.
func BuildVolume(c *hilbert.Curve) *volume.Volume {
	return volume.Build(c, volume.Shade(uint64(c.Len()), vopl.PaletteSize-1))
}

// Title names a model of side d.
func Title(d int) string {
	return fmt.Sprintf("Hilbert curve %dx%dx%d", d, d, d)
}

// Run performs one configured generation: the PNG slices, then whichever
// volume exports are enabled. It returns the slice paths written.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	done := log.Step(fmt.Sprintf("curve d=%d", cfg.Dimension))
	curve, err := hilbert.Generate(cfg.Dimension)
	if err != nil {
		return nil, err
	}
	done()
	log.Debug("%d points, order %d", curve.Len(), curve.Order)

	var paths []string
	if cfg.WritePNGs {
		opts, err := cfg.RenderOptions()
		if err != nil {
			return nil, err
		}
		rng, err := cfg.Range()
		if err != nil {
			return nil, err
		}
		done := log.Step(fmt.Sprintf("slices %d..%d along %s", rng.Begin, rng.End, opts.Axis))
		paths, err = render.WriteSlices(ctx, curve, cfg.OutputDir, rng, opts, log.WithPrefix("png"))
		if err != nil {
			return paths, err
		}
		done()
	}

	if cfg.VOPLPack == "" && cfg.GLB == "" && cfg.LDraw == "" {
		return paths, nil
	}
	if err := ctx.Err(); err != nil {
		return paths, err
	}
	base := BuildVolume(curve)
	log.Debug("brick volume %d³, %d filled", base.W, base.Count())

	if cfg.VOPLPack != "" {
		comp, err := vopl.ParseCompression(cfg.PackCompression)
		if err != nil {
			return paths, err
		}
		if err := RunVOPLPack(base.Scale(1, cfg.ScaleY), cfg.VOPLPack, comp, log.WithPrefix("vopl")); err != nil {
			return paths, err
		}
	}
	if cfg.GLB != "" {
		grad, err := gradient.Parse(cfg.Gradient)
		if err != nil {
			return paths, err
		}
		if err := RunGLB(base.Scale(1, cfg.ScaleY), vopl.NewPalette(grad), Title(cfg.Dimension), cfg.GLB, log.WithPrefix("glb")); err != nil {
			return paths, err
		}
	}
	if cfg.LDraw != "" {
		sxz, sy := cfg.LDrawScales()
		if err := RunLDraw(base.Scale(sxz, sy), cfg.LDraw, cfg.LDrawColor, Title(cfg.Dimension), log.WithPrefix("ldraw")); err != nil {
			return paths, err
		}
	}
	return paths, nil
}
