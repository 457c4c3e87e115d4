// Package render turns a Hilbert curve into per-layer slice images.
//
// A slice holds every curve point whose coordinate on the slicing axis
// equals the slice index. Each point becomes one cell colored by its order
// index, so walking the gradient from dark to light traces the build order
// inside the layer.
package render

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/vosslab/hilbert-curve-brick/gradient"
	"github.com/vosslab/hilbert-curve-brick/hilbert"

	"golang.org/x/image/draw"
)

// Scope selects the order range a gradient spans.
type Scope int

const (
	// ScopeGlobal spans the whole curve, [0, d³).
	ScopeGlobal Scope = iota
	// ScopeSlice spans the points of one slice only.
	ScopeSlice
)

// ParseScope accepts "global" or "slice".
func ParseScope(s string) (Scope, error) {
	switch s {
	case "global", "":
		return ScopeGlobal, nil
	case "slice", "layer":
		return ScopeSlice, nil
	}
	return ScopeGlobal, fmt.Errorf("unknown gradient scope %q (want global or slice)", s)
}

func (s Scope) String() string {
	if s == ScopeSlice {
		return "slice"
	}
	return "global"
}

// Options controls slice rendering and file naming.
type Options struct {
	Axis       hilbert.Axis
	CellSize   int // pixels per cell; <= 0 picks one from TargetSize
	TargetSize int
	Grid       bool
	BrickSize  int // cells between grid lines
	LineWidth  int
	Connectors bool
	Scope      Scope
	Gradient   gradient.Gradient
	Background color.NRGBA
	GridColor  color.NRGBA
	Label      bool
	Prefix     string
	Workers    int
}

// DefaultOptions slices along z with a 1-cell brick grid on a white page.
func DefaultOptions() Options {
	g, _ := gradient.ByName(gradient.DefaultName)
	return Options{
		Axis:       hilbert.AxisZ,
		TargetSize: 800,
		Grid:       true,
		BrickSize:  1,
		LineWidth:  2,
		Connectors: true,
		Scope:      ScopeGlobal,
		Gradient:   g,
		Background: color.NRGBA{255, 255, 255, 255},
		GridColor:  color.NRGBA{128, 128, 128, 255},
		Prefix:     "hilbert",
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Invert swaps to a dark page with light grid lines.
func (o *Options) Invert() {
	o.Background = color.NRGBA{0, 0, 0, 255}
	o.GridColor = color.NRGBA{96, 96, 96, 255}
}

// Layout resolves the pixel geometry for side d.
func (o Options) Layout(d int) Layout {
	line := o.LineWidth
	if line < 1 {
		line = 1
	}
	cell := o.CellSize
	if cell <= 0 {
		target := o.TargetSize
		if target <= 0 {
			target = 800
		}
		cell = CellSizeFor(d, target, o.BrickSize, line, o.Grid)
	}
	l := NewLayout(d, cell, o.BrickSize, line, o.Grid)
	if o.Label {
		l.Footer = labelHeight
	}
	return l
}

// Indexed is a curve point together with its order index.
type Indexed struct {
	Order uint64
	Point hilbert.Point
}

// SlicePoints returns the points of slice index along axis, in curve order.
func SlicePoints(c *hilbert.Curve, axis hilbert.Axis, index int) []Indexed {
	out := make([]Indexed, 0, c.Dimension*c.Dimension)
	for i, p := range c.Points {
		if p.Coord(axis) == index {
			out = append(out, Indexed{Order: uint64(i), Point: p})
		}
	}
	return out
}

// project maps a point onto the slice plane as (column, row).
func project(p hilbert.Point, axis hilbert.Axis) image.Point {
	u, v := axis.Plane()
	return image.Pt(p.Coord(u), p.Coord(v))
}

// RenderSlice draws slice index of c. Cells carry the gradient color of
// their order index; cells with no point keep the background.
func RenderSlice(c *hilbert.Curve, index int, opts Options) (*image.NRGBA, error) {
	if !opts.Axis.Valid() {
		return nil, fmt.Errorf("%w: %v", hilbert.ErrInvalidAxis, opts.Axis)
	}
	d := c.Dimension
	if index < 0 || index >= d {
		return nil, fmt.Errorf("%w: slice %d outside [0,%d)", ErrInvalidRange, index, d)
	}
	grad := opts.Gradient
	if grad == nil {
		grad, _ = gradient.ByName(gradient.DefaultName)
	}

	pts := SlicePoints(c, opts.Axis, index)
	shade := func(k int) color.NRGBA {
		if opts.Scope == ScopeSlice {
			return grad(gradient.Position(uint64(k), uint64(len(pts))))
		}
		return grad(gradient.Position(pts[k].Order, uint64(c.Len())))
	}

	l := opts.Layout(d)
	img := image.NewNRGBA(l.Bounds())
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	if !l.Grid {
		// One pixel per cell, then a nearest-neighbour zoom to the cell size.
		base := image.NewNRGBA(image.Rect(0, 0, d, d))
		draw.Draw(base, base.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
		for k, ip := range pts {
			at := project(ip.Point, opts.Axis)
			base.SetNRGBA(at.X, at.Y, shade(k))
		}
		draw.NearestNeighbor.Scale(img, image.Rect(0, 0, l.Size(), l.Size()), base, base.Bounds(), draw.Src, nil)
	} else {
		drawGrid(img, l, opts.GridColor)
		for k, ip := range pts {
			at := project(ip.Point, opts.Axis)
			fill(img, l.CellRect(at.X, at.Y), shade(k))
		}
		if opts.Connectors {
			for k := 1; k < len(pts); k++ {
				if pts[k].Order != pts[k-1].Order+1 {
					continue
				}
				r := l.Connector(project(pts[k-1].Point, opts.Axis), project(pts[k].Point, opts.Axis))
				if !r.Empty() {
					fill(img, r, shade(k-1))
				}
			}
		}
	}

	if opts.Label {
		drawLabel(img, l, fmt.Sprintf("%s=%d  layer %d/%d", opts.Axis, index, index+1, d), opts)
	}
	return img, nil
}

func fill(img draw.Image, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawGrid(img *image.NRGBA, l Layout, c color.NRGBA) {
	for _, off := range l.Lines() {
		fill(img, image.Rect(off, 0, off+l.Line, l.Size()), c)
		fill(img, image.Rect(0, off, l.Size(), off+l.Line), c)
	}
}
