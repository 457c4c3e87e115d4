package render

import "image"

// Layout is the pixel geometry of one slice image. Cells are square blocks
// of Cell pixels. With the grid on, a gutter of Line pixels sits on every
// brick boundary (every Brick cells, plus the outer edges), so grid lines
// never cover a cell.
type Layout struct {
	Dim    int
	Cell   int
	Line   int
	Brick  int
	Grid   bool
	Footer int

	starts []int
	size   int
}

// NewLayout computes the geometry for a d×d slice.
func NewLayout(d, cell, brick, line int, grid bool) Layout {
	if cell < 1 {
		cell = 1
	}
	if brick < 1 {
		brick = 1
	}
	if !grid || line < 0 {
		line = 0
	}
	l := Layout{Dim: d, Cell: cell, Line: line, Brick: brick, Grid: grid, starts: make([]int, d)}
	off := 0
	for i := 0; i < d; i++ {
		if l.Grid && i%brick == 0 {
			off += line
		}
		l.starts[i] = off
		off += cell
	}
	if l.Grid {
		off += line
	}
	l.size = off
	return l
}

// Size is the side of the square cell area in pixels.
func (l Layout) Size() int { return l.size }

// Bounds covers the cell area and the footer band.
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.size, l.size+l.Footer)
}

// Start is the pixel offset of cell i along either axis.
func (l Layout) Start(i int) int { return l.starts[i] }

// CellRect is the pixel block of cell (col, row).
func (l Layout) CellRect(col, row int) image.Rectangle {
	x, y := l.starts[col], l.starts[row]
	return image.Rect(x, y, x+l.Cell, y+l.Cell)
}

// CellCenter is a pixel inside cell (col, row).
func (l Layout) CellCenter(col, row int) image.Point {
	return image.Pt(l.starts[col]+l.Cell/2, l.starts[row]+l.Cell/2)
}

// HasGutter reports whether a grid gutter separates cells i and i+1.
func (l Layout) HasGutter(i int) bool {
	return l.Grid && l.Line > 0 && i+1 < l.Dim && (i+1)%l.Brick == 0
}

// Lines returns the pixel offsets at which grid gutters start.
func (l Layout) Lines() []int {
	if !l.Grid || l.Line == 0 {
		return nil
	}
	var out []int
	for i := 0; i < l.Dim; i++ {
		if i%l.Brick == 0 {
			out = append(out, l.starts[i]-l.Line)
		}
	}
	return append(out, l.size-l.Line)
}

// Connector is the gutter strip joining neighbouring cells a and b, or an
// empty rectangle when no gutter separates them. The strip is the middle
// half of the shared edge.
func (l Layout) Connector(a, b image.Point) image.Rectangle {
	if a.X > b.X || a.Y > b.Y {
		a, b = b, a
	}
	band := l.Cell / 2
	if band < 1 {
		band = l.Cell
	}
	inset := (l.Cell - band) / 2
	switch {
	case a.Y == b.Y && b.X == a.X+1 && l.HasGutter(a.X):
		y := l.starts[a.Y] + inset
		return image.Rect(l.starts[a.X]+l.Cell, y, l.starts[b.X], y+band)
	case a.X == b.X && b.Y == a.Y+1 && l.HasGutter(a.Y):
		x := l.starts[a.X] + inset
		return image.Rect(x, l.starts[a.Y]+l.Cell, x+band, l.starts[b.Y])
	}
	return image.Rectangle{}
}

// CellSizeFor returns the largest power-of-two cell size whose layout fits
// in target pixels, at least 1.
func CellSizeFor(d, target, brick, line int, grid bool) int {
	cell := 1
	for NewLayout(d, cell*2, brick, line, grid).Size() <= target {
		cell *= 2
	}
	return cell
}
