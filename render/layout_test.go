package render

import (
	"image"
	"testing"
)

func TestNewLayout_Grid(t *testing.T) {
	l := NewLayout(2, 4, 1, 2, true)
	if l.Size() != 14 {
		t.Fatalf("size = %d, want 14", l.Size())
	}
	if l.Start(0) != 2 || l.Start(1) != 8 {
		t.Fatalf("starts = %d,%d", l.Start(0), l.Start(1))
	}
	want := []int{0, 6, 12}
	got := l.Lines()
	if len(got) != len(want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lines = %v, want %v", got, want)
		}
	}
}

func TestNewLayout_BrickGrouping(t *testing.T) {
	l := NewLayout(4, 3, 2, 1, true)
	// gutters before cells 0 and 2, plus the trailing edge
	if l.Size() != 4*3+3 {
		t.Fatalf("size = %d", l.Size())
	}
	if l.HasGutter(0) || !l.HasGutter(1) || l.HasGutter(3) {
		t.Fatalf("gutters wrong: %v %v %v", l.HasGutter(0), l.HasGutter(1), l.HasGutter(3))
	}
	if l.Start(1) != l.Start(0)+3 {
		t.Fatalf("cells 0 and 1 should touch")
	}
}

func TestNewLayout_NoGrid(t *testing.T) {
	l := NewLayout(8, 5, 1, 2, false)
	if l.Size() != 40 || len(l.Lines()) != 0 {
		t.Fatalf("size %d lines %v", l.Size(), l.Lines())
	}
	if l.CellRect(7, 7) != image.Rect(35, 35, 40, 40) {
		t.Fatalf("last cell = %v", l.CellRect(7, 7))
	}
}

func TestConnector(t *testing.T) {
	l := NewLayout(2, 4, 1, 2, true)
	r := l.Connector(image.Pt(1, 0), image.Pt(0, 0))
	if r != image.Rect(6, 3, 8, 5) {
		t.Fatalf("horizontal connector = %v", r)
	}
	r = l.Connector(image.Pt(0, 0), image.Pt(0, 1))
	if r != image.Rect(3, 6, 5, 8) {
		t.Fatalf("vertical connector = %v", r)
	}
	if !l.Connector(image.Pt(0, 0), image.Pt(1, 1)).Empty() {
		t.Fatalf("diagonal cells must not connect")
	}
}

func TestCellSizeFor(t *testing.T) {
	if got := CellSizeFor(2, 800, 1, 2, true); got != 256 {
		t.Fatalf("CellSizeFor(2) = %d, want 256", got)
	}
	if got := CellSizeFor(8, 800, 1, 2, false); got != 64 {
		t.Fatalf("CellSizeFor(8, no grid) = %d, want 64", got)
	}
	if got := CellSizeFor(256, 100, 1, 2, true); got != 1 {
		t.Fatalf("oversized cube should fall back to 1, got %d", got)
	}
}
