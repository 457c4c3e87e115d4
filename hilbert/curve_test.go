package hilbert

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerate_Bijection(t *testing.T) {
	for _, d := range []int{1, 2, 4, 8, 16} {
		c, err := Generate(d)
		if err != nil {
			t.Fatalf("Generate(%d): %v", d, err)
		}
		if c.Len() != d*d*d {
			t.Fatalf("d=%d: got %d points, want %d", d, c.Len(), d*d*d)
		}
		seen := make(map[Point]bool, c.Len())
		for i, p := range c.Points {
			if !c.Contains(p) {
				t.Fatalf("d=%d: point %d %v outside cube", d, i, p)
			}
			if seen[p] {
				t.Fatalf("d=%d: point %v visited twice", d, p)
			}
			seen[p] = true
		}
	}
}

func TestGenerate_Adjacency(t *testing.T) {
	for _, d := range []int{2, 4, 8, 16, 32} {
		c, err := Generate(d)
		if err != nil {
			t.Fatalf("Generate(%d): %v", d, err)
		}
		for i := 1; i < c.Len(); i++ {
			if got := c.Points[i-1].Manhattan(c.Points[i]); got != 1 {
				t.Fatalf("d=%d: step %d %v -> %v has distance %d", d, i, c.Points[i-1], c.Points[i], got)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(8)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Points, b.Points) {
		t.Fatalf("two runs for d=8 differ")
	}
}

func TestGenerate_KnownPath(t *testing.T) {
	c, err := Generate(2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{
		{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
		{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0},
	}
	if !reflect.DeepEqual(c.Points, want) {
		t.Fatalf("d=2 path = %v, want %v", c.Points, want)
	}
}

func TestGenerate_EndCorners(t *testing.T) {
	cases := map[int]Point{
		4:  {0, 0, 3},
		8:  {7, 0, 0},
		16: {0, 15, 0},
	}
	for d, want := range cases {
		c, err := Generate(d)
		if err != nil {
			t.Fatal(err)
		}
		if c.Points[0] != (Point{}) {
			t.Fatalf("d=%d starts at %v", d, c.Points[0])
		}
		if c.Points[1] != (Point{1, 0, 0}) {
			t.Fatalf("d=%d first step to %v, want +x", d, c.Points[1])
		}
		if got := c.Points[c.Len()-1]; got != want {
			t.Fatalf("d=%d ends at %v, want %v", d, got, want)
		}
	}
}

func TestGenerate_PrefixOfNextOrder(t *testing.T) {
	small, _ := Generate(4)
	big, _ := Generate(8)
	for i, p := range small.Points {
		if big.Points[i] != p {
			t.Fatalf("index %d: %v in d=4, %v in d=8", i, p, big.Points[i])
		}
	}
}

func TestGenerate_Single(t *testing.T) {
	c, err := Generate(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 || c.Points[0] != (Point{}) || c.Order != 0 {
		t.Fatalf("d=1 curve = %+v", c)
	}
}

func TestGenerate_InvalidDimension(t *testing.T) {
	for _, d := range []int{0, -4, 3, 6, 12, MaxDimension * 2} {
		if _, err := Generate(d); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("Generate(%d) error = %v, want ErrInvalidDimension", d, err)
		}
	}
}

func TestPointToIndex_Inverse(t *testing.T) {
	c, err := Generate(16)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range c.Points {
		got, ok := c.Index(p)
		if !ok || got != uint64(i) {
			t.Fatalf("Index(%v) = %d,%v want %d", p, got, ok, i)
		}
	}
	if _, ok := c.Index(Point{16, 0, 0}); ok {
		t.Fatalf("Index accepted a point outside the cube")
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	cases := map[int]bool{-2: false, 0: false, 1: true, 2: true, 3: false, 64: true, 96: false}
	for n, want := range cases {
		if got := IsPowerOfTwo(n); got != want {
			t.Fatalf("IsPowerOfTwo(%d) = %v", n, got)
		}
	}
}
