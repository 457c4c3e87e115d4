package gradient

import (
	"image/color"
	"testing"
)

func TestNew_Endpoints(t *testing.T) {
	g := New([]Stop{
		{1, color.NRGBA{255, 255, 255, 255}},
		{0, color.NRGBA{0, 0, 0, 255}},
	})
	if got := g(-1); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatalf("g(-1) = %v", got)
	}
	if got := g(2); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("g(2) = %v", got)
	}
	if got := g(0.5); got.R < 127 || got.R > 128 {
		t.Fatalf("g(0.5) = %v, want mid gray", got)
	}
}

func TestGray_Monotonic(t *testing.T) {
	g, err := ByName("gray")
	if err != nil {
		t.Fatal(err)
	}
	prev := -1
	for i := 0; i <= 100; i++ {
		c := g(float64(i) / 100)
		if int(c.R) < prev {
			t.Fatalf("gray ramp decreased at %d", i)
		}
		prev = int(c.R)
	}
}

func TestNamed_DistinctSamples(t *testing.T) {
	for _, name := range Names() {
		g, err := ByName(name)
		if err != nil {
			t.Fatal(err)
		}
		seen := map[color.NRGBA]bool{}
		for i := uint64(0); i < 8; i++ {
			seen[g(Position(i, 8))] = true
		}
		if len(seen) != 8 {
			t.Fatalf("%s: 8 order indices gave %d colors", name, len(seen))
		}
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse(""); err != nil {
		t.Fatalf("default ramp: %v", err)
	}
	g, err := Parse("#000000,#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if got := g(1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Fatalf("hex ramp end = %v", got)
	}
	if _, err := Parse("sepia"); err == nil {
		t.Fatalf("expected unknown gradient error")
	}
	if _, err := Parse("#12"); err == nil {
		t.Fatalf("expected hex length error")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#10203040")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.NRGBA{0x10, 0x20, 0x30, 0x40}) {
		t.Fatalf("ParseHex = %v", c)
	}
	if Hex(c) != "#10203040" {
		t.Fatalf("Hex = %s", Hex(c))
	}
	for _, bad := range []string{"102030", "#1020zz", "#1"} {
		if _, err := ParseHex(bad); err == nil {
			t.Fatalf("ParseHex(%q) accepted", bad)
		}
	}
}

func TestQuantize(t *testing.T) {
	cases := []struct {
		t      float64
		levels int
		want   int
	}{
		{0, 63, 0}, {1, 63, 62}, {0.5, 2, 1}, {0.49, 2, 0}, {-3, 10, 0}, {0.7, 1, 0},
	}
	for _, c := range cases {
		if got := Quantize(c.t, c.levels); got != c.want {
			t.Fatalf("Quantize(%v,%d) = %d, want %d", c.t, c.levels, got, c.want)
		}
	}
}
