// Package gradient maps a position in [0,1] to a color. Slice images and
// voxel palettes use it to turn the curve order into a color ramp.
package gradient

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Stop is one gradient stop.
type Stop struct {
	T float64     `json:"t"`
	C color.NRGBA `json:"c"`
}

// Gradient returns the color at t; t is clamped to [0,1].
type Gradient func(t float64) color.NRGBA

// New builds a piecewise-linear gradient through stops. Stops are sorted by
// T; a ramp with no stops is black.
func New(stops []Stop) Gradient {
	if len(stops) == 0 {
		return func(float64) color.NRGBA {
			return color.NRGBA{0, 0, 0, 255}
		}
	}
	if len(stops) == 1 {
		base := stops[0].C
		return func(float64) color.NRGBA { return base }
	}
	sorted := append([]Stop(nil), stops...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })

	return func(t float64) color.NRGBA {
		if t <= sorted[0].T {
			return sorted[0].C
		}
		lastIdx := len(sorted) - 1
		if t >= sorted[lastIdx].T {
			return sorted[lastIdx].C
		}
		i := sort.Search(len(sorted), func(i int) bool { return sorted[i].T >= t }) - 1
		a, b := sorted[i], sorted[i+1]
		span := b.T - a.T
		u := 0.0
		if span > 0 {
			u = (t - a.T) / span
		}
		return lerpColor(a.C, b.C, u)
	}
}

// Even spaces colors evenly over [0,1].
func Even(colors ...color.NRGBA) Gradient {
	stops := make([]Stop, len(colors))
	for i, c := range colors {
		t := 0.0
		if len(colors) > 1 {
			t = float64(i) / float64(len(colors)-1)
		}
		stops[i] = Stop{T: t, C: c}
	}
	return New(stops)
}

// Hue sweeps the HSV hue from fromDeg to toDeg at full saturation.
func Hue(fromDeg, toDeg, value float64) Gradient {
	return func(t float64) color.NRGBA {
		t = clamp01(t)
		return hsvToNRGBA(fromDeg+t*(toDeg-fromDeg), 1, value)
	}
}

var named = map[string]Gradient{
	// red → violet; stops short of wrapping back to red.
	"rainbow": Hue(0, 280, 0.95),
	"viridis": Even(
		color.NRGBA{68, 1, 84, 255},
		color.NRGBA{59, 82, 139, 255},
		color.NRGBA{33, 145, 140, 255},
		color.NRGBA{94, 201, 98, 255},
		color.NRGBA{253, 231, 37, 255},
	),
	"inferno": Even(
		color.NRGBA{0, 0, 4, 255},
		color.NRGBA{87, 16, 110, 255},
		color.NRGBA{188, 55, 84, 255},
		color.NRGBA{249, 142, 9, 255},
		color.NRGBA{252, 255, 164, 255},
	),
	"deep-ocean": Even(
		color.NRGBA{0, 7, 100, 255},
		color.NRGBA{32, 107, 203, 255},
		color.NRGBA{120, 200, 230, 255},
		color.NRGBA{237, 255, 255, 255},
	),
	"verdant": Even(
		color.NRGBA{0, 40, 20, 255},
		color.NRGBA{0, 90, 40, 255},
		color.NRGBA{160, 220, 40, 255},
		color.NRGBA{250, 255, 220, 255},
	),
	"gray": Even(
		color.NRGBA{0, 0, 0, 255},
		color.NRGBA{200, 200, 200, 255},
	),
}

// DefaultName is the ramp used when none is configured.
const DefaultName = "viridis"

// Names lists the built-in ramps in sorted order.
func Names() []string {
	out := make([]string, 0, len(named))
	for k := range named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ByName returns a built-in ramp.
func ByName(name string) (Gradient, error) {
	g, ok := named[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown gradient %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return g, nil
}

// Parse accepts a built-in name or a comma-separated list of hex colors
// ("#102030,#ffcc00") spaced evenly.
func Parse(spec string) (Gradient, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ByName(DefaultName)
	}
	if !strings.HasPrefix(spec, "#") {
		return ByName(spec)
	}
	return FromHex(strings.Split(spec, ","))
}

// FromHex builds an evenly spaced ramp from hex colors.
func FromHex(list []string) (Gradient, error) {
	colors := make([]color.NRGBA, 0, len(list))
	for _, h := range list {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("empty color list")
	}
	return Even(colors...), nil
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(hex string) (color.NRGBA, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	h := hex[1:]
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color length %q", hex)
	}
	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(h)/2; i++ {
		v, err := strconv.ParseUint(h[2*i:2*i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{ch[0], ch[1], ch[2], ch[3]}, nil
}

// Hex formats c as "#rrggbbaa".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Position maps order index i of n onto [0,1].
func Position(i, n uint64) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// Quantize maps t in [0,1] to a slot in [0, levels).
func Quantize(t float64, levels int) int {
	if levels <= 1 {
		return 0
	}
	s := int(math.Floor(clamp01(t) * float64(levels)))
	if s >= levels {
		s = levels - 1
	}
	return s
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
}

func lerpColor(c1, c2 color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerp(c1.R, c2.R, t),
		G: lerp(c1.G, c2.G, t),
		B: lerp(c1.B, c2.B, t),
		A: lerp(c1.A, c2.A, t),
	}
}

func hsvToNRGBA(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.NRGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
