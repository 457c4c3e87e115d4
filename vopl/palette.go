package vopl

import (
	"fmt"

	"github.com/vosslab/hilbert-curve-brick/gradient"
)

// Palette maps voxel values to hex colors. Slot 0 is empty space.
type Palette [PaletteSize]string

// NewPalette samples g into slots 1..63; slot 0 is transparent.
func NewPalette(g gradient.Gradient) Palette {
	var p Palette
	p[0] = "#00000000"
	for i := 1; i < PaletteSize; i++ {
		p[i] = gradient.Hex(g(gradient.Position(uint64(i-1), PaletteSize-1)))
	}
	return p
}

// RGBA returns slot i as normalized floats.
func (p *Palette) RGBA(i uint8) ([4]float32, error) {
	if int(i) >= len(p) {
		return [4]float32{}, fmt.Errorf("palette slot %d out of range", i)
	}
	return ParseHexColor(p[i])
}

// ParseHexColor turns "#rrggbb" or "#rrggbbaa" into normalized RGBA.
func ParseHexColor(hex string) ([4]float32, error) {
	c, err := gradient.ParseHex(hex)
	if err != nil {
		return [4]float32{}, err
	}
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}, nil
}
