package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelHeight = 18

// drawLabel writes text into the footer band below the cells, clipped to
// the image width.
func drawLabel(img *image.NRGBA, l Layout, text string, opts Options) {
	if l.Footer == 0 {
		return
	}
	face := basicfont.Face7x13
	ink := color.NRGBA{255, 255, 255, 255}
	if luminance(opts.Background) > 0.5 {
		ink = color.NRGBA{0, 0, 0, 255}
	}
	footer := image.Rect(0, l.Size(), img.Bounds().Dx(), l.Size()+l.Footer)
	fill(img, footer, opts.Background)

	d := &font.Drawer{
		Dst:  img.SubImage(footer).(*image.NRGBA),
		Src:  image.NewUniform(ink),
		Face: face,
	}
	x := (footer.Dx() - d.MeasureString(text).Ceil()) / 2
	if x < 2 {
		x = 2
	}
	d.Dot = fixed.P(x, footer.Min.Y+face.Ascent+(l.Footer-face.Height)/2)
	d.DrawString(text)
}

func luminance(c color.NRGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
