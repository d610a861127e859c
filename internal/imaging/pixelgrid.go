package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Grid is a decoded image normalized to three-channel RGB.
//
// The backing store is an *image.NRGBA whose bounds start at (0,0) and whose
// alpha is always 0xff, so no gray, palette or transparency information
// survives past the loader. Grids are values: transforms return a new Grid
// and nothing in this package modifies one after it is built.
type Grid struct {
	img *image.NRGBA
}

// newGrid copies src into a fresh Grid. The color conversion is the codec's
// default one (imaging.Clone to NRGBA); the alpha channel is then dropped,
// keeping the unpremultiplied color values as they are.
func newGrid(src image.Image) *Grid {
	dst := imaging.Clone(src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return &Grid{img: dst}
}

// GridFromImage normalizes an already decoded image into a Grid.
func GridFromImage(img image.Image) *Grid {
	return newGrid(img)
}

// Width returns the grid width in pixels.
func (g *Grid) Width() int { return g.img.Rect.Dx() }

// Height returns the grid height in pixels.
func (g *Grid) Height() int { return g.img.Rect.Dy() }

// Size returns (width, height), the order the codec uses.
func (g *Grid) Size() (width, height int) { return g.Width(), g.Height() }

// RGB returns the channel values at (x, y).
func (g *Grid) RGB(x, y int) (r, gr, b uint8) {
	i := g.img.PixOffset(x, y)
	return g.img.Pix[i], g.img.Pix[i+1], g.img.Pix[i+2]
}

// ColorModel implements image.Image.
func (g *Grid) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (g *Grid) Bounds() image.Rectangle { return g.img.Rect }

// At implements image.Image.
func (g *Grid) At(x, y int) color.Color { return g.img.NRGBAAt(x, y) }
