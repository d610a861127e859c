package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Dimensions is a resize target given as (height, width).
type Dimensions struct {
	Height int
	Width  int
}

// ParseDimensions reads a resize target from a positional sequence. Exactly
// two values are accepted, taken as (height, width), and both must be
// positive.
func ParseDimensions(vals ...int) (*Dimensions, error) {
	if len(vals) != 2 {
		return nil, fmt.Errorf("%w: want (height, width), got %d values", ErrInvalidSize, len(vals))
	}
	d := &Dimensions{Height: vals[0], Width: vals[1]}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Size returns the target as (width, height), the order the codec expects.
func (d Dimensions) Size() (width, height int) {
	return d.Width, d.Height
}

func (d *Dimensions) validate() error {
	if d == nil {
		return fmt.Errorf("%w: missing", ErrInvalidSize)
	}
	if d.Height <= 0 || d.Width <= 0 {
		return fmt.Errorf("%w: (%d, %d) must be positive", ErrInvalidSize, d.Height, d.Width)
	}
	return nil
}

// CropBox is a crop region as (left, upper, right, lower) in source pixels.
//
// Boxes are not checked against the image: an inverted box is normalized and
// a box reaching past the edges is intersected with the image bounds by the
// codec, which may leave an empty grid. Passing a sensible box is up to the
// caller.
type CropBox struct {
	Left  int
	Upper int
	Right int
	Lower int
}

// ParseCropBox reads a crop box from exactly four positional values.
func ParseCropBox(vals ...int) (*CropBox, error) {
	if len(vals) != 4 {
		return nil, fmt.Errorf("%w: want (left, upper, right, lower), got %d values", ErrInvalidCropBox, len(vals))
	}
	return &CropBox{Left: vals[0], Upper: vals[1], Right: vals[2], Lower: vals[3]}, nil
}

// Rect returns the box as an image.Rectangle.
func (b CropBox) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Upper, b.Right, b.Lower)
}

// Resize scales g to size with the processor's resampler.
//
// If g already has the requested dimensions it is returned unchanged. A grid
// with no pixels, such as the result of a crop outside the image, cannot be
// scaled and fails with ErrNoImage.
func (p *Processor) Resize(g *Grid, size *Dimensions) (*Grid, error) {
	if g == nil {
		return nil, p.fail("resize", ErrNoImage)
	}
	if g.Width() == 0 || g.Height() == 0 {
		return nil, p.fail("resize", fmt.Errorf("%w: empty grid", ErrNoImage))
	}
	if err := size.validate(); err != nil {
		return nil, p.fail("resize", err)
	}

	w, h := size.Size()
	if gw, gh := g.Size(); gw == w && gh == h {
		return g, nil
	}

	p.log.Debug().
		Int("from_width", g.Width()).
		Int("from_height", g.Height()).
		Int("to_width", w).
		Int("to_height", h).
		Msg("resizing")

	return newGrid(p.resampler.Resample(g.img, w, h)), nil
}

// Crop extracts box from g.
func (p *Processor) Crop(g *Grid, box *CropBox) (*Grid, error) {
	if g == nil {
		return nil, p.fail("crop", ErrNoImage)
	}
	if box == nil {
		return nil, p.fail("crop", fmt.Errorf("%w: missing", ErrInvalidCropBox))
	}

	return newGrid(imaging.Crop(g.img, box.Rect())), nil
}
