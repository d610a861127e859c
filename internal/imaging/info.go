package imaging

import (
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// Info summarizes a loaded image.
type Info struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// MeanColor is the average color as "#rrggbb". Pixels are averaged in
	// linear RGB, so the result matches what a blurred copy would show.
	MeanColor string `json:"mean_color"`

	// MeanHSL is MeanColor in HSL.
	MeanHSL HSLColor `json:"mean_hsl"`

	// Format is the format implied by the file name ("jpeg", "png", ...), or
	// "unknown". Only set by Inspect.
	Format string `json:"format,omitempty"`

	// FileSizeBytes is the size of the source file. Only set by Inspect.
	FileSizeBytes int64 `json:"file_size_bytes,omitempty"`
}

// Describe computes dimensions and the mean color of g.
func Describe(g *Grid) *Info {
	w, h := g.Size()
	var sr, sg, sb float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b := g.RGB(x, y)
			c := colorful.Color{R: float64(r) / 255, G: float64(gr) / 255, B: float64(b) / 255}
			lr, lg, lb := c.LinearRgb()
			sr += lr
			sg += lg
			sb += lb
		}
	}

	mean := colorful.Color{}
	if n := float64(w * h); n > 0 {
		mean = colorful.LinearRgb(sr/n, sg/n, sb/n).Clamped()
	}
	hue, sat, light := mean.Hsl()

	return &Info{
		Width:     w,
		Height:    h,
		MeanColor: mean.Hex(),
		MeanHSL:   HSLColor{H: int(hue), S: int(sat * 100), L: int(light * 100)},
	}
}

// Inspect loads the image at path and describes it, adding the file size and
// the format named by its extension.
func (p *Processor) Inspect(path string) (*Info, error) {
	g, err := p.Load(path, nil)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, p.fail("inspect", err)
	}

	info := Describe(g)
	info.FileSizeBytes = stat.Size()
	info.Format = "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		info.Format = strings.ToLower(f.String())
	}
	return info, nil
}
