package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Resampler computes a resized copy of an image.
//
// Implementations must use an anti-aliasing filter; nearest-neighbor and
// plain bilinear scaling lose too much detail on downscales.
type Resampler interface {
	Resample(src image.Image, width, height int) image.Image
}

// LanczosResampler resizes with the codec's Lanczos (a=3) filter.
type LanczosResampler struct{}

// Resample implements Resampler.
func (LanczosResampler) Resample(src image.Image, width, height int) image.Image {
	return imaging.Resize(src, width, height, imaging.Lanczos)
}

// BildResampler resizes with bild's Lanczos filter. Results differ from
// LanczosResampler in the last bit or two per channel.
type BildResampler struct{}

// Resample implements Resampler.
func (BildResampler) Resample(src image.Image, width, height int) image.Image {
	return transform.Resize(src, width, height, transform.Lanczos)
}

// ResamplerByName maps a configuration value to a Resampler. The second
// result is false for unknown names.
func ResamplerByName(name string) (Resampler, bool) {
	switch name {
	case "", "imaging", "lanczos":
		return LanczosResampler{}, true
	case "bild":
		return BildResampler{}, true
	default:
		return nil, false
	}
}
