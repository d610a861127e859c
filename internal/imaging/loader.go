package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Load decodes the image file at path into a Grid.
//
// Parameters:
//   - path: Path to the image file. Any format with a registered decoder is
//     accepted: JPEG, PNG, GIF, BMP and TIFF through the codec, WebP through
//     golang.org/x/image.
//   - size: Optional target size. When non-nil the decoded grid is passed
//     through Resize before it is returned.
//
// Returns:
//   - *Grid: The decoded image, normalized to RGB.
//   - error: ErrNotFound if the file does not exist, ErrDecode if its bytes
//     are not an image, ErrInvalidSize if size is malformed.
//
// EXIF orientation is not applied; pixels come back in stored order.
func (p *Processor) Load(path string, size *Dimensions) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, p.fail("load", fmt.Errorf("%w: %q", ErrNotFound, path))
		}
		return nil, p.fail("load", fmt.Errorf("failed to open image: %w", err))
	}
	defer f.Close()

	return p.decode("load", f, size)
}

// Decode reads an encoded image from r. It behaves like Load minus the
// filesystem lookup.
func (p *Processor) Decode(r io.Reader, size *Dimensions) (*Grid, error) {
	return p.decode("decode", r, size)
}

// DecodeBytes decodes an image payload already held in memory, such as a
// body fetched from a remote store.
func (p *Processor) DecodeBytes(b []byte, size *Dimensions) (*Grid, error) {
	return p.decode("decode", bytes.NewReader(b), size)
}

func (p *Processor) decode(op string, r io.Reader, size *Dimensions) (*Grid, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, p.fail(op, fmt.Errorf("%w: %v", ErrDecode, err))
	}

	g := newGrid(img)
	if size == nil {
		return g, nil
	}
	return p.Resize(g, size)
}

// LoadFrames decodes every frame of an animated GIF. Each frame is drawn over
// the previous ones on a canvas of the logical screen size, so every returned
// Grid has the same dimensions. After a frame is captured its disposal method
// is applied: DisposalBackground clears the frame's rectangle to transparent
// (black once normalized) and DisposalPrevious restores the canvas as it was
// before the frame. Files in any other format yield one frame.
func (p *Processor) LoadFrames(path string) ([]*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, p.fail("load_frames", fmt.Errorf("%w: %q", ErrNotFound, path))
		}
		return nil, p.fail("load_frames", fmt.Errorf("failed to read image: %w", err))
	}

	if !bytes.HasPrefix(data, []byte("GIF8")) {
		g, err := p.decode("load_frames", bytes.NewReader(data), nil)
		if err != nil {
			return nil, err
		}
		return []*Grid{g}, nil
	}

	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, p.fail("load_frames", fmt.Errorf("%w: %v", ErrDecode, err))
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, anim.Config.Width, anim.Config.Height))
	frames := make([]*Grid, 0, len(anim.Image))
	for i, frame := range anim.Image {
		var disposal byte
		if i < len(anim.Disposal) {
			disposal = anim.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = imaging.Clone(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, newGrid(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, previous.Pix)
		}
	}
	return frames, nil
}
