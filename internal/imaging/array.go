package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Layout is the axis order of an Array.
type Layout string

const (
	// ChannelsFirst orders axes as (channel, height, width).
	ChannelsFirst Layout = "channels_first"
	// ChannelsLast orders axes as (height, width, channel).
	ChannelsLast Layout = "channels_last"
)

// ParseLayout validates s as a Layout.
func ParseLayout(s string) (Layout, error) {
	l := Layout(s)
	if !l.valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLayout, s)
	}
	return l, nil
}

func (l Layout) valid() bool {
	return l == ChannelsFirst || l == ChannelsLast
}

// Number is the set of element types an Array can hold.
type Number interface {
	~uint8 | ~uint16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Array is a dense rank-3 array in row-major order. Shape follows Layout:
// (C, H, W) for ChannelsFirst, (H, W, C) for ChannelsLast.
type Array[T Number] struct {
	Shape  []int
	Layout Layout
	Data   []T
}

// At returns the element at index (i, j, k) in the array's own axis order.
func (a *Array[T]) At(i, j, k int) T {
	return a.Data[(i*a.Shape[1]+j)*a.Shape[2]+k]
}

// Relayout returns a copy of a with its axes reordered for layout.
func (a *Array[T]) Relayout(layout Layout) (*Array[T], error) {
	if !layout.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}

	out := &Array[T]{Layout: layout, Data: make([]T, len(a.Data))}
	if layout == a.Layout {
		out.Shape = append([]int(nil), a.Shape...)
		copy(out.Data, a.Data)
		return out, nil
	}

	d0, d1, d2 := a.Shape[0], a.Shape[1], a.Shape[2]
	if a.Layout == ChannelsLast {
		// (H, W, C) -> (C, H, W)
		out.Shape = []int{d2, d0, d1}
		for y := 0; y < d0; y++ {
			for x := 0; x < d1; x++ {
				for c := 0; c < d2; c++ {
					out.Data[(c*d0+y)*d1+x] = a.Data[(y*d1+x)*d2+c]
				}
			}
		}
		return out, nil
	}

	// (C, H, W) -> (H, W, C)
	out.Shape = []int{d1, d2, d0}
	for c := 0; c < d0; c++ {
		for y := 0; y < d1; y++ {
			for x := 0; x < d2; x++ {
				out.Data[(y*d2+x)*d0+c] = a.Data[(c*d1+y)*d2+x]
			}
		}
	}
	return out, nil
}

// Tensor is raw pixel data in channels-last order before it is cast and
// laid out: (H, W) for single-channel sources, (H, W, C) for color, and
// (F, H, W, C) for stacked animation frames.
type Tensor struct {
	Shape []int
	Data  []float64
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int { return len(t.Shape) }

// TensorOf reads img into a Tensor. *image.Gray and *image.Gray16 give a
// rank-2 tensor of raw luminance values; every other image gives a rank-3
// tensor of R, G, B in 0..255.
func TensorOf(img image.Image) *Tensor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		t := &Tensor{Shape: []int{h, w}, Data: make([]float64, h*w)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				t.Data[y*w+x] = float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return t
	case *image.Gray16:
		t := &Tensor{Shape: []int{h, w}, Data: make([]float64, h*w)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				t.Data[y*w+x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return t
	case *Grid:
		t := &Tensor{Shape: []int{h, w, 3}, Data: make([]float64, 0, h*w*3)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl := src.RGB(x, y)
				t.Data = append(t.Data, float64(r), float64(g), float64(bl))
			}
		}
		return t
	}

	t := &Tensor{Shape: []int{h, w, 3}, Data: make([]float64, 0, h*w*3)}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			t.Data = append(t.Data, float64(c.R), float64(c.G), float64(c.B))
		}
	}
	return t
}

// StackFrames joins equally sized grids into a rank-4 (F, H, W, 3) tensor.
func StackFrames(frames []*Grid) (*Tensor, error) {
	if len(frames) == 0 {
		return nil, ErrNoImage
	}
	w, h := frames[0].Size()
	t := &Tensor{Shape: []int{len(frames), h, w, 3}, Data: make([]float64, 0, len(frames)*h*w*3)}
	for i, f := range frames {
		if fw, fh := f.Size(); fw != w || fh != h {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, want %dx%d", ErrInvalidSize, i, fw, fh, w, h)
		}
		t.Data = append(t.Data, TensorOf(f).Data...)
	}
	return t, nil
}

// ConvertTensor casts t to T and lays it out for layout.
//
// A rank-3 tensor is transposed to (C, H, W) for ChannelsFirst and kept as
// (H, W, C) for ChannelsLast. A rank-2 tensor gains a singleton channel axis
// at position 0 or 2. Other ranks fail with ErrUnsupportedRank.
func ConvertTensor[T Number](t *Tensor, layout Layout) (*Array[T], error) {
	if !layout.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
	if t == nil {
		return nil, ErrNoImage
	}

	switch t.Rank() {
	case 2:
		h, w := t.Shape[0], t.Shape[1]
		shape := []int{h, w, 1}
		if layout == ChannelsFirst {
			shape = []int{1, h, w}
		}
		return &Array[T]{Shape: shape, Layout: layout, Data: cast[T](t.Data)}, nil
	case 3:
		last := &Array[T]{
			Shape:  append([]int(nil), t.Shape...),
			Layout: ChannelsLast,
			Data:   cast[T](t.Data),
		}
		if layout == ChannelsLast {
			return last, nil
		}
		return last.Relayout(ChannelsFirst)
	default:
		return nil, fmt.Errorf("%w: %d (shape %v)", ErrUnsupportedRank, t.Rank(), t.Shape)
	}
}

// Convert reads img into an Array of T laid out for layout.
func Convert[T Number](img image.Image, layout Layout) (*Array[T], error) {
	if !layout.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
	if img == nil {
		return nil, ErrNoImage
	}
	return ConvertTensor[T](TensorOf(img), layout)
}

// ToArray is Convert with float32 elements.
func ToArray(img image.Image, layout Layout) (*Array[float32], error) {
	return Convert[float32](img, layout)
}

// cast converts src to T, saturating values outside T's range: a 16-bit
// sample cast to uint8 becomes 255, not its low byte.
func cast[T Number](src []float64) []T {
	lo, hi := limits[T]()
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = T(min(max(v, lo), hi))
	}
	return out
}

// limits returns the range of T as float64. The int64 bound is the largest
// float64 below 2^63, since 2^63 itself does not convert.
func limits[T Number]() (lo, hi float64) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 0, math.MaxUint8
	case uint16:
		return 0, math.MaxUint16
	case int32:
		return math.MinInt32, math.MaxInt32
	case int64:
		return math.MinInt64, math.Nextafter(math.MaxInt64, 0)
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

// ToArray converts g to a float32 Array, logging failures.
func (p *Processor) ToArray(g *Grid, layout Layout) (*Array[float32], error) {
	if g == nil {
		return nil, p.fail("to_array", ErrNoImage)
	}
	a, err := ToArray(g, layout)
	if err != nil {
		return nil, p.fail("to_array", err)
	}
	return a, nil
}

// TensorToArray converts an already assembled tensor, logging failures.
func (p *Processor) TensorToArray(t *Tensor, layout Layout) (*Array[float32], error) {
	a, err := ConvertTensor[float32](t, layout)
	if err != nil {
		return nil, p.fail("to_array", err)
	}
	return a, nil
}
