package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name    string
		vals    []int
		want    *Dimensions
		wantErr bool
	}{
		{"height then width", []int{30, 40}, &Dimensions{Height: 30, Width: 40}, false},
		{"one value", []int{30}, nil, true},
		{"three values", []int{30, 40, 3}, nil, true},
		{"empty", nil, nil, true},
		{"zero height", []int{0, 40}, nil, true},
		{"negative width", []int{30, -1}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDimensions(tt.vals...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSize)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDimensions_Size(t *testing.T) {
	w, h := Dimensions{Height: 3, Width: 7}.Size()
	assert.Equal(t, 7, w)
	assert.Equal(t, 3, h)
}

func TestParseCropBox(t *testing.T) {
	box, err := ParseCropBox(1, 2, 30, 40)
	require.NoError(t, err)
	assert.Equal(t, &CropBox{Left: 1, Upper: 2, Right: 30, Lower: 40}, box)

	for _, n := range []int{0, 3, 5} {
		_, err := ParseCropBox(make([]int, n)...)
		assert.ErrorIs(t, err, ErrInvalidCropBox, "%d values", n)
	}
}

func TestResize_SameSizeIsNoOp(t *testing.T) {
	g := gridOf(createPatternImage(40, 30))

	out, err := New().Resize(g, &Dimensions{Height: 30, Width: 40})
	require.NoError(t, err)
	assert.Same(t, g, out)
}

func TestResize(t *testing.T) {
	resamplers := map[string]Resampler{
		"imaging": LanczosResampler{},
		"bild":    BildResampler{},
	}

	for name, r := range resamplers {
		t.Run(name, func(t *testing.T) {
			p := New(WithResampler(r))
			g := gridOf(createInMemoryImage(100, 50, red))

			out, err := p.Resize(g, &Dimensions{Height: 25, Width: 40})
			require.NoError(t, err)

			w, h := out.Size()
			assert.Equal(t, 40, w)
			assert.Equal(t, 25, h)

			// A uniform image stays uniform under an anti-aliasing filter.
			rr, gg, bb := out.RGB(20, 12)
			assert.InDelta(t, 255, int(rr), 1)
			assert.InDelta(t, 0, int(gg), 1)
			assert.InDelta(t, 0, int(bb), 1)
			assert.Equal(t, uint8(0xff), out.img.Pix[3])
		})
	}
}

func TestResize_DoesNotModifyInput(t *testing.T) {
	g := gridOf(createPatternImage(20, 20))
	before := append([]uint8(nil), g.img.Pix...)

	_, err := New().Resize(g, &Dimensions{Height: 5, Width: 5})
	require.NoError(t, err)
	assert.Equal(t, before, g.img.Pix)
}

func TestResize_InvalidSize(t *testing.T) {
	g := gridOf(createInMemoryImage(10, 10, red))

	tests := []struct {
		name string
		size *Dimensions
	}{
		{"missing", nil},
		{"zero", &Dimensions{}},
		{"negative", &Dimensions{Height: -2, Width: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New().Resize(g, tt.size)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestResize_NilGrid(t *testing.T) {
	_, err := New().Resize(nil, &Dimensions{Height: 1, Width: 1})
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestCrop(t *testing.T) {
	g := gridOf(createPatternImage(100, 100))

	tests := []struct {
		name          string
		box           CropBox
		width, height int
		r, g, b       uint8
	}{
		{"top-left quadrant", CropBox{0, 0, 50, 50}, 50, 50, 255, 0, 0},
		{"top-right quadrant", CropBox{50, 0, 100, 50}, 50, 50, 0, 255, 0},
		{"bottom-left quadrant", CropBox{0, 50, 50, 100}, 50, 50, 0, 0, 255},
		{"bottom-right quadrant", CropBox{50, 50, 100, 100}, 50, 50, 255, 255, 255},
		{"inverted box is normalized", CropBox{50, 50, 0, 0}, 50, 50, 255, 0, 0},
		{"box past the edge is intersected", CropBox{80, 80, 150, 150}, 20, 20, 255, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := tt.box
			out, err := New().Crop(g, &box)
			require.NoError(t, err)

			w, h := out.Size()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)

			r, gr, b := out.RGB(0, 0)
			assert.Equal(t, []uint8{tt.r, tt.g, tt.b}, []uint8{r, gr, b})
		})
	}
}

func TestCrop_OutsideImage(t *testing.T) {
	g := gridOf(createPatternImage(10, 10))

	out, err := New().Crop(g, &CropBox{Left: 20, Upper: 20, Right: 30, Lower: 30})
	require.NoError(t, err)
	w, h := out.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestResize_EmptyGrid(t *testing.T) {
	p := New()
	empty, err := p.Crop(gridOf(createPatternImage(10, 10)), &CropBox{Left: 20, Upper: 20, Right: 30, Lower: 30})
	require.NoError(t, err)

	out, err := p.Resize(empty, &Dimensions{Height: 5, Width: 5})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestCrop_MissingBox(t *testing.T) {
	g := gridOf(createPatternImage(10, 10))

	out, err := New().Crop(g, nil)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrInvalidCropBox)
}

func TestResamplerByName(t *testing.T) {
	tests := []struct {
		name string
		want Resampler
		ok   bool
	}{
		{"", LanczosResampler{}, true},
		{"imaging", LanczosResampler{}, true},
		{"lanczos", LanczosResampler{}, true},
		{"bild", BildResampler{}, true},
		{"nearest", nil, false},
	}
	for _, tt := range tests {
		got, ok := ResamplerByName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
