package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := writePNG(t, t.TempDir(), "pattern.png", createPatternImage(40, 30))

	g, err := New().Load(path, nil)
	require.NoError(t, err)
	require.NotNil(t, g)

	w, h := g.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint8
	}{
		{"top-left red", 5, 5, 255, 0, 0},
		{"top-right green", 35, 5, 0, 255, 0},
		{"bottom-left blue", 5, 25, 0, 0, 255},
		{"bottom-right white", 35, 25, 255, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, gr, b := g.RGB(tt.x, tt.y)
			assert.Equal(t, []uint8{tt.r, tt.g, tt.b}, []uint8{r, gr, b})
		})
	}
}

func TestLoad_NonExistent(t *testing.T) {
	g, err := New().Load(filepath.Join(t.TempDir(), "fake_img_path"), nil)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_EmptyPath(t *testing.T) {
	g, err := New().Load("", nil)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	g, err := New().Load(path, nil)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoad_WithTargetSize(t *testing.T) {
	path := writePNG(t, t.TempDir(), "solid.png", createInMemoryImage(64, 48, red))

	g, err := New().Load(path, &Dimensions{Height: 10, Width: 20})
	require.NoError(t, err)

	w, h := g.Size()
	assert.Equal(t, 20, w, "width comes from the second value")
	assert.Equal(t, 10, h, "height comes from the first value")
}

func TestLoad_InvalidTargetSize(t *testing.T) {
	path := writePNG(t, t.TempDir(), "solid.png", createInMemoryImage(8, 8, red))

	g, err := New().Load(path, &Dimensions{Height: 0, Width: 5})
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestLoad_NormalizesColorModes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	gray16 := image.NewGray16(image.Rect(0, 0, 4, 4))
	translucent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	paletted := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.RGBA{10, 20, 30, 255}})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			gray.SetGray(x, y, color.Gray{Y: 77})
			gray16.SetGray16(x, y, color.Gray16{Y: 0xffff})
			translucent.SetNRGBA(x, y, color.NRGBA{200, 100, 50, 0x80})
			paletted.SetColorIndex(x, y, 1)
		}
	}

	tests := []struct {
		name    string
		img     image.Image
		r, g, b uint8
	}{
		{"gray", gray, 77, 77, 77},
		{"gray16", gray16, 255, 255, 255},
		{"alpha dropped, color kept", translucent, 200, 100, 50},
		{"palette expanded", paletted, 10, 20, 30},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePNG(t, dir, tt.name+".png", tt.img)

			g, err := New().Load(path, nil)
			require.NoError(t, err)

			assert.True(t, g.ColorModel() == color.NRGBAModel)
			r, gr, b := g.RGB(2, 2)
			assert.Equal(t, []uint8{tt.r, tt.g, tt.b}, []uint8{r, gr, b})
			assert.Equal(t, uint8(0xff), g.At(2, 2).(color.NRGBA).A)
		})
	}
}

func TestDecodeBytes_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, createInMemoryImage(33, 17, blue), &jpeg.Options{Quality: 90}))

	g, err := New().DecodeBytes(buf.Bytes(), nil)
	require.NoError(t, err)

	w, h := g.Size()
	assert.Equal(t, 33, w)
	assert.Equal(t, 17, h)
}

func TestDecode_Garbage(t *testing.T) {
	g, err := New().Decode(bytes.NewReader([]byte{0x00, 0x01, 0x02}), nil)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoad_LogsFailures(t *testing.T) {
	var logs bytes.Buffer
	p := New(WithLogger(zerolog.New(&logs)))

	_, err := p.Load(filepath.Join(t.TempDir(), "missing.png"), nil)
	require.Error(t, err)

	assert.Contains(t, logs.String(), `"op":"load"`)
	assert.Contains(t, logs.String(), `"component":"imaging"`)
	assert.Contains(t, logs.String(), "image operation failed")
}

func TestLoadFrames_AnimatedGIF(t *testing.T) {
	anim := &gif.GIF{}
	for _, c := range []color.Color{red, green, blue} {
		frame := image.NewPaletted(image.Rect(0, 0, 8, 6), palette.WebSafe)
		for y := 0; y < 6; y++ {
			for x := 0; x < 8; x++ {
				frame.Set(x, y, c)
			}
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 10)
	}

	frames, err := New().LoadFrames(writeGIF(t, anim))
	require.NoError(t, err)
	require.Len(t, frames, 3)

	for i, want := range []uint8{255, 0, 0} {
		r, _, _ := frames[i].RGB(0, 0)
		assert.Equal(t, want, r, "frame %d red channel", i)
		w, h := frames[i].Size()
		assert.Equal(t, 8, w)
		assert.Equal(t, 6, h)
	}
}

func TestLoadFrames_StillImage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "still.png", createInMemoryImage(5, 5, green))

	frames, err := New().LoadFrames(path)
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}

func TestLoadFrames_NonExistent(t *testing.T) {
	_, err := New().LoadFrames(filepath.Join(t.TempDir(), "missing.gif"))
	assert.ErrorIs(t, err, ErrNotFound)
}

// solidFrame returns a paletted frame filled with c covering r.
func solidFrame(r image.Rectangle, c color.Color) *image.Paletted {
	frame := image.NewPaletted(r, palette.WebSafe)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			frame.Set(x, y, c)
		}
	}
	return frame
}

func writeGIF(t *testing.T, anim *gif.GIF) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anim.gif")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, anim))
	require.NoError(t, f.Close())
	return path
}

func TestLoadFrames_Disposal(t *testing.T) {
	full := image.Rect(0, 0, 4, 4)
	corner := image.Rect(0, 0, 2, 2)

	tests := []struct {
		name     string
		frames   []*image.Paletted
		disposal []byte
		// Color at (3,3), outside the last frame, in the last returned grid.
		want [3]uint8
	}{
		{
			"none keeps the canvas",
			[]*image.Paletted{solidFrame(full, red), solidFrame(corner, green)},
			[]byte{gif.DisposalNone, gif.DisposalNone},
			[3]uint8{255, 0, 0},
		},
		{
			"background clears the frame area",
			[]*image.Paletted{solidFrame(full, red), solidFrame(corner, green)},
			[]byte{gif.DisposalBackground, gif.DisposalNone},
			[3]uint8{0, 0, 0},
		},
		{
			"previous restores the earlier canvas",
			[]*image.Paletted{solidFrame(full, red), solidFrame(full, green), solidFrame(corner, blue)},
			[]byte{gif.DisposalNone, gif.DisposalPrevious, gif.DisposalNone},
			[3]uint8{255, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim := &gif.GIF{
				Image:    tt.frames,
				Delay:    make([]int, len(tt.frames)),
				Disposal: tt.disposal,
				Config:   image.Config{Width: 4, Height: 4},
			}

			frames, err := New().LoadFrames(writeGIF(t, anim))
			require.NoError(t, err)
			require.Len(t, frames, len(tt.frames))

			// Each frame is captured before its own disposal runs.
			r, g, b := frames[0].RGB(3, 3)
			assert.Equal(t, []uint8{255, 0, 0}, []uint8{r, g, b}, "first frame")

			last := frames[len(frames)-1]
			r, g, b = last.RGB(3, 3)
			assert.Equal(t, tt.want[:], []uint8{r, g, b})
			r, g, b = last.RGB(0, 0)
			assert.NotEqual(t, []uint8{255, 0, 0}, []uint8{r, g, b}, "last frame is drawn")
		})
	}
}
