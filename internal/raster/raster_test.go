package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/gradientbg/internal/engine"
	"github.com/MeKo-Tech/gradientbg/internal/params"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNewFrameMinimumSize(t *testing.T) {
	img := NewFrame(0, -3)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}

func TestEnsureReusesMatchingBuffer(t *testing.T) {
	buf := NewFrame(4, 3)
	assert.Same(t, buf, Ensure(buf, 4, 3))

	other := Ensure(buf, 5, 3)
	assert.NotSame(t, buf, other)
	assert.Equal(t, 5, other.Bounds().Dx())

	assert.NotNil(t, Ensure(nil, 2, 2))
}

func TestDownsample(t *testing.T) {
	src := uniform(64, 32, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	dst := Downsample(src, 16, 8)

	require.Equal(t, image.Rect(0, 0, 16, 8), dst.Bounds())
	c := dst.NRGBAAt(8, 4)
	assert.InDelta(t, 200, int(c.R), 1)
	assert.InDelta(t, 100, int(c.G), 1)
	assert.InDelta(t, 50, int(c.B), 1)
}

func TestSoften(t *testing.T) {
	src := uniform(8, 8, color.NRGBA{A: 255})
	src.SetNRGBA(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	assert.Same(t, src, Soften(src, 0))

	dst := Soften(src, 1.5)
	require.Equal(t, src.Bounds(), dst.Bounds())
	assert.Less(t, dst.NRGBAAt(4, 4).R, uint8(255), "peak should spread")
	assert.Greater(t, dst.NRGBAAt(5, 4).R, uint8(0), "neighbor should pick up light")
}

func TestScaleInto(t *testing.T) {
	src := uniform(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	same := NewFrame(4, 4)
	ScaleInto(same, src)
	assert.Equal(t, src.Pix, same.Pix)

	big := NewFrame(9, 7)
	ScaleInto(big, src)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, big.NRGBAAt(8, 6))
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    png.CompressionLevel
		wantErr bool
	}{
		{"", png.DefaultCompression, false},
		{"default", png.DefaultCompression, false},
		{"none", png.NoCompression, false},
		{"fast", png.BestSpeed, false},
		{"BEST", png.BestCompression, false},
		{"ultra", png.DefaultCompression, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompression(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := uniform(3, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, src, png.BestSpeed))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{1, 2, 3}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestWritePNGCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "frame.png")
	require.NoError(t, WritePNG(path, uniform(2, 2, color.NRGBA{A: 255}), png.DefaultCompression))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestMeasure(t *testing.T) {
	s := Measure(uniform(10, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	assert.InDelta(t, 1.0, s.Mean, 1e-9)
	assert.InDelta(t, 0.0, s.StdDev, 1e-9)
	assert.InDelta(t, 1.0, s.Min, 1e-9)
	assert.InDelta(t, 1.0, s.Max, 1e-9)

	split := uniform(2, 1, color.NRGBA{A: 255})
	split.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	s = Measure(split)
	assert.InDelta(t, 0.5, s.Mean, 1e-9)
	assert.InDelta(t, 0.0, s.Min, 1e-9)
	assert.InDelta(t, 1.0, s.Max, 1e-9)
	assert.Greater(t, s.StdDev, 0.5)
}

func TestMeasureSubImage(t *testing.T) {
	img := uniform(4, 4, color.NRGBA{A: 255})
	for y := 2; y < 4; y++ {
		for x := 2; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	s := Measure(sub)
	assert.InDelta(t, 1.0, s.Mean, 1e-9)
}

func TestImageSurface(t *testing.T) {
	s := NewImageSurface(8, 4, 1.5)
	require.NoError(t, s.Init())

	w, h := s.Size()
	assert.Equal(t, []int{8, 4}, []int{w, h})
	assert.InDelta(t, 1.5, s.PixelRatio(), 1e-9)

	frame := uniform(8, 4, color.NRGBA{R: 9, A: 255})
	require.NoError(t, s.Present(frame))
	frame.Pix[0] = 0
	assert.Equal(t, uint8(9), s.Frame().Pix[0], "present must copy")
	assert.Equal(t, 1, s.Presents())

	s.Resize(3, 3)
	w, h = s.Size()
	assert.Equal(t, []int{3, 3}, []int{w, h})

	s.Release()
	assert.True(t, s.Released())
	assert.ErrorIs(t, s.Present(frame), ErrReleased)
}

func TestHostLookup(t *testing.T) {
	h := Host{"bg": NewImageSurface(1, 1, 1)}

	s, err := h.Lookup("bg")
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = h.Lookup("missing")
	assert.ErrorIs(t, err, engine.ErrTargetNotFound)
}

func TestMountOnImageSurface(t *testing.T) {
	surface := NewImageSurface(12, 6, 2)
	in, err := engine.Mount(Host{"bg": surface}, "bg", map[string]any{"mode": "radial"})
	require.NoError(t, err)
	defer in.Destroy()

	require.NoError(t, in.Tick(16*time.Millisecond))
	require.NotNil(t, surface.Frame())
	assert.Equal(t, image.Rect(0, 0, 24, 12), surface.Frame().Bounds())
	assert.Equal(t, string(params.ModeRadial), in.DescribeConfig().Mode)

	in.Destroy()
	assert.True(t, surface.Released())
}

func TestMountInitFailureReleases(t *testing.T) {
	surface := NewImageSurface(4, 4, 1)
	surface.InitErr = errors.New("no context")

	_, err := engine.Mount(Host{"bg": surface}, "bg", nil)
	assert.ErrorIs(t, err, engine.ErrBackendUnavailable)
	assert.True(t, surface.Released())
}
