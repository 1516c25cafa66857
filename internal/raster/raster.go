// Package raster holds the pixel-buffer helpers around a rendered frame:
// resampling, PNG encoding, luminance statistics and a headless surface.
package raster

import (
	"image"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// NewFrame allocates an opaque-ready frame buffer.
func NewFrame(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
}

// Ensure returns buf if it already has size w×h, else a new frame.
func Ensure(buf *image.NRGBA, w, h int) *image.NRGBA {
	if buf != nil && buf.Bounds().Dx() == w && buf.Bounds().Dy() == h {
		return buf
	}
	return NewFrame(w, h)
}

// Downsample shrinks a supersampled frame to w×h with Lanczos filtering.
func Downsample(src image.Image, w, h int) *image.NRGBA {
	g := gift.New(gift.Resize(w, h, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// Soften applies a Gaussian blur. sigma <= 0 returns src unchanged.
func Soften(src *image.NRGBA, sigma float32) *image.NRGBA {
	if sigma <= 0 {
		return src
	}
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// ScaleInto resamples src to fill dst with bilinear filtering.
func ScaleInto(dst *image.NRGBA, src image.Image) {
	if dst.Bounds().Size() == src.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}
