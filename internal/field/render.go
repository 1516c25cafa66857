package field

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// SampleUV maps pixel (x, y) of a w×h raster (y down) to its center in uv
// space (y up).
func SampleUV(x, y, w, h int) Vec2 {
	return Vec2{
		(float64(x) + 0.5) / float64(w),
		1 - (float64(y)+0.5)/float64(h),
	}
}

// FragCoord is the physical pixel center of raster pixel (x, y) with y up.
func FragCoord(x, y, h int) Vec2 {
	return Vec2{float64(x) + 0.5, float64(h-1-y) + 0.5}
}

// RenderRows evaluates rows [y0, y1) of dst. dst must match the frame size.
// Disjoint row ranges may be rendered concurrently.
func (p *Program) RenderRows(dst *image.NRGBA, f Frame, y0, y1 int) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := y0; y < y1; y++ {
		off := dst.PixOffset(b.Min.X, b.Min.Y+y)
		row := dst.Pix[off : off+w*4]
		for x := 0; x < w; x++ {
			c := p.Eval(SampleUV(x, y, w, h), FragCoord(x, y, h), f)
			putPixel(row[x*4:x*4+4], c)
		}
	}
}

// Render evaluates the whole frame on the calling goroutine.
func (p *Program) Render(dst *image.NRGBA, f Frame) {
	p.RenderRows(dst, f, 0, dst.Bounds().Dy())
}

func putPixel(px []uint8, c colorful.Color) {
	r, g, b := c.Clamped().RGB255()
	px[0], px[1], px[2], px[3] = r, g, b, 0xff
}
