//go:build js && wasm

package main

import (
	"errors"
	"fmt"
	"image"

	"syscall/js"

	"github.com/MeKo-Tech/gradientbg/internal/engine"
)

// documentHost resolves CSS selectors. A non-canvas element gets a canvas
// child that fills it.
type documentHost struct {
	last *canvasSurface
}

func (h *documentHost) Lookup(selector string) (engine.Surface, error) {
	el := js.Global().Get("document").Call("querySelector", selector)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("%w: no element matches %q", engine.ErrTargetNotFound, selector)
	}

	s := &canvasSurface{canvas: el}
	if el.Get("tagName").String() != "CANVAS" {
		canvas := js.Global().Get("document").Call("createElement", "canvas")
		style := canvas.Get("style")
		style.Set("width", "100%")
		style.Set("height", "100%")
		style.Set("display", "block")
		el.Call("appendChild", canvas)
		s.canvas = canvas
		s.owned = true
	}
	h.last = s
	return s, nil
}

type canvasSurface struct {
	canvas   js.Value
	ctx      js.Value
	owned    bool
	pixels   js.Value
	releases []func()
}

func (s *canvasSurface) Init() error {
	ctx := s.canvas.Call("getContext", "2d")
	if ctx.IsNull() || ctx.IsUndefined() {
		return errors.New("2d canvas context unavailable")
	}
	s.ctx = ctx
	return nil
}

func (s *canvasSurface) Size() (int, int) {
	return s.canvas.Get("clientWidth").Int(), s.canvas.Get("clientHeight").Int()
}

func (s *canvasSurface) PixelRatio() float64 {
	dpr := js.Global().Get("devicePixelRatio")
	if dpr.Type() != js.TypeNumber {
		return 1
	}
	return dpr.Float()
}

func (s *canvasSurface) Present(img *image.NRGBA) error {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if s.canvas.Get("width").Int() != w || s.canvas.Get("height").Int() != h {
		s.canvas.Set("width", w)
		s.canvas.Set("height", h)
	}

	if s.pixels.IsUndefined() || s.pixels.Get("length").Int() != len(img.Pix) {
		s.pixels = js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	}
	js.CopyBytesToJS(s.pixels, img.Pix)

	data := js.Global().Get("ImageData").New(s.pixels, w, h)
	s.ctx.Call("putImageData", data, 0, 0)
	return nil
}

func (s *canvasSurface) onRelease(fn func()) {
	s.releases = append(s.releases, fn)
}

func (s *canvasSurface) Release() {
	for _, fn := range s.releases {
		fn()
	}
	s.releases = nil
	if s.owned {
		s.canvas.Call("remove")
	}
}
