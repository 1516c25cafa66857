package interaction

import (
	"math"
	"sync/atomic"
)

// MaxPixelRatio caps the device pixel ratio used for the physical raster.
const MaxPixelRatio = 2

// MinPixels is the smallest physical width and height.
const MinPixels = 2

// Descriptor is the physical raster a frame is rendered into.
type Descriptor struct {
	Width, Height int
	PixelRatio    float64
}

// Describe computes the physical raster for a logical size and pixel ratio.
func Describe(w, h int, dpr float64) Descriptor {
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	dpr = math.Min(dpr, MaxPixelRatio)
	return Descriptor{
		Width:      max(MinPixels, int(math.Floor(float64(w)*dpr))),
		Height:     max(MinPixels, int(math.Floor(float64(h)*dpr))),
		PixelRatio: dpr,
	}
}

// Surface caches the Descriptor and recomputes it only when the logical size
// or pixel ratio changes, or after Invalidate.
type Surface struct {
	dirty atomic.Bool

	w, h  int
	dpr   float64
	desc  Descriptor
	valid bool
}

// Invalidate forces the next Resolve to recompute. Safe from any goroutine.
func (s *Surface) Invalidate() {
	s.dirty.Store(true)
}

// Resolve returns the current Descriptor and whether it changed.
func (s *Surface) Resolve(w, h int, dpr float64) (Descriptor, bool) {
	dirty := s.dirty.Swap(false)
	if s.valid && !dirty && w == s.w && h == s.h && dpr == s.dpr {
		return s.desc, false
	}

	next := Describe(w, h, dpr)
	changed := !s.valid || next != s.desc
	s.w, s.h, s.dpr = w, h, dpr
	s.desc = next
	s.valid = true
	return next, changed
}

// Current returns the last resolved Descriptor.
func (s *Surface) Current() Descriptor {
	return s.desc
}
