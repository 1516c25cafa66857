package raster

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/MeKo-Tech/gradientbg/internal/engine"
)

// ErrReleased is returned when presenting to a released surface.
var ErrReleased = errors.New("surface released")

// ImageSurface is an in-memory render target. It keeps a copy of the last
// presented frame.
type ImageSurface struct {
	mu       sync.Mutex
	w, h     int
	dpr      float64
	frame    *image.NRGBA
	presents int
	released bool

	// InitErr, when set, is returned by Init.
	InitErr error
}

// NewImageSurface creates a headless surface with a logical size and pixel ratio.
func NewImageSurface(w, h int, dpr float64) *ImageSurface {
	return &ImageSurface{w: w, h: h, dpr: dpr}
}

// Init implements engine.Surface.
func (s *ImageSurface) Init() error {
	return s.InitErr
}

// Size implements engine.Surface.
func (s *ImageSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

// PixelRatio implements engine.Surface.
func (s *ImageSurface) PixelRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dpr
}

// Resize changes the logical size; the engine picks it up on the next tick.
func (s *ImageSurface) Resize(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

// Present implements engine.Surface.
func (s *ImageSurface) Present(img *image.NRGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	if s.frame == nil || s.frame.Bounds() != img.Bounds() {
		s.frame = image.NewNRGBA(img.Bounds())
	}
	copy(s.frame.Pix, img.Pix)
	s.presents++
	return nil
}

// Release implements engine.Surface.
func (s *ImageSurface) Release() {
	s.mu.Lock()
	s.released = true
	s.mu.Unlock()
}

// Frame returns the last presented frame, or nil.
func (s *ImageSurface) Frame() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Presents counts successful Present calls.
func (s *ImageSurface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// Released reports whether Release was called.
func (s *ImageSurface) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Host resolves surface ids to headless surfaces.
type Host map[string]*ImageSurface

// Lookup implements engine.Host.
func (h Host) Lookup(id string) (engine.Surface, error) {
	s, ok := h[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", engine.ErrTargetNotFound, id)
	}
	return s, nil
}
