// Package terminal hosts a gradient in a true-color terminal. Each cell
// shows two vertically stacked pixels with the upper half block glyph.
package terminal

import (
	"fmt"
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/MeKo-Tech/gradientbg/internal/engine"
	"github.com/MeKo-Tech/gradientbg/internal/raster"
)

// TargetID is the only mount target a Host serves.
const TargetID = "screen"

const halfBlock = '▀'

// Surface presents frames on a tcell screen. Its logical size is one unit
// per column and two per row.
type Surface struct {
	screen tcell.Screen
	dpr    float64

	mu      sync.Mutex
	grid    *image.NRGBA
	release sync.Once
}

// NewSurface wraps screen; it is not initialized until Init.
func NewSurface(screen tcell.Screen, dpr float64) *Surface {
	return &Surface{screen: screen, dpr: dpr}
}

// Screen exposes the underlying screen for event polling.
func (s *Surface) Screen() tcell.Screen {
	return s.screen
}

// Init implements engine.Surface.
func (s *Surface) Init() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	s.screen.EnableMouse()
	s.screen.HideCursor()
	s.screen.Clear()
	return nil
}

// Size implements engine.Surface.
func (s *Surface) Size() (int, int) {
	cols, rows := s.screen.Size()
	return cols, rows * 2
}

// PixelRatio implements engine.Surface.
func (s *Surface) PixelRatio() float64 {
	return s.dpr
}

// Present implements engine.Surface. Frames rendered above one pixel per
// logical unit are filtered down to the cell grid first.
func (s *Surface) Present(img *image.NRGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, rows := s.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}

	src := img
	if img.Bounds().Dx() != cols || img.Bounds().Dy() != rows*2 {
		s.grid = raster.Ensure(s.grid, cols, rows*2)
		raster.ScaleInto(s.grid, img)
		src = s.grid
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := src.NRGBAAt(x, 2*y)
			bottom := src.NRGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			s.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	s.screen.Show()
	return nil
}

// Release implements engine.Surface. It restores the terminal.
func (s *Surface) Release() {
	s.release.Do(s.screen.Fini)
}

// Host serves a single terminal surface under TargetID.
type Host struct {
	Surface *Surface
}

// Lookup implements engine.Host.
func (h Host) Lookup(id string) (engine.Surface, error) {
	if id != TargetID || h.Surface == nil {
		return nil, fmt.Errorf("%w: %q", engine.ErrTargetNotFound, id)
	}
	return h.Surface, nil
}
