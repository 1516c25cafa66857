// Package field evaluates the animated color field: flow and pointer
// distortion, the color strategy, shaping and grain. Every function here is
// pure over (Program, Frame, sample) so rows can be rendered concurrently.
package field

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/gradientbg/internal/noise"
	"github.com/MeKo-Tech/gradientbg/internal/params"
)

// ErrInvalidProgram is returned by Compile for parameters no strategy can
// evaluate.
var ErrInvalidProgram = errors.New("invalid color program")

// Frame is the per-tick input shared by every sample.
type Frame struct {
	// Time is seconds since the first frame.
	Time float64
	// Width and Height are the physical surface size in pixels.
	Width, Height int
	// Pointer is the smoothed pointer in uv space, y up.
	Pointer Vec2
}

// Aspect is width/height of the physical surface.
func (f Frame) Aspect() float64 {
	if f.Width <= 0 || f.Height <= 0 {
		return 1
	}
	return float64(f.Width) / float64(f.Height)
}

// Program is a compiled, immutable Parameters snapshot.
type Program struct {
	params params.Parameters
	basis  noise.Basis
}

// Compile validates p and prepares it for evaluation.
func Compile(p params.Parameters) (*Program, error) {
	switch pal := p.Palette.(type) {
	case params.Banded:
	case params.Radial:
		if len(pal.Points) == 0 {
			return nil, fmt.Errorf("%w: radial palette has no control points", ErrInvalidProgram)
		}
	case nil:
		return nil, fmt.Errorf("%w: no palette", ErrInvalidProgram)
	default:
		return nil, fmt.Errorf("%w: unsupported palette %T", ErrInvalidProgram, pal)
	}

	switch ptr := p.Pointer.(type) {
	case params.NoPointer, params.Push, params.Pressure, params.Lens:
	case nil:
		p.Pointer = params.NoPointer{}
	default:
		return nil, fmt.Errorf("%w: unsupported pointer operator %T", ErrInvalidProgram, ptr)
	}

	return &Program{
		params: p,
		basis:  noise.NewBasis(p.Basis, p.Seed),
	}, nil
}

// Params returns the snapshot the program was compiled from.
func (p *Program) Params() params.Parameters {
	return p.params
}

func (p *Program) fbm(v Vec2) float64 {
	return noise.FBMWith(p.basis, v.X, v.Y)
}
