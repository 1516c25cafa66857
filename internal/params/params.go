// Package params holds the gradient parameters: the immutable per-frame
// snapshot read by the field, and the external configuration record that
// hosts mount with and read back.
package params

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/gradientbg/internal/noise"
)

// Mode selects the color strategy.
type Mode string

const (
	ModeBanded Mode = "banded"
	ModeRadial Mode = "radial"
)

// PointerMode selects the single pointer-driven distortion operator.
type PointerMode string

const (
	PointerNone     PointerMode = "none"
	PointerPush     PointerMode = "push"
	PointerPressure PointerMode = "pressure"
	PointerLens     PointerMode = "lens"
)

// PointerModes lists the pointer modes in cycling order.
var PointerModes = []PointerMode{PointerPressure, PointerLens, PointerPush, PointerNone}

// GrainMode selects whether grain re-randomizes every frame.
type GrainMode string

const (
	GrainStatic   GrainMode = "static"
	GrainAnimated GrainMode = "animated"
)

// Palette is the color strategy variant: Banded or Radial.
type Palette interface {
	Mode() Mode
}

// Banded blends four colors along vertical, horizontal and diagonal ramps.
type Banded struct {
	Colors  [4]colorful.Color
	Banding float64
}

// Mode implements Palette.
func (Banded) Mode() Mode { return ModeBanded }

// ControlPoint is a colored position in the unit square.
type ControlPoint struct {
	X, Y  float64
	Color colorful.Color
}

// Radial blends control points with exponential distance weights.
type Radial struct {
	Points     []ControlPoint
	Softness   float64
	Liveliness float64
}

// Mode implements Palette.
func (Radial) Mode() Mode { return ModeRadial }

// Pointer is the pointer operator variant.
type Pointer interface {
	PointerMode() PointerMode
}

// NoPointer ignores the pointer.
type NoPointer struct{}

func (NoPointer) PointerMode() PointerMode { return PointerNone }

// Push translates the whole field by the pointer's offset from center.
type Push struct {
	Strength float64
}

func (Push) PointerMode() PointerMode { return PointerPush }

// Pressure displaces samples near the pointer along a noise vector field.
type Pressure struct {
	Strength float64
	Radius   float64
}

func (Pressure) PointerMode() PointerMode { return PointerPressure }

// Lens pushes samples radially away from the pointer and emits a rim signal.
type Lens struct {
	Radius float64
	Power  float64
	Rim    float64
}

func (Lens) PointerMode() PointerMode { return PointerLens }

// Parameters is the resolved, clamped snapshot the field evaluates.
// It is never mutated once built; hosts replace it wholesale between frames.
type Parameters struct {
	Palette       Palette
	Pointer       Pointer
	NoiseStrength float64
	Speed         float64
	GrainAmount   float64
	GrainEnabled  bool
	GrainMode     GrainMode
	Basis         noise.BasisKind
	Seed          int64
}

// Range documents a scalar knob: values outside [Min, Max] are clamped.
type Range struct {
	Min, Max float64
}

// Clamp limits v to the range. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Ranges for every scalar key of Config.
var (
	NoiseRange         = Range{0, 1.5}
	SpeedRange         = Range{0, 3}
	BandingRange       = Range{0.2, 3}
	GrainRange         = Range{0, 0.5}
	MouseStrengthRange = Range{0, 1}
	RadiusRange        = Range{0.05, 1.5}
	LensRadiusRange    = Range{0.05, 1}
	LensPowerRange     = Range{0, 2}
	LensRimRange       = Range{0, 1}
	SoftnessRange      = Range{0.1, 5}
	LivelinessRange    = Range{0, 1}
)

const (
	MinControlPoints = 2
	MaxControlPoints = 6
)

// DefaultColors is the four-color banded palette.
var DefaultColors = []string{"#223bff", "#ff6a2b", "#0b0b10", "#9cb6c7"}

// DefaultControlPoints is the four-point radial layout.
func DefaultControlPoints() []ControlPointConfig {
	return []ControlPointConfig{
		{X: 0.15, Y: 0.20, Color: "#223bff"},
		{X: 0.85, Y: 0.25, Color: "#ff6a2b"},
		{X: 0.30, Y: 0.85, Color: "#9cb6c7"},
		{X: 0.80, Y: 0.80, Color: "#0b0b10"},
	}
}

// NextPointerMode returns the mode after m in PointerModes, wrapping around.
func NextPointerMode(m PointerMode) PointerMode {
	for i, pm := range PointerModes {
		if pm == m {
			return PointerModes[(i+1)%len(PointerModes)]
		}
	}
	return PointerModes[0]
}
