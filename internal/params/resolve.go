package params

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/gradientbg/internal/noise"
)

// Resolve turns a Config into Parameters. Out-of-range scalars are clamped
// and NaN scalars take their default. Malformed colors become black and
// unknown enum values fall back to their defaults. Every substitution is
// described in the returned notes.
func Resolve(cfg Config) (Parameters, []string) {
	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}
	clamp := func(name string, r Range, v, def float64) float64 {
		if math.IsNaN(v) {
			note("%s is not a number; using %.4g", name, def)
			return r.Clamp(def)
		}
		c := r.Clamp(v)
		if c != v {
			note("%s %.4g clamped to %.4g", name, v, c)
		}
		return c
	}
	color := func(name, s string) colorful.Color {
		c, ok := ParseColor(s)
		if !ok {
			note("%s %q is not a hex color; using black", name, s)
		}
		return c
	}

	mode := parseMode(cfg.Mode)
	if !sameName(cfg.Mode, string(mode)) {
		note("mode %q unknown; using %s", cfg.Mode, mode)
	}
	pointer := parsePointerMode(cfg.Pointer)
	if !sameName(cfg.Pointer, string(pointer)) {
		note("pointer %q unknown; using %s", cfg.Pointer, pointer)
	}
	grainMode := parseGrainMode(cfg.GrainMode)
	if !sameName(cfg.GrainMode, string(grainMode)) {
		note("grainMode %q unknown; using %s", cfg.GrainMode, grainMode)
	}
	basis, err := noise.ParseBasisKind(cfg.Basis)
	if err != nil {
		note("%v; using %s", err, basis)
	}

	defaults := DefaultConfig(mode, pointer)

	p := Parameters{
		NoiseStrength: clamp("noise", NoiseRange, cfg.Noise, defaults.Noise),
		Speed:         clamp("speed", SpeedRange, cfg.Speed, defaults.Speed),
		GrainAmount:   clamp("grain", GrainRange, cfg.Grain, defaults.Grain),
		GrainEnabled:  cfg.GrainEnabled,
		GrainMode:     grainMode,
		Basis:         basis,
		Seed:          cfg.Seed,
	}

	switch mode {
	case ModeRadial:
		points := cfg.ControlPoints
		if len(points) < MinControlPoints {
			note("%d control points given; using defaults", len(points))
			points = DefaultControlPoints()
		}
		if len(points) > MaxControlPoints {
			note("%d control points given; keeping the first %d", len(points), MaxControlPoints)
			points = points[:MaxControlPoints]
		}
		r := Radial{
			Points:     make([]ControlPoint, len(points)),
			Softness:   clamp("softness", SoftnessRange, cfg.Softness, defaults.Softness),
			Liveliness: clamp("liveliness", LivelinessRange, cfg.Liveliness, defaults.Liveliness),
		}
		unit := Range{0, 1}
		for i, cp := range points {
			r.Points[i] = ControlPoint{
				X:     clamp(fmt.Sprintf("controlPoints[%d].x", i), unit, cp.X, 0.5),
				Y:     clamp(fmt.Sprintf("controlPoints[%d].y", i), unit, cp.Y, 0.5),
				Color: color(fmt.Sprintf("controlPoints[%d].color", i), cp.Color),
			}
		}
		p.Palette = r
	default:
		b := Banded{Banding: clamp("banding", BandingRange, cfg.Banding, defaults.Banding)}
		if len(cfg.Colors) != len(b.Colors) {
			note("%d colors given; expected %d", len(cfg.Colors), len(b.Colors))
		}
		for i := range b.Colors {
			s := DefaultColors[i]
			if i < len(cfg.Colors) {
				s = cfg.Colors[i]
			}
			b.Colors[i] = color(fmt.Sprintf("colors[%d]", i), s)
		}
		p.Palette = b
	}

	switch pointer {
	case PointerNone:
		p.Pointer = NoPointer{}
	case PointerPush:
		p.Pointer = Push{Strength: clamp("mouseStrength", MouseStrengthRange, cfg.MouseStrength, defaults.MouseStrength)}
	case PointerLens:
		p.Pointer = Lens{
			Radius: clamp("lensRadius", LensRadiusRange, cfg.LensRadius, defaults.LensRadius),
			Power:  clamp("lensPower", LensPowerRange, cfg.LensPower, defaults.LensPower),
			Rim:    clamp("lensRim", LensRimRange, cfg.LensRim, defaults.LensRim),
		}
	default:
		p.Pointer = Pressure{
			Strength: clamp("mouseStrength", MouseStrengthRange, cfg.MouseStrength, defaults.MouseStrength),
			Radius:   clamp("radius", RadiusRange, cfg.Radius, defaults.Radius),
		}
	}

	return p, notes
}

// Describe returns the Config that reproduces p exactly. Keys that p's
// variants do not carry are filled with the defaults for its mode.
func Describe(p Parameters) Config {
	mode := ModeBanded
	if p.Palette != nil {
		mode = p.Palette.Mode()
	}
	pointer := PointerPressure
	if p.Pointer != nil {
		pointer = p.Pointer.PointerMode()
	}
	cfg := DefaultConfig(mode, pointer)

	cfg.Noise = p.NoiseStrength
	cfg.Speed = p.Speed
	cfg.Grain = p.GrainAmount
	cfg.GrainEnabled = p.GrainEnabled
	cfg.GrainMode = string(p.GrainMode)
	cfg.Basis = string(p.Basis)
	cfg.Seed = p.Seed

	switch pal := p.Palette.(type) {
	case Banded:
		cfg.Banding = pal.Banding
		cfg.Colors = make([]string, len(pal.Colors))
		for i, c := range pal.Colors {
			cfg.Colors[i] = FormatColor(c)
		}
	case Radial:
		cfg.Softness = pal.Softness
		cfg.Liveliness = pal.Liveliness
		cfg.ControlPoints = make([]ControlPointConfig, len(pal.Points))
		for i, cp := range pal.Points {
			cfg.ControlPoints[i] = ControlPointConfig{X: cp.X, Y: cp.Y, Color: FormatColor(cp.Color)}
		}
	}

	switch ptr := p.Pointer.(type) {
	case Push:
		cfg.MouseStrength = ptr.Strength
	case Pressure:
		cfg.MouseStrength = ptr.Strength
		cfg.Radius = ptr.Radius
	case Lens:
		cfg.LensRadius = ptr.Radius
		cfg.LensPower = ptr.Power
		cfg.LensRim = ptr.Rim
	}

	return cfg
}

func sameName(given, resolved string) bool {
	return strings.EqualFold(strings.TrimSpace(given), resolved)
}
