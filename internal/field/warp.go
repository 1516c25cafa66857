package field

import "github.com/MeKo-Tech/gradientbg/internal/params"

// Warp is the output of the distortion pipeline.
type Warp struct {
	// UV is the warped coordinate in aspect space (x scaled by aspect).
	UV Vec2
	// Rim is the lens rim signal in [0,1]; zero for other operators.
	Rim float64
}

// Lens rim band, as fractions of the lens radius.
const (
	rimWidth = 0.12
	rimPeak  = 0.06
)

// Warp applies the flow warp and then the pointer operator to uv.
func (p *Program) Warp(uv Vec2, f Frame) Warp {
	aspect := f.Aspect()
	a := Vec2{uv.X * aspect, uv.Y}
	m := Vec2{f.Pointer.X * aspect, f.Pointer.Y}
	t := f.Time * p.params.Speed

	if s := p.params.NoiseStrength; s > 0 {
		q := a.Scale(1.35)
		flow := Vec2{
			p.fbm(q.Offset(0, t*0.18)) - 0.5,
			p.fbm(q.Offset(10, -t*0.16)) - 0.5,
		}
		a = a.Add(flow.Scale(s))
	}

	var rim float64
	switch op := p.params.Pointer.(type) {
	case params.Push:
		a = a.Add(m.Sub(Vec2{0.5 * aspect, 0.5}).Scale(op.Strength))
	case params.Pressure:
		if falloff := PressureFalloff(a.Dist(m), op.Radius); falloff > 0 {
			q := a.Scale(2.2).Add(m.Scale(2))
			field := Vec2{
				p.fbm(q.Offset(0, t*0.35)) - 0.5,
				p.fbm(q.Offset(12.3, -t*0.30)) - 0.5,
			}
			a = a.Add(field.Scale(op.Strength * 0.10 * falloff))
		}
	case params.Lens:
		d := a.Dist(m)
		if d < op.Radius {
			fade := 1 - Smoothstep(0.8*op.Radius, op.Radius, d)
			a = a.Add(a.Sub(m).Scale((1 - d/op.Radius) * op.Power * fade))
		}
		rim = LensRim(d, op.Radius) * op.Rim
	}

	return Warp{UV: a, Rim: rim}
}

// PressureFalloff is 1 at d=0, 0 for d >= radius and smooth in between.
func PressureFalloff(d, radius float64) float64 {
	f := Smoothstep(radius, 0, d)
	return f * f * (3 - 2*f)
}

// LensRim is a bump over [R(1-0.12), R] that peaks at R(1-0.06).
func LensRim(d, radius float64) float64 {
	inner := radius * (1 - rimWidth)
	peak := radius * (1 - rimPeak)
	if d <= inner || d >= radius {
		return 0
	}
	if d < peak {
		return Smoothstep(inner, peak, d)
	}
	return Smoothstep(radius, peak, d)
}
