package field

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/gradientbg/internal/noise"
	"github.com/MeKo-Tech/gradientbg/internal/params"
)

// Shaping constants.
const (
	shapeGamma     = 0.96
	shapeGain      = 1.03
	vignetteFloor  = 0.80
	radialSteep    = 3.0
	radialMinTotal = 1e-6
)

// BlendRaw evaluates the color strategy at a warped coordinate, before
// shaping. a is in aspect space.
func (p *Program) BlendRaw(a Vec2, f Frame) colorful.Color {
	switch pal := p.params.Palette.(type) {
	case params.Radial:
		return p.blendRadial(pal, a, f)
	case params.Banded:
		return blendBanded(pal, a, f.Aspect())
	}
	return colorful.Color{}
}

func blendBanded(pal params.Banded, a Vec2, aspect float64) colorful.Color {
	x := a.X / aspect
	y := a.Y
	b := pal.Banding

	g1 := math.Pow(Smoothstep(0, 1, y), b)
	g2 := math.Pow(Smoothstep(0, 1, x), b*0.92)
	g3 := math.Pow(Smoothstep(0, 1, (x+y)*0.5), b*1.05)

	c := pal.Colors[0].BlendRgb(pal.Colors[1], g1)
	c = c.BlendRgb(pal.Colors[2], 0.85*g2)
	return c.BlendRgb(pal.Colors[3], 0.80*g3)
}

func (p *Program) blendRadial(pal params.Radial, a Vec2, f Frame) colorful.Color {
	aspect := f.Aspect()
	t := f.Time * p.params.Speed
	jitter := pal.Liveliness * 0.2

	var r, g, b, total float64
	for i, cp := range pal.Points {
		pt := Vec2{cp.X * aspect, cp.Y}
		if jitter > 0 {
			q := pt.Scale(3)
			fi := float64(i)
			pt = pt.Add(Vec2{
				p.fbm(q.Offset(7.1*fi, t*0.2)) - 0.5,
				p.fbm(q.Offset(3.7*fi+20, -t*0.2)) - 0.5,
			}.Scale(jitter))
		}
		w := math.Exp(-a.Dist(pt) * pal.Softness * radialSteep)
		r += w * cp.Color.R
		g += w * cp.Color.G
		b += w * cp.Color.B
		total += w
	}
	total = math.Max(total, radialMinTotal)
	return colorful.Color{R: r / total, G: g / total, B: b / total}
}

// Shade applies gamma, gain and vignette (on the unwarped uv), then the lens
// rim highlight.
func Shade(c colorful.Color, uv Vec2, rim float64) colorful.Color {
	shape := func(v float64) float64 {
		return math.Pow(math.Max(v, 0), shapeGamma) * shapeGain
	}
	c = colorful.Color{R: shape(c.R), G: shape(c.G), B: shape(c.B)}

	q := uv.Sub(Vec2{0.5, 0.5})
	vig := mix(vignetteFloor, 1, Smoothstep(0.95, 0.25, q.Dot(q)))
	c = colorful.Color{R: c.R * vig, G: c.G * vig, B: c.B * vig}

	if rim > 0 {
		l := Luma(c)
		lift := 0.25 * rim
		c = colorful.Color{
			R: mix(c.R, l, 0.35*rim) + lift,
			G: mix(c.G, l, 0.35*rim) + lift,
			B: mix(c.B, l, 0.35*rim) + lift,
		}
	}
	return c
}

// Luma is Rec. 709 relative luminance of linear-ish RGB.
func Luma(c colorful.Color) float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Grain adds hash noise at a physical pixel center (y up). It returns c
// unchanged when grain is off.
func (p *Program) Grain(c colorful.Color, px Vec2, f Frame) colorful.Color {
	if !p.params.GrainEnabled || p.params.GrainAmount <= 0 {
		return c
	}
	if p.params.GrainMode == params.GrainAnimated {
		px = px.Offset(f.Time*120, f.Time*120)
	}
	g := (noise.Hash(px.X, px.Y) - 0.5) * p.params.GrainAmount
	return colorful.Color{R: c.R + g, G: c.G + g, B: c.B + g}
}

// Eval is the full per-sample pipeline.
func (p *Program) Eval(uv, px Vec2, f Frame) colorful.Color {
	w := p.Warp(uv, f)
	c := p.BlendRaw(w.UV, f)
	c = Shade(c, uv, w.Rim)
	return p.Grain(c, px, f)
}
