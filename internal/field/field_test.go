package field

import (
	"image"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/gradientbg/internal/params"
)

func mustColor(t *testing.T, s string) colorful.Color {
	t.Helper()
	c, ok := params.ParseColor(s)
	require.True(t, ok, s)
	return c
}

func compileConfig(t *testing.T, cfg params.Config) *Program {
	t.Helper()
	p, notes := params.Resolve(cfg)
	require.Empty(t, notes)
	prog, err := Compile(p)
	require.NoError(t, err)
	return prog
}

func centered(w, h int) Frame {
	return Frame{Width: w, Height: h, Pointer: Vec2{0.5, 0.5}}
}

func TestOriginIsFirstColor(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerPressure)
	cfg.Colors = []string{"#000000", "#ffffff", "#ff0000", "#00ff00"}
	cfg.Noise = 0
	cfg.Banding = 1
	cfg.GrainEnabled = false
	prog := compileConfig(t, cfg)

	for _, size := range [][2]int{{64, 64}, {160, 90}, {90, 160}} {
		f := centered(size[0], size[1])
		c := prog.Eval(Vec2{0, 0}, FragCoord(0, size[1]-1, size[1]), f)
		assert.Equal(t, colorful.Color{}, c, "size %v", size)
	}
}

func TestBandedTopIsSecondColor(t *testing.T) {
	c2 := mustColor(t, "#ff6a2b")
	prog, err := Compile(params.Parameters{
		Palette: params.Banded{
			Colors:  [4]colorful.Color{mustColor(t, "#223bff"), c2, mustColor(t, "#0b0b10"), c2},
			Banding: 1.15,
		},
		Pointer: params.NoPointer{},
	})
	require.NoError(t, err)

	c := prog.BlendRaw(Vec2{0, 1}, centered(100, 100))
	assert.InDelta(t, c2.R, c.R, 1e-12)
	assert.InDelta(t, c2.G, c.G, 1e-12)
	assert.InDelta(t, c2.B, c.B, 1e-12)
}

func TestRadialSinglePoint(t *testing.T) {
	want := mustColor(t, "#9cb6c7")
	prog, err := Compile(params.Parameters{
		Palette: params.Radial{
			Points:     []params.ControlPoint{{X: 0.3, Y: 0.7, Color: want}},
			Softness:   1,
			Liveliness: 0.35,
		},
		Pointer: params.NoPointer{},
		Speed:   1,
	})
	require.NoError(t, err)

	f := centered(120, 80)
	f.Time = 3.5
	for _, a := range []Vec2{{0, 0}, {0.3, 0.7}, {1.5, 1}, {0.9, 0.1}} {
		c := prog.BlendRaw(a, f)
		assert.InDelta(t, want.R, c.R, 1e-9)
		assert.InDelta(t, want.G, c.G, 1e-9)
		assert.InDelta(t, want.B, c.B, 1e-9)
	}
}

func TestRadialNearestPointDominates(t *testing.T) {
	red := mustColor(t, "#ff0000")
	blue := mustColor(t, "#0000ff")
	prog, err := Compile(params.Parameters{
		Palette: params.Radial{
			Points:   []params.ControlPoint{{X: 0, Y: 0, Color: red}, {X: 1, Y: 1, Color: blue}},
			Softness: 5,
		},
		Pointer: params.NoPointer{},
	})
	require.NoError(t, err)

	c := prog.BlendRaw(Vec2{0.05, 0.05}, centered(100, 100))
	assert.Greater(t, c.R, 0.99)
	assert.Less(t, c.B, 0.01)
}

func TestGrainDisabledIsIdentity(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerPressure)
	cfg.GrainEnabled = false
	prog := compileConfig(t, cfg)

	c := colorful.Color{R: 0.25, G: 0.5, B: 0.75}
	assert.Equal(t, c, prog.Grain(c, Vec2{10.5, 3.5}, Frame{Time: 2}))

	cfg.GrainEnabled = true
	cfg.Grain = 0
	prog = compileConfig(t, cfg)
	assert.Equal(t, c, prog.Grain(c, Vec2{10.5, 3.5}, Frame{Time: 2}))
}

func TestGrainModes(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerPressure)
	static := compileConfig(t, cfg)

	c := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	px := Vec2{17.5, 42.5}
	a := static.Grain(c, px, Frame{Time: 0})
	b := static.Grain(c, px, Frame{Time: 9.25})
	assert.Equal(t, a, b, "static grain ignores time")
	assert.InDelta(t, 0.5, a.R, cfg.Grain/2)
	assert.Equal(t, a.R, a.G)

	cfg.GrainMode = string(params.GrainAnimated)
	animated := compileConfig(t, cfg)
	assert.NotEqual(t, animated.Grain(c, px, Frame{Time: 0}), animated.Grain(c, px, Frame{Time: 9.25}))
}

func TestPressureFalloff(t *testing.T) {
	const r = 0.35
	assert.Equal(t, 1.0, PressureFalloff(0, r))
	assert.Equal(t, 0.0, PressureFalloff(r, r))
	assert.Equal(t, 0.0, PressureFalloff(2*r, r))

	prev := 1.0
	for d := 0.0; d <= r; d += r / 200 {
		f := PressureFalloff(d, r)
		assert.LessOrEqual(t, f, prev)
		prev = f
	}
}

func TestLensRim(t *testing.T) {
	const r = 0.28
	assert.Equal(t, 0.0, LensRim(0, r))
	assert.Equal(t, 0.0, LensRim(r*0.8, r))
	assert.Equal(t, 0.0, LensRim(r, r))
	assert.Equal(t, 0.0, LensRim(2*r, r))
	assert.InDelta(t, 1.0, LensRim(r*(1-rimPeak), r), 1e-9)
	assert.Greater(t, LensRim(r*0.91, r), 0.0)
}

func TestWarpIdentityWithoutDistortion(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerNone)
	cfg.Noise = 0
	prog := compileConfig(t, cfg)

	f := centered(200, 100)
	w := prog.Warp(Vec2{0.25, 0.75}, f)
	assert.Equal(t, Vec2{0.5, 0.75}, w.UV)
	assert.Equal(t, 0.0, w.Rim)
}

func TestPushFollowsPointer(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerPush)
	cfg.Noise = 0
	prog := compileConfig(t, cfg)

	f := centered(100, 100)
	uv := Vec2{0.4, 0.6}
	assert.Equal(t, uv, prog.Warp(uv, f).UV, "centered pointer does not push")

	f.Pointer = Vec2{1, 1}
	w := prog.Warp(uv, f)
	assert.InDelta(t, 0.4+0.5*cfg.MouseStrength, w.UV.X, 1e-12)
	assert.InDelta(t, 0.6+0.5*cfg.MouseStrength, w.UV.Y, 1e-12)
}

func TestPressureIsLocal(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerPressure)
	cfg.Noise = 0
	prog := compileConfig(t, cfg)

	f := centered(100, 100)
	far := Vec2{0.02, 0.02}
	assert.Equal(t, far, prog.Warp(far, f).UV)

	near := Vec2{0.52, 0.5}
	assert.NotEqual(t, near, prog.Warp(near, f).UV)
}

func TestLensPushesOutward(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerLens)
	cfg.Noise = 0
	prog := compileConfig(t, cfg)

	f := centered(100, 100)
	uv := Vec2{0.55, 0.5}
	w := prog.Warp(uv, f)
	assert.Greater(t, w.UV.X, uv.X)
	assert.InDelta(t, uv.Y, w.UV.Y, 1e-12)

	rimUV := Vec2{0.5 + cfg.LensRadius*(1-rimPeak), 0.5}
	assert.InDelta(t, cfg.LensRim, prog.Warp(rimUV, f).Rim, 1e-9)
}

func TestVignetteDarkensOutward(t *testing.T) {
	gray := colorful.Color{R: 0.6, G: 0.6, B: 0.6}
	prev := Luma(Shade(gray, Vec2{0.5, 0.5}, 0))
	for i := 1; i <= 50; i++ {
		s := 0.5 + float64(i)*0.01
		l := Luma(Shade(gray, Vec2{s, s}, 0))
		assert.LessOrEqual(t, l, prev)
		prev = l
	}
	assert.Equal(t, colorful.Color{}, Shade(colorful.Color{}, Vec2{0.5, 0.5}, 0))
}

func TestShadeRimLifts(t *testing.T) {
	c := colorful.Color{R: 0.2, G: 0.3, B: 0.4}
	uv := Vec2{0.5, 0.5}
	assert.Greater(t, Luma(Shade(c, uv, 1)), Luma(Shade(c, uv, 0)))
}

func TestSampleMapping(t *testing.T) {
	assert.Equal(t, Vec2{0.125, 0.875}, SampleUV(0, 0, 4, 4))
	assert.Equal(t, Vec2{0.875, 0.125}, SampleUV(3, 3, 4, 4))
	assert.Equal(t, Vec2{0.5, 3.5}, FragCoord(0, 0, 4))
	assert.Equal(t, Vec2{2.5, 0.5}, FragCoord(2, 3, 4))
}

func TestRenderMatchesEval(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeRadial, params.PointerLens)
	prog := compileConfig(t, cfg)

	const w, h = 24, 16
	f := Frame{Time: 1.5, Width: w, Height: h, Pointer: Vec2{0.4, 0.6}}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	prog.Render(img, f)

	for _, pt := range []image.Point{{0, 0}, {w - 1, h - 1}, {7, 11}} {
		r, g, b := prog.Eval(SampleUV(pt.X, pt.Y, w, h), FragCoord(pt.X, pt.Y, h), f).Clamped().RGB255()
		got := img.NRGBAAt(pt.X, pt.Y)
		assert.Equal(t, [4]uint8{r, g, b, 0xff}, [4]uint8{got.R, got.G, got.B, got.A})
	}
}

func TestCompileRejects(t *testing.T) {
	_, err := Compile(params.Parameters{})
	assert.ErrorIs(t, err, ErrInvalidProgram)

	_, err = Compile(params.Parameters{Palette: params.Radial{}})
	assert.ErrorIs(t, err, ErrInvalidProgram)

	prog, err := Compile(params.Parameters{Palette: params.Banded{Banding: 1}})
	require.NoError(t, err)
	assert.Equal(t, params.PointerNone, prog.Params().Pointer.PointerMode())
}

func BenchmarkRender(b *testing.B) {
	p, _ := params.Resolve(params.DefaultConfig(params.ModeBanded, params.PointerPressure))
	prog, err := Compile(p)
	if err != nil {
		b.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 160, 90))
	f := Frame{Width: 160, Height: 90, Pointer: Vec2{0.5, 0.5}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Time = float64(i) / 60
		prog.Render(img, f)
	}
}
