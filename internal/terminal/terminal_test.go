package terminal

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/gradientbg/internal/engine"
	"github.com/MeKo-Tech/gradientbg/internal/interaction"
)

func newSimSurface(t *testing.T, cols, rows int, dpr float64) (tcell.SimulationScreen, *Surface) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s := NewSurface(sim, dpr)
	require.NoError(t, s.Init())
	sim.SetSize(cols, rows)
	t.Cleanup(s.Release)
	return sim, s
}

func rgbStyle(top, bottom color.NRGBA) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
		Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
}

func TestSurfaceSizeIsHalfBlocks(t *testing.T) {
	_, s := newSimSurface(t, 10, 4, 1)
	w, h := s.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 8, h)
}

func TestPresentHalfBlocks(t *testing.T) {
	sim, s := newSimSurface(t, 3, 2, 1)

	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, 3, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			if y%2 == 0 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, green)
			}
		}
	}
	require.NoError(t, s.Present(img))

	cells, cols, rows := sim.GetContents()
	require.Equal(t, 3, cols)
	require.Equal(t, 2, rows)
	for i, cell := range cells {
		require.NotEmpty(t, cell.Runes, "cell %d", i)
		assert.Equal(t, halfBlock, cell.Runes[0])
		assert.Equal(t, rgbStyle(red, green), cell.Style)
	}
}

func TestPresentScalesHighDensityFrames(t *testing.T) {
	sim, s := newSimSurface(t, 2, 1, 2)

	blue := color.NRGBA{B: 200, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+2], img.Pix[i+3] = blue.B, blue.A
	}
	require.NoError(t, s.Present(img))

	cells, _, _ := sim.GetContents()
	for _, cell := range cells {
		assert.Equal(t, rgbStyle(blue, blue), cell.Style)
	}
}

func TestHostLookup(t *testing.T) {
	_, s := newSimSurface(t, 4, 2, 1)
	host := Host{Surface: s}

	got, err := host.Lookup(TargetID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = host.Lookup("elsewhere")
	assert.ErrorIs(t, err, engine.ErrTargetNotFound)
}

func TestMountOnTerminal(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	s := NewSurface(sim, 1)

	in, err := engine.Mount(Host{Surface: s}, TargetID, nil)
	require.NoError(t, err)
	defer in.Destroy()

	sim.SetSize(8, 3)
	in.NotifyResize()
	require.NoError(t, in.Tick(0))
	assert.Equal(t, interaction.Descriptor{Width: 8, Height: 6, PixelRatio: 1}, in.Descriptor())

	cells, _, _ := sim.GetContents()
	require.Len(t, cells, 24)
	assert.Equal(t, halfBlock, cells[0].Runes[0])
}

func TestHandleEvent(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	s := NewSurface(sim, 1)
	in, err := engine.Mount(Host{Surface: s}, TargetID, nil)
	require.NoError(t, err)
	defer in.Destroy()
	sim.SetSize(10, 5)

	var actions []Action
	record := func(a Action) { actions = append(actions, a) }

	assert.Equal(t, ActionNone, handleEvent(in, s, tcell.NewEventMouse(9, 0, tcell.ButtonNone, tcell.ModNone), record))
	assert.Equal(t, interaction.Tracking, in.Phase())

	assert.Equal(t, ActionRandomize, handleEvent(in, s, tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), record))
	assert.Equal(t, ActionQuit, handleEvent(in, s, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), record))
	assert.Equal(t, []Action{ActionRandomize}, actions, "quit is not forwarded")
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want Action
	}{
		{"escape", tcell.KeyEscape, 0, ActionQuit},
		{"ctrl-c", tcell.KeyCtrlC, 0, ActionQuit},
		{"q", tcell.KeyRune, 'q', ActionQuit},
		{"randomize", tcell.KeyRune, 'r', ActionRandomize},
		{"grain", tcell.KeyRune, 'g', ActionToggleGrain},
		{"pointer", tcell.KeyRune, 'M', ActionCyclePointer},
		{"other", tcell.KeyRune, 'x', ActionNone},
		{"enter", tcell.KeyEnter, 0, ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyAction(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone)))
		})
	}
}

func TestFrameInterval(t *testing.T) {
	assert.Equal(t, time.Second/30, FrameInterval(30))
	assert.Equal(t, time.Second, FrameInterval(0))
	assert.Equal(t, time.Second/120, FrameInterval(1000))
}
