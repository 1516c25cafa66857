// Package interaction tracks pointer input, the animation clock and the
// physical surface size between frames.
package interaction

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/gradientbg/internal/field"
)

// Phase is the pointer tracking phase.
type Phase int32

const (
	// Idle means no pointer event has arrived yet; the pointer rests at the center.
	Idle Phase = iota
	// Tracking follows the last posted pointer position. There is no way back to Idle.
	Tracking
)

func (p Phase) String() string {
	if p == Tracking {
		return "tracking"
	}
	return "idle"
}

// DefaultDecay is the per-tick smoothing factor.
const DefaultDecay = 0.10

// Decay bounds accepted by NewState.
const (
	MinDecay = 0.08
	MaxDecay = 0.10
)

// Center is the resting pointer position.
var Center = field.Vec2{X: 0.5, Y: 0.5}

// State holds the pointer target, the smoothed pointer and the clock.
// Post may be called from any goroutine; Advance belongs to the render loop.
type State struct {
	decay  float64
	target atomic.Pointer[field.Vec2]
	phase  atomic.Int32

	smoothed field.Vec2
	start    time.Duration
	clock    float64
	started  bool
}

// NewState returns an Idle state resting at initial, clamped to [0,1]².
// decay is clamped to [MinDecay, MaxDecay].
func NewState(decay float64, initial field.Vec2) *State {
	switch {
	case decay < MinDecay:
		decay = MinDecay
	case decay > MaxDecay:
		decay = MaxDecay
	}
	initial = ClampUV(initial)
	s := &State{decay: decay, smoothed: initial}
	s.target.Store(&initial)
	return s
}

// Post sets a new pointer target in uv space, clamped to [0,1]², and
// enters Tracking.
func (s *State) Post(p field.Vec2) {
	p = ClampUV(p)
	s.target.Store(&p)
	s.phase.Store(int32(Tracking))
}

// Phase reports the current tracking phase.
func (s *State) Phase() Phase {
	return Phase(s.phase.Load())
}

// Target is the last posted pointer position.
func (s *State) Target() field.Vec2 {
	return *s.target.Load()
}

// Pointer is the smoothed pointer as of the last Advance.
func (s *State) Pointer() field.Vec2 {
	return s.smoothed
}

// Decay is the smoothing factor in use.
func (s *State) Decay() float64 {
	return s.decay
}

// Advance moves the smoothed pointer one step toward the target and returns
// the clock in seconds since the first Advance along with the new pointer.
// The clock never decreases; an earlier timestamp repeats the last value.
func (s *State) Advance(ts time.Duration) (float64, field.Vec2) {
	if !s.started {
		s.start = ts
		s.started = true
	}

	target := *s.target.Load()
	s.smoothed = s.smoothed.Add(target.Sub(s.smoothed).Scale(s.decay))

	if clock := (ts - s.start).Seconds(); clock > s.clock {
		s.clock = clock
	}
	return s.clock, s.smoothed
}

// Rect is a bounding box in host coordinates, y down.
type Rect struct {
	X, Y, W, H float64
}

// Normalize maps raw host coordinates to [0,1]² relative to bounds, with y
// inverted so 0 is the bottom edge. Degenerate bounds map to Center.
func Normalize(x, y float64, bounds Rect) field.Vec2 {
	if bounds.W <= 0 || bounds.H <= 0 {
		return Center
	}
	return field.Vec2{
		X: clamp01((x - bounds.X) / bounds.W),
		Y: clamp01(1 - (y-bounds.Y)/bounds.H),
	}
}

// ClampUV limits p to the unit square. A NaN component maps to the center.
func ClampUV(p field.Vec2) field.Vec2 {
	if math.IsNaN(p.X) {
		p.X = Center.X
	}
	if math.IsNaN(p.Y) {
		p.Y = Center.Y
	}
	return field.Vec2{X: clamp01(p.X), Y: clamp01(p.Y)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
