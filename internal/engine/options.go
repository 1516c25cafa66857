package engine

import (
	"log/slog"
	"time"

	"github.com/MeKo-Tech/gradientbg/internal/field"
	"github.com/MeKo-Tech/gradientbg/internal/interaction"
	"github.com/MeKo-Tech/gradientbg/internal/worker"
)

// FrameObserver is told how long each tick took and whether it failed.
type FrameObserver func(elapsed time.Duration, err error)

type options struct {
	logger   *slog.Logger
	workers  int
	decay    float64
	initial  field.Vec2
	observer FrameObserver
	progress worker.ProgressFunc
}

func defaultOptions() options {
	return options{
		workers: 1,
		decay:   interaction.DefaultDecay,
		initial: interaction.Center,
	}
}

// Option configures Mount.
type Option func(*options)

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the instance logger. Without it slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithWorkers renders each frame in row bands on n goroutines. n <= 1
// renders on the ticking goroutine.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithDecay sets the pointer smoothing factor.
func WithDecay(d float64) Option {
	return func(o *options) { o.decay = d }
}

// WithInitialPointer sets where the pointer rests before the first event.
func WithInitialPointer(v field.Vec2) Option {
	return func(o *options) { o.initial = v }
}

// WithFrameObserver registers a callback run after every tick.
func WithFrameObserver(fn FrameObserver) Option {
	return func(o *options) { o.observer = fn }
}

// WithBandProgress reports per-band completion while a frame renders on
// more than one worker.
func WithBandProgress(fn worker.ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}
