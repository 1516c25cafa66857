// Package engine mounts an animated gradient onto a host surface and drives
// it frame by frame.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/gradientbg/internal/field"
	"github.com/MeKo-Tech/gradientbg/internal/interaction"
	"github.com/MeKo-Tech/gradientbg/internal/params"
	"github.com/MeKo-Tech/gradientbg/internal/worker"
)

// Surface is a render target provided by a host.
type Surface interface {
	// Init acquires the backend. It is called once, before anything else.
	Init() error
	// Size is the logical size in host units.
	Size() (w, h int)
	// PixelRatio is physical pixels per logical unit.
	PixelRatio() float64
	// Present shows a finished frame. img is reused by the next tick.
	Present(img *image.NRGBA) error
	// Release frees the backend and detaches host listeners.
	Release()
}

// Host resolves mount targets.
type Host interface {
	Lookup(id string) (Surface, error)
}

// Rect is a pointer bounding box in host coordinates, y down.
type Rect = interaction.Rect

// Instance is a mounted gradient.
type Instance struct {
	id       string
	surface  Surface
	logger   *slog.Logger
	pool     *worker.Pool
	observer FrameObserver

	state   *interaction.State
	program atomic.Pointer[field.Program]

	// mu serializes ticks with Sample and Destroy.
	mu    sync.Mutex
	grid  interaction.Surface
	buf   *image.NRGBA
	frame field.Frame

	destroyed atomic.Bool
	done      chan struct{}
	once      sync.Once
}

// Mount decodes raw with shallow-merge semantics and mounts the result.
// Keys that fail to decode keep their defaults and are logged.
func Mount(host Host, id string, raw map[string]any, opts ...Option) (*Instance, error) {
	cfg, err := params.DecodeConfig(raw)
	if err != nil {
		logOr(buildOptions(opts).logger).Debug("Ignoring malformed configuration keys", "target", id, "error", err)
	}
	return MountConfig(host, id, cfg, opts...)
}

// MountConfig resolves cfg, clamping out-of-range values, and mounts it.
func MountConfig(host Host, id string, cfg params.Config, opts ...Option) (*Instance, error) {
	p, notes := params.Resolve(cfg)
	if len(notes) > 0 {
		logger := logOr(buildOptions(opts).logger)
		for _, n := range notes {
			logger.Debug("Configuration adjusted", "target", id, "note", n)
		}
	}
	return MountParameters(host, id, p, opts...)
}

// MountParameters mounts an already-resolved snapshot.
func MountParameters(host Host, id string, p params.Parameters, opts ...Option) (*Instance, error) {
	o := buildOptions(opts)

	surface, err := host.Lookup(id)
	if err != nil || surface == nil {
		return nil, setupError(StageTarget, id, ErrTargetNotFound, err)
	}

	if err := surface.Init(); err != nil {
		surface.Release()
		return nil, setupError(StageBackend, id, ErrBackendUnavailable, err)
	}

	program, err := field.Compile(p)
	if err != nil {
		surface.Release()
		return nil, setupError(StageProgram, id, ErrProgramBuild, err)
	}

	in := &Instance{
		id:       id,
		surface:  surface,
		logger:   o.logger,
		pool:     worker.New(worker.Config{Workers: o.workers, OnProgress: o.progress}),
		observer: o.observer,
		state:    interaction.NewState(o.decay, o.initial),
		done:     make(chan struct{}),
	}
	in.program.Store(program)

	in.log().Info("Mounted gradient",
		"target", id,
		"mode", p.Palette.Mode(),
		"pointer", p.Pointer.PointerMode(),
		"workers", in.pool.Workers())

	return in, nil
}

func logOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

func (in *Instance) log() *slog.Logger {
	return logOr(in.logger)
}

// Tick renders and presents one frame at timestamp ts. The first tick's
// timestamp is clock zero. Present failures are logged and returned; the
// instance stays usable.
func (in *Instance) Tick(ts time.Duration) error {
	if in.destroyed.Load() {
		return ErrDestroyed
	}

	start := time.Now()
	err := in.tick(ts)
	if in.observer != nil && !errors.Is(err, ErrDestroyed) {
		in.observer(time.Since(start), err)
	}
	return err
}

func (in *Instance) tick(ts time.Duration) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.destroyed.Load() {
		return ErrDestroyed
	}

	w, h := in.surface.Size()
	desc, changed := in.grid.Resolve(w, h, in.surface.PixelRatio())
	if changed || in.buf == nil {
		in.buf = image.NewNRGBA(image.Rect(0, 0, desc.Width, desc.Height))
		in.log().Debug("Surface resized",
			"target", in.id,
			"width", desc.Width,
			"height", desc.Height,
			"dpr", desc.PixelRatio)
	}

	clock, pointer := in.state.Advance(ts)
	in.frame = field.Frame{
		Time:    clock,
		Width:   desc.Width,
		Height:  desc.Height,
		Pointer: pointer,
	}

	if err := in.render(in.program.Load(), in.frame); err != nil {
		in.log().Warn("Frame render failed", "target", in.id, "error", err)
		return fmt.Errorf("failed to render frame: %w", err)
	}

	if err := in.surface.Present(in.buf); err != nil {
		in.log().Warn("Present failed", "target", in.id, "error", err)
		return fmt.Errorf("failed to present frame: %w", err)
	}
	return nil
}

func (in *Instance) render(prog *field.Program, f field.Frame) error {
	if in.pool.Workers() <= 1 {
		prog.Render(in.buf, f)
		return nil
	}

	dst := in.buf
	results := in.pool.Run(context.Background(), worker.RendererFunc(func(_ context.Context, b worker.Band) error {
		prog.RenderRows(dst, f, b.Y0, b.Y1)
		return nil
	}), in.pool.Split(f.Height))
	return worker.FirstError(results)
}

// Run ticks on every value from ticks until ctx is done, ticks is closed or
// Destroy is called. Tick timestamps are measured from the first tick.
// Frame errors are logged and do not stop the loop.
func (in *Instance) Run(ctx context.Context, ticks <-chan time.Time) error {
	var first time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-in.done:
			return nil
		case t, ok := <-ticks:
			if !ok {
				return nil
			}
			if first.IsZero() {
				first = t
			}
			if err := in.Tick(t.Sub(first)); errors.Is(err, ErrDestroyed) {
				return nil
			}
		}
	}
}

// PointerMove posts a raw host pointer position. Safe from any goroutine.
func (in *Instance) PointerMove(x, y float64, bounds Rect) {
	if in.destroyed.Load() {
		return
	}
	in.state.Post(interaction.Normalize(x, y, bounds))
}

// PointerUV posts a pointer position already in uv space (y up).
func (in *Instance) PointerUV(v field.Vec2) {
	if in.destroyed.Load() {
		return
	}
	in.state.Post(v)
}

// Phase reports whether the pointer has been seen yet.
func (in *Instance) Phase() interaction.Phase {
	return in.state.Phase()
}

// NotifyResize marks the surface size stale; the next tick re-reads it.
func (in *Instance) NotifyResize() {
	if in.destroyed.Load() {
		return
	}
	in.grid.Invalidate()
}

// Apply replaces the live parameters. The next tick uses them. On error the
// current parameters stay in effect.
func (in *Instance) Apply(cfg params.Config) error {
	if in.destroyed.Load() {
		return ErrDestroyed
	}

	p, notes := params.Resolve(cfg)
	for _, n := range notes {
		in.log().Debug("Configuration adjusted", "target", in.id, "note", n)
	}
	program, err := field.Compile(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProgramBuild, err)
	}
	in.program.Store(program)
	return nil
}

// DescribeConfig returns the live parameters as a Config. Mounting it
// reproduces the current field exactly.
func (in *Instance) DescribeConfig() params.Config {
	return params.Describe(in.program.Load().Params())
}

// Sample evaluates the live field at uv using the last ticked frame. Before
// the first tick it uses clock zero, the current surface size and the
// resting pointer.
func (in *Instance) Sample(uv field.Vec2) colorful.Color {
	in.mu.Lock()
	f := in.frame
	if f.Width == 0 {
		w, h := in.surface.Size()
		d := interaction.Describe(w, h, in.surface.PixelRatio())
		f = field.Frame{Width: d.Width, Height: d.Height, Pointer: in.state.Pointer()}
	}
	in.mu.Unlock()

	px := field.Vec2{X: uv.X * float64(f.Width), Y: uv.Y * float64(f.Height)}
	return in.program.Load().Eval(uv, px, f)
}

// Descriptor is the physical raster of the last tick.
func (in *Instance) Descriptor() interaction.Descriptor {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.grid.Current()
}

// Destroy stops Run, waits for an in-flight tick and releases the surface.
// Later calls and later input are no-ops.
func (in *Instance) Destroy() {
	in.once.Do(func() {
		in.destroyed.Store(true)
		close(in.done)

		in.mu.Lock()
		in.surface.Release()
		in.buf = nil
		in.mu.Unlock()

		in.log().Info("Destroyed gradient", "target", in.id)
	})
}

// Done is closed once Destroy has been called.
func (in *Instance) Done() <-chan struct{} {
	return in.done
}
