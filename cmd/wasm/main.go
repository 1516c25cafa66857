//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"syscall/js"

	"github.com/MeKo-Tech/gradientbg/assets"
	"github.com/MeKo-Tech/gradientbg/internal/engine"
	"github.com/MeKo-Tech/gradientbg/internal/params"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// mount is GradientBG.mount(selector, config). It returns a handle with
// destroy(), describeConfig() and apply(config), or {error} on failure.
func mount(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult(fmt.Errorf("mount: missing selector"))
	}
	selector := args[0].String()

	raw := map[string]any{}
	if len(args) > 1 && args[1].Truthy() {
		var err error
		if raw, err = fromJS(args[1]); err != nil {
			return errorResult(fmt.Errorf("mount: %w", err))
		}
	}

	host := &documentHost{}
	in, err := engine.Mount(host, selector, raw, engine.WithLogger(logger))
	if err != nil {
		js.Global().Get("console").Call("error", err.Error())
		return errorResult(err)
	}

	m := &mounted{instance: in, surface: host.last}
	m.start()
	return m.handle()
}

// preset is GradientBG.preset(name): a built-in configuration object.
func preset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult(fmt.Errorf("preset: missing name"))
	}
	data, err := assets.Preset(args[0].String())
	if err != nil {
		return errorResult(fmt.Errorf("unknown preset %q", args[0].String()))
	}
	raw, err := params.ParseConfig(data, "yaml")
	if err != nil {
		return errorResult(err)
	}
	cfg, err := params.DecodeConfig(raw)
	if err != nil {
		logger.Warn("Preset has invalid keys", "preset", args[0].String(), "error", err)
	}
	return toJS(cfg)
}

// mounted ties an instance to the page's animation frames and listeners.
type mounted struct {
	instance *engine.Instance
	surface  *canvasSurface
	cancel   context.CancelFunc
	ticks    chan time.Time
	funcs    []js.Func
	rafID    js.Value
}

func (m *mounted) start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.ticks = make(chan time.Time, 1)

	var frame js.Func
	frame = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		select {
		case m.ticks <- time.Now():
		default:
			// Previous frame still rendering.
		}
		m.rafID = js.Global().Call("requestAnimationFrame", frame)
		return nil
	})
	m.funcs = append(m.funcs, frame)
	m.rafID = js.Global().Call("requestAnimationFrame", frame)

	m.listen(js.Global(), "pointermove", func(ev js.Value) {
		rect := m.surface.canvas.Call("getBoundingClientRect")
		m.instance.PointerMove(ev.Get("clientX").Float(), ev.Get("clientY").Float(), engine.Rect{
			X: rect.Get("left").Float(),
			Y: rect.Get("top").Float(),
			W: rect.Get("width").Float(),
			H: rect.Get("height").Float(),
		})
	})
	m.listen(js.Global(), "resize", func(js.Value) {
		m.instance.NotifyResize()
	})

	go func() {
		if err := m.instance.Run(ctx, m.ticks); err != nil && ctx.Err() == nil {
			logger.Warn("Render loop stopped", "error", err)
		}
	}()
}

func (m *mounted) listen(target js.Value, event string, fn func(js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", event, f)
	m.surface.onRelease(func() { target.Call("removeEventListener", event, f) })
	m.funcs = append(m.funcs, f)
}

func (m *mounted) destroy() {
	js.Global().Call("cancelAnimationFrame", m.rafID)
	m.cancel()
	m.instance.Destroy()
	for _, f := range m.funcs {
		f.Release()
	}
	m.funcs = nil
}

func (m *mounted) handle() js.Value {
	h := js.Global().Get("Object").New()
	var destroyed bool
	h.Set("destroy", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if !destroyed {
			destroyed = true
			m.destroy()
		}
		return nil
	}))
	h.Set("describeConfig", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return toJS(m.instance.DescribeConfig())
	}))
	h.Set("apply", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return errorResult(fmt.Errorf("apply: missing config"))
		}
		raw, err := fromJS(args[0])
		if err != nil {
			return errorResult(err)
		}
		cfg, err := params.Merge(m.instance.DescribeConfig(), raw)
		if err != nil {
			logger.Warn("Ignoring invalid keys", "error", err)
		}
		if err := m.instance.Apply(cfg); err != nil {
			return errorResult(err)
		}
		return nil
	}))
	return h
}

func fromJS(v js.Value) (map[string]any, error) {
	s := js.Global().Get("JSON").Call("stringify", v).String()
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("config must be an object: %w", err)
	}
	return raw, nil
}

func toJS(cfg params.Config) js.Value {
	data, err := json.Marshal(cfg)
	if err != nil {
		return errorResult(err)
	}
	return js.Global().Get("JSON").Call("parse", string(data))
}

func errorResult(err error) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("error", err.Error())
	return obj
}

func main() {
	api := js.Global().Get("Object").New()
	api.Set("mount", js.FuncOf(mount))
	api.Set("preset", js.FuncOf(preset))
	js.Global().Set("GradientBG", api)

	logger.Info("GradientBG module loaded")
	select {}
}
