package terminal

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/MeKo-Tech/gradientbg/internal/engine"
)

// Action is a user command decoded from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRandomize
	ActionToggleGrain
	ActionCyclePointer
)

// KeyAction maps a key event to an Action.
func KeyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			if r := ev.Rune(); r == 'c' || r == 'C' {
				return ActionQuit
			}
			return ActionNone
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return ActionQuit
		case 'r', 'R':
			return ActionRandomize
		case 'g', 'G':
			return ActionToggleGrain
		case 'm', 'M':
			return ActionCyclePointer
		}
	}
	return ActionNone
}

// FrameInterval converts a frame rate to a ticker period. Rates outside
// [1, 120] are clamped.
func FrameInterval(fps int) time.Duration {
	fps = min(max(fps, 1), 120)
	return time.Second / time.Duration(fps)
}

// Drive runs in on s until ctx is done or the user quits. Mouse motion
// becomes pointer input, resizes invalidate the surface and every other
// decoded action is handed to onAction from the event goroutine.
func Drive(ctx context.Context, in *engine.Instance, s *Surface, fps int, onAction func(Action)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 64)
	go pump(ctx, s.screen, events)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				if handleEvent(in, s, ev, onAction) == ActionQuit {
					cancel()
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(FrameInterval(fps))
	defer ticker.Stop()

	if err := in.Run(ctx, ticker.C); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func pump(ctx context.Context, screen tcell.Screen, out chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func handleEvent(in *engine.Instance, s *Surface, ev tcell.Event, onAction func(Action)) Action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
		in.NotifyResize()
	case *tcell.EventMouse:
		x, y := ev.Position()
		w, h := s.Size()
		// Cell centers; each row spans two logical units.
		in.PointerMove(float64(x)+0.5, float64(2*y)+1, engine.Rect{W: float64(w), H: float64(h)})
	case *tcell.EventKey:
		action := KeyAction(ev)
		if action != ActionNone && action != ActionQuit && onAction != nil {
			onAction(action)
		}
		return action
	}
	return ActionNone
}
