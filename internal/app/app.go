// Package app composes the input state machines, the event router and the
// MIDI sink into a pollable application with an explicit lifecycle:
// Build, RegisterContext, Begin, Poll, Close.
package app

import (
	"fmt"
	"log/slog"

	"github.com/opencontrol/controldeck/internal/gpio"
	"github.com/opencontrol/controldeck/internal/input"
	"github.com/opencontrol/controldeck/internal/midiout"
	"github.com/opencontrol/controldeck/internal/router"
)

// App owns every input state machine and drives them from a single
// cooperative poll loop. All mutation happens on the goroutine calling
// Poll; no locking is needed or performed.
type App struct {
	reader gpio.Reader
	sink   midiout.Sink
	router *router.Router

	encoderCfgs []input.EncoderConfig
	buttonCfgs  []input.ButtonConfig
	encoders    []*input.Decoder
	buttons     []*input.Debouncer

	contexts []Context
	bindings *Bindings
	began    bool

	// onEvent, when set, observes every dispatched event after its
	// handlers ran. Used for telemetry and status tracking.
	onEvent func(input.Event)
}

// Capabilities reports what the built app can offer to contexts.
func (a *App) Capabilities() Requirements {
	return Requirements{
		Encoders: len(a.encoders) > 0,
		Buttons:  len(a.buttons) > 0,
		MIDI:     a.sink != nil,
	}
}

// RegisterContext validates the context's capability requirements against
// the built hardware and queues it for initialization. Must be called
// before Begin.
func (a *App) RegisterContext(ctx Context) error {
	if a.began {
		return fmt.Errorf("register context %q: app already began", ctx.Name())
	}
	if missing := missingCapabilities(ctx.Requires(), a.Capabilities()); len(missing) > 0 {
		return capabilityError(ctx.Name(), missing)
	}
	a.contexts = append(a.contexts, ctx)
	return nil
}

// OnEvent sets an observer called for every dispatched event, after the
// bound handlers. Must be called before Begin.
func (a *App) OnEvent(fn func(input.Event)) {
	a.onEvent = fn
}

// Begin initializes every registered context, letting each install its
// bindings. After Begin the app is ready to Poll.
func (a *App) Begin() error {
	if a.began {
		return fmt.Errorf("app already began")
	}
	for _, ctx := range a.contexts {
		if err := ctx.Initialize(a.bindings); err != nil {
			return fmt.Errorf("initialize context %q: %w", ctx.Name(), err)
		}
		slog.Info("context initialized", "context", ctx.Name())
	}
	a.began = true
	slog.Info("app ready",
		"encoders", len(a.encoders),
		"buttons", len(a.buttons),
		"bindings", a.router.Bindings(),
	)
	return nil
}

// Poll runs one cycle: sample every configured pin, advance each state
// machine, dispatch the emitted events in input order, then give every
// context its Update. nowMs is a monotonic millisecond counter; interval
// math inside the state machines is wraparound-safe.
func (a *App) Poll(nowMs uint32) error {
	levels, err := a.reader.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}

	for i, dec := range a.encoders {
		cfg := a.encoderCfgs[i]
		ev, ok := dec.Poll(levels[cfg.PinA], levels[cfg.PinB], nowMs)
		if !ok {
			continue
		}
		a.dispatch(ev)
	}

	for i, deb := range a.buttons {
		cfg := a.buttonCfgs[i]
		for _, ev := range deb.Poll(levels[cfg.Pin], nowMs) {
			a.dispatch(ev)
		}
	}

	for _, ctx := range a.contexts {
		ctx.Update()
	}
	return nil
}

func (a *App) dispatch(ev input.Event) {
	a.router.Dispatch(ev)
	if a.onEvent != nil {
		a.onEvent(ev)
	}
}

// EncoderPositions returns the current normalized position of every
// encoder, keyed by id.
func (a *App) EncoderPositions() map[uint8]float64 {
	out := make(map[uint8]float64, len(a.encoders))
	for _, dec := range a.encoders {
		out[dec.ID()] = dec.Position()
	}
	return out
}

// ButtonsHeld returns the debounced held state of every button, keyed by id.
func (a *App) ButtonsHeld() map[uint8]bool {
	out := make(map[uint8]bool, len(a.buttons))
	for _, deb := range a.buttons {
		out[deb.ID()] = deb.Held()
	}
	return out
}

// Close runs every context's Cleanup in reverse registration order.
// The GPIO reader and MIDI sink are owned by the caller, not closed here.
func (a *App) Close() {
	for i := len(a.contexts) - 1; i >= 0; i-- {
		a.contexts[i].Cleanup()
	}
}
