package app

import (
	"github.com/opencontrol/controldeck/internal/input"
	"github.com/opencontrol/controldeck/internal/midiout"
	"github.com/opencontrol/controldeck/internal/router"
)

// Bindings is the registration surface handed to a Context during
// Initialize. Handlers registered here run synchronously from the poll
// loop, in registration order.
type Bindings struct {
	router *router.Router
	midi   midiout.Sink
}

// MIDI returns the configured MIDI sink.
func (b *Bindings) MIDI() midiout.Sink {
	return b.midi
}

// OnEncoder starts a binding for the encoder with the given id.
func (b *Bindings) OnEncoder(id uint8) EncoderBinding {
	return EncoderBinding{b: b, id: id}
}

// OnButton starts a binding for the button with the given id.
func (b *Bindings) OnButton(id uint8) ButtonBinding {
	return ButtonBinding{b: b, id: id}
}

// EncoderBinding selects an encoder event to bind.
type EncoderBinding struct {
	b  *Bindings
	id uint8
}

// Turn binds the rotation event.
func (e EncoderBinding) Turn() EncoderTurnBinding {
	return EncoderTurnBinding(e)
}

// EncoderTurnBinding registers handlers for rotation events.
type EncoderTurnBinding struct {
	b  *Bindings
	id uint8
}

// Then registers fn to receive the normalized [0,1] position on each turn.
func (e EncoderTurnBinding) Then(fn func(value float64)) {
	e.b.router.Bind(e.id, input.EncoderTurn, func(ev input.Event) {
		fn(ev.Value)
	})
}

// ButtonBinding selects a button event to bind.
type ButtonBinding struct {
	b  *Bindings
	id uint8
}

// Press binds the debounced press event.
func (b ButtonBinding) Press() ButtonEventBinding {
	return ButtonEventBinding{b: b.b, id: b.id, kind: input.ButtonPress}
}

// Release binds the debounced release event.
func (b ButtonBinding) Release() ButtonEventBinding {
	return ButtonEventBinding{b: b.b, id: b.id, kind: input.ButtonRelease}
}

// LongPress binds the long-press event.
func (b ButtonBinding) LongPress() ButtonEventBinding {
	return ButtonEventBinding{b: b.b, id: b.id, kind: input.ButtonLong}
}

// DoubleTap binds the double-tap event.
func (b ButtonBinding) DoubleTap() ButtonEventBinding {
	return ButtonEventBinding{b: b.b, id: b.id, kind: input.ButtonDouble}
}

// ButtonEventBinding registers handlers for one button event kind.
type ButtonEventBinding struct {
	b    *Bindings
	id   uint8
	kind input.EventKind
}

// Then registers fn to run on each occurrence of the event.
func (b ButtonEventBinding) Then(fn func()) {
	b.b.router.Bind(b.id, b.kind, func(input.Event) {
		fn()
	})
}
