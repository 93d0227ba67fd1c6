package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opencontrol/controldeck/internal/app"
	"github.com/opencontrol/controldeck/internal/input"
	"github.com/opencontrol/controldeck/internal/midiout"
	"github.com/opencontrol/controldeck/internal/telemetry"
)

type deckMapping struct {
	Channel   uint8
	CCBase    uint8
	Button1CC uint8
	Button2CC uint8
}

// deckContext maps the front-panel inputs to MIDI Control Changes.
// Encoders send absolute positions on consecutive CC numbers, button 1
// acts as a momentary switch and button 2 as a toggle.
type deckContext struct {
	mapping  deckMapping
	encoders []input.EncoderConfig
	buttons  []input.ButtonConfig
	pub      telemetry.Publisher
	now      func() time.Time

	midi    midiout.Sink
	toggled bool
}

func (c *deckContext) Name() string { return "deck" }

func (c *deckContext) Requires() app.Requirements {
	return app.Requirements{Encoders: true, Buttons: true, MIDI: true}
}

func (c *deckContext) Initialize(b *app.Bindings) error {
	if len(c.buttons) < 2 {
		return fmt.Errorf("deck context needs two buttons, got %d", len(c.buttons))
	}
	c.midi = b.MIDI()

	for i, enc := range c.encoders {
		id := enc.ID
		cc := c.mapping.CCBase + uint8(i)
		b.OnEncoder(id).Turn().Then(func(v float64) {
			c.sendCC(input.EncoderTurn, id, cc, midiout.CCValue(v), v)
		})
	}

	b1 := c.buttons[0].ID
	b.OnButton(b1).Press().Then(func() {
		c.sendCC(input.ButtonPress, b1, c.mapping.Button1CC, 127, 0)
	})
	b.OnButton(b1).Release().Then(func() {
		c.sendCC(input.ButtonRelease, b1, c.mapping.Button1CC, 0, 0)
	})
	b.OnButton(b1).LongPress().Then(func() {
		slog.Info("long press", "button", b1)
		c.record(input.ButtonLong, b1, c.mapping.Button1CC, 0, 0)
	})

	b2 := c.buttons[1].ID
	b.OnButton(b2).Press().Then(func() {
		c.toggled = !c.toggled
		var v uint8
		if c.toggled {
			v = 127
		}
		c.sendCC(input.ButtonPress, b2, c.mapping.Button2CC, v, 0)
	})

	return nil
}

func (c *deckContext) Update() {}

func (c *deckContext) Cleanup() {}

func (c *deckContext) sendCC(kind input.EventKind, id, cc, value uint8, normalized float64) {
	if err := c.midi.SendCC(c.mapping.Channel, cc, value); err != nil {
		slog.Warn("midi send failed", "cc", cc, "error", err)
	}
	c.record(kind, id, cc, value, normalized)
}

func (c *deckContext) record(kind input.EventKind, id, cc, value uint8, normalized float64) {
	if c.pub == nil {
		return
	}
	ev := telemetry.ControlEvent{
		Timestamp:  c.now(),
		Kind:       kind,
		InputID:    id,
		Channel:    c.mapping.Channel,
		CC:         cc,
		Value:      value,
		Normalized: normalized,
	}
	if err := c.pub.Publish(ev); err != nil {
		slog.Debug("telemetry publish failed", "error", err)
	}
}
