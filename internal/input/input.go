// Package input contains the pure input-decoding state machines: quadrature
// decoding for rotary encoders and debounced press/release/long-press/
// double-tap detection for buttons.
// This package has NO external dependencies (no GPIO, MIDI, OS, or
// time.Sleep). Time is always injectable as a uint32 millisecond counter;
// all interval comparisons use unsigned subtraction so they stay correct
// across 32-bit rollover (~49 days).
package input

import "fmt"

// EventKind identifies the variant of an Event.
type EventKind string

const (
	EncoderTurn   EventKind = "ENCODER_TURN"
	ButtonPress   EventKind = "BUTTON_PRESS"
	ButtonRelease EventKind = "BUTTON_RELEASE"
	ButtonLong    EventKind = "BUTTON_LONG_PRESS"
	ButtonDouble  EventKind = "BUTTON_DOUBLE_TAP"
)

// Event is a decoded input event. Value is only meaningful for EncoderTurn,
// where it is the normalized position in [0,1].
type Event struct {
	Kind  EventKind
	ID    uint8
	Value float64
}

// EncoderConfig describes one quadrature encoder. Immutable after Validate.
type EncoderConfig struct {
	ID            uint8
	PinA          int
	PinB          int
	PulsesPerRev  int
	RangeAngle    float64 // degrees of rotation mapped to the full [0,1] range
	TicksPerEvent int     // gear-down divider; 4 = one detent on most encoders
	Invert        bool
}

// Validate rejects configurations that would divide by zero during
// normalization.
func (c EncoderConfig) Validate() error {
	if c.PulsesPerRev < 1 {
		return fmt.Errorf("encoder %d: pulses per revolution must be >= 1, got %d", c.ID, c.PulsesPerRev)
	}
	if c.TicksPerEvent < 1 {
		return fmt.Errorf("encoder %d: ticks per event must be >= 1, got %d", c.ID, c.TicksPerEvent)
	}
	if c.RangeAngle <= 0 {
		return fmt.Errorf("encoder %d: range angle must be positive, got %v", c.ID, c.RangeAngle)
	}
	return nil
}

// ButtonConfig describes one digital button. Immutable.
type ButtonConfig struct {
	ID        uint8
	Pin       int
	ActiveLow bool // true = pressed when the pin reads low (pull-up wiring)
}

// Timing holds the shared button timing thresholds in milliseconds.
type Timing struct {
	DebounceMs  uint32
	LongPressMs uint32
	DoubleTapMs uint32
}

// DefaultTiming matches the reference hardware: 5ms debounce, 500ms long
// press, 300ms double-tap window.
var DefaultTiming = Timing{
	DebounceMs:  5,
	LongPressMs: 500,
	DoubleTapMs: 300,
}

// ValidateConfigs checks a full hardware table: per-encoder validity plus
// ID uniqueness within each category (routing is keyed by ID).
func ValidateConfigs(encoders []EncoderConfig, buttons []ButtonConfig) error {
	seen := make(map[uint8]bool, len(encoders))
	for _, e := range encoders {
		if err := e.Validate(); err != nil {
			return err
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate encoder id %d", e.ID)
		}
		seen[e.ID] = true
	}
	seen = make(map[uint8]bool, len(buttons))
	for _, b := range buttons {
		if seen[b.ID] {
			return fmt.Errorf("duplicate button id %d", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}
