package main

import "github.com/opencontrol/controldeck/internal/input"

// MIDI mapping defaults. Encoder i sends ccBase+i in config order.
const (
	defaultChannel   = 0
	defaultCCBase    = 16
	defaultButton1CC = 20
	defaultButton2CC = 21
)

// defaultEncoders is the hardware table for the four macro encoders:
// 24 PPR detented encoders, 270 degrees of travel for the full CC range,
// one event per detent.
var defaultEncoders = []input.EncoderConfig{
	{ID: 1, PinA: 17, PinB: 27, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 4},
	{ID: 2, PinA: 22, PinB: 23, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 4},
	{ID: 3, PinA: 5, PinB: 6, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 4},
	{ID: 4, PinA: 19, PinB: 26, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 4},
}

// defaultButtons: both wired to ground with the internal pull-up.
var defaultButtons = []input.ButtonConfig{
	{ID: 1, Pin: 16, ActiveLow: true},
	{ID: 2, Pin: 20, ActiveLow: true},
}

// configuredPins returns every pin the GPIO reader must sample.
func configuredPins(encoders []input.EncoderConfig, buttons []input.ButtonConfig) []int {
	var pins []int
	for _, e := range encoders {
		pins = append(pins, e.PinA, e.PinB)
	}
	for _, b := range buttons {
		pins = append(pins, b.Pin)
	}
	return pins
}
