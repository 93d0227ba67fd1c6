// Package midiout sends MIDI Control Change messages with abstraction for
// testing. The real implementation drives an rtmidi output port; the fake
// records messages for assertions.
package midiout

import (
	"fmt"
	"math"
)

// Sink accepts Control Change messages for transmission. Delivery is
// fire-and-forget from the caller's point of view: a transport error is
// reported but never retried.
type Sink interface {
	// SendCC transmits one Control Change. channel is 0-15, cc and value
	// are 0-127.
	SendCC(channel, cc, value uint8) error

	// Close releases the underlying port and driver.
	Close() error
}

// ConnectionStatus reports whether the MIDI output port is open.
type ConnectionStatus interface {
	IsConnected() bool
}

// CCValue maps a normalized [0,1] value onto the 0-127 CC range.
func CCValue(normalized float64) uint8 {
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return uint8(math.Round(normalized * 127))
}

func validateCC(channel, cc, value uint8) error {
	if channel > 15 {
		return fmt.Errorf("midi channel %d out of range 0-15", channel)
	}
	if cc > 127 {
		return fmt.Errorf("cc number %d out of range 0-127", cc)
	}
	if value > 127 {
		return fmt.Errorf("cc value %d out of range 0-127", value)
	}
	return nil
}
