// Package telemetry publishes control and lifecycle events to MQTT with
// abstraction for testing.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/opencontrol/controldeck/internal/input"
)

// Topic is the MQTT topic for control events.
const Topic = "control/deck/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "control/deck/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a control event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event ControlEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ControlEvent describes one input event together with the MIDI message it
// produced.
type ControlEvent struct {
	Timestamp time.Time
	Kind      input.EventKind
	InputID   uint8
	Channel   uint8
	CC        uint8
	Value     uint8
	// Normalized is the [0,1] encoder position; zero for button events.
	Normalized float64
}

// SystemEvent represents a system lifecycle event (startup, shutdown,
// heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool   // whether the broker should retain the message
}

// Payload is the MQTT message payload structure for control events.
type Payload struct {
	Control ControlPayload `json:"control"`
}

// ControlPayload contains the control event details.
type ControlPayload struct {
	Timestamp  string  `json:"timestamp"`
	Event      string  `json:"event"`
	InputID    uint8   `json:"input_id"`
	Channel    uint8   `json:"channel"`
	CC         uint8   `json:"cc"`
	Value      uint8   `json:"value"`
	Normalized float64 `json:"normalized,omitempty"`
}

// FormatPayload creates the JSON payload for a control event.
func FormatPayload(event ControlEvent) ([]byte, error) {
	payload := Payload{
		Control: ControlPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			Event:      string(event.Kind),
			InputID:    event.InputID,
			Channel:    event.Channel,
			CC:         event.CC,
			Value:      event.Value,
			Normalized: event.Normalized,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for system events without a
// full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
