package status

import (
	"encoding/json"
	"sort"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Encoders      []EncoderJSON  `json:"encoders"`
	Buttons       []ButtonJSON   `json:"buttons"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MIDI          MIDIStatusJSON `json:"midi"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"event_counts"`
	Config        ConfigJSON     `json:"config"`
}

// EncoderJSON is one encoder's state.
type EncoderJSON struct {
	ID    uint8   `json:"id"`
	Value float64 `json:"value"`
	CC    uint8   `json:"cc"`
}

// ButtonJSON is one button's state.
type ButtonJSON struct {
	ID   uint8 `json:"id"`
	Held bool  `json:"held"`
}

// MIDIStatusJSON reports MIDI output state.
type MIDIStatusJSON struct {
	Connected bool   `json:"connected"`
	Port      string `json:"port,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	EncoderTurns int `json:"encoder_turns"`
	Presses      int `json:"presses"`
	Releases     int `json:"releases"`
	LongPresses  int `json:"long_presses"`
	DoubleTaps   int `json:"double_taps"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	LongPressMs int64  `json:"long_press_ms"`
	DoubleTapMs int64  `json:"double_tap_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	MIDIPattern string `json:"midi_pattern,omitempty"`
	Channel     uint8  `json:"channel"`
}

func buildInner(snap Snapshot) StatusInner {
	encoders := make([]EncoderJSON, 0, len(snap.Encoders))
	for id, v := range snap.Encoders {
		encoders = append(encoders, EncoderJSON{ID: id, Value: v, CC: ccFromNormalized(v)})
	}
	sort.Slice(encoders, func(i, j int) bool { return encoders[i].ID < encoders[j].ID })

	buttons := make([]ButtonJSON, 0, len(snap.Buttons))
	for id, held := range snap.Buttons {
		buttons = append(buttons, ButtonJSON{ID: id, Held: held})
	}
	sort.Slice(buttons, func(i, j int) bool { return buttons[i].ID < buttons[j].ID })

	return StatusInner{
		Encoders:      encoders,
		Buttons:       buttons,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MIDI:          MIDIStatusJSON{Connected: snap.MIDIConnected, Port: snap.MIDIPort},
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			EncoderTurns: snap.Counts.EncoderTurns,
			Presses:      snap.Counts.Presses,
			Releases:     snap.Counts.Releases,
			LongPresses:  snap.Counts.LongPresses,
			DoubleTaps:   snap.Counts.DoubleTaps,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			LongPressMs: snap.Config.LongPressMs,
			DoubleTapMs: snap.Config.DoubleTapMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			MIDIPattern: snap.Config.MIDIPattern,
			Channel:     snap.Config.Channel,
		},
	}
}

// ccFromNormalized mirrors the midiout mapping without importing it;
// status must not depend on the transport packages.
func ccFromNormalized(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*127 + 0.5)
}

// FormatJSON renders the snapshot as the status JSON document.
func FormatJSON(snap Snapshot) []byte {
	doc := StatusJSON{Status: buildInner(snap)}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Marshalling a value type of plain fields cannot fail; keep the
		// handler total anyway.
		return []byte(`{"status":{}}`)
	}
	return out
}

// FormatStatusEvent renders the snapshot as a system event payload with
// the given event name and optional reason. Used as the RawPayload of
// STARTUP/SHUTDOWN/HEARTBEAT telemetry.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	doc := StatusJSON{Status: inner}
	out, err := json.Marshal(doc)
	if err != nil {
		return []byte(`{"status":{}}`)
	}
	return out
}
