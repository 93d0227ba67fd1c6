// Package status provides a thread-safe status tracker for the controldeck
// daemon. It is written from the poll loop and read by HTTP handlers and
// telemetry snapshots.
package status

import (
	"sync"
	"time"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	LongPressMs int64
	DoubleTapMs int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	MIDIPattern string
	Channel     uint8
}

// EventCounts tracks the number of each event kind since startup.
type EventCounts struct {
	EncoderTurns int
	Presses      int
	Releases     int
	LongPresses  int
	DoubleTaps   int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Encoders      map[uint8]float64 // normalized positions by encoder id
	Buttons       map[uint8]bool    // debounced held state by button id
	Counts        EventCounts
	StartTime     time.Time
	Now           time.Time
	MIDIConnected bool
	MIDIPort      string
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets input states and event counts. Called from the poll loop.
// The maps are stored as-is; callers must pass fresh maps each call.
func (t *Tracker) Update(encoders map[uint8]float64, buttons map[uint8]bool, counts EventCounts) {
	t.mu.Lock()
	t.snap.Encoders = encoders
	t.snap.Buttons = buttons
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMIDI sets the MIDI connection status and port name.
func (t *Tracker) SetMIDI(connected bool, port string) {
	t.mu.Lock()
	t.snap.MIDIConnected = connected
	t.snap.MIDIPort = port
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
