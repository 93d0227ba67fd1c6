package input

// buttonState enumerates the debouncer states.
type buttonState uint8

const (
	stateIdle buttonState = iota
	stateDebouncing
	statePressed
	stateLongPressed
)

// Debouncer is the per-button digital state machine. It filters contact
// bounce and recognizes press, release, long-press and double-tap gestures.
// Owned exclusively by the polling goroutine.
type Debouncer struct {
	cfg    ButtonConfig
	timing Timing

	state    buttonState
	changeAt uint32 // time of the most recent raw transition
	lastRaw  bool   // last logical (active-adjusted) level seen

	pressedAt   uint32
	releasedAt  uint32
	hasReleased bool // releasedAt is only meaningful after the first release
	longFired   bool
}

// NewDebouncer creates a Debouncer for the given config and timing.
func NewDebouncer(cfg ButtonConfig, timing Timing) *Debouncer {
	return &Debouncer{cfg: cfg, timing: timing}
}

// ID returns the configured button identifier.
func (d *Debouncer) ID() uint8 { return d.cfg.ID }

// Held reports whether the debounced state is currently pressed.
func (d *Debouncer) Held() bool {
	return d.state == statePressed || d.state == stateLongPressed
}

// Poll advances the state machine with one raw pin sample and returns the
// events produced, in order. The debounce timer restarts on every raw
// transition, so any excursion shorter than DebounceMs produces no events.
func (d *Debouncer) Poll(raw bool, nowMs uint32) []Event {
	// Adjust for wiring polarity: with ActiveLow the pin reads low while
	// the button is held.
	level := raw != d.cfg.ActiveLow

	if level != d.lastRaw {
		d.lastRaw = level
		d.changeAt = nowMs
	}

	var events []Event

	switch d.state {
	case stateIdle:
		if level {
			d.state = stateDebouncing
		}

	case stateDebouncing:
		if !level {
			// Bounced back before settling.
			d.state = stateIdle
			break
		}
		if nowMs-d.changeAt >= d.timing.DebounceMs {
			d.state = statePressed
			d.pressedAt = nowMs
			events = append(events, Event{Kind: ButtonPress, ID: d.cfg.ID})
			if d.hasReleased && d.pressedAt-d.releasedAt <= d.timing.DoubleTapMs {
				events = append(events, Event{Kind: ButtonDouble, ID: d.cfg.ID})
			}
		}

	case statePressed, stateLongPressed:
		if !level {
			if nowMs-d.changeAt >= d.timing.DebounceMs {
				d.state = stateIdle
				d.releasedAt = nowMs
				d.hasReleased = true
				d.longFired = false
				events = append(events, Event{Kind: ButtonRelease, ID: d.cfg.ID})
			}
			break
		}
		if d.state == statePressed && !d.longFired && nowMs-d.pressedAt >= d.timing.LongPressMs {
			d.state = stateLongPressed
			d.longFired = true
			events = append(events, Event{Kind: ButtonLong, ID: d.cfg.ID})
		}
	}

	return events
}
