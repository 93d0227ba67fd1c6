package input

// quadTable maps (previous code << 2 | current code) to a tick delta.
// Codes are A<<1|B. Valid gray transitions give +1 (clockwise) or -1.
// Anything else, including the 4 no-change diagonals and the 4 illegal
// double-bit flips caused by contact bounce, gives 0 and leaves the
// accumulator untouched.
var quadTable = [16]int{
	0, -1, +1, 0,
	+1, 0, 0, -1,
	-1, 0, 0, +1,
	0, +1, -1, 0,
}

// Decoder is the per-encoder quadrature state machine. It owns its state
// exclusively; Poll must only be called from the single polling goroutine.
type Decoder struct {
	cfg      EncoderConfig
	lastCode uint8
	ticks    int
	position float64 // cumulative normalized position, clamped to [0,1]
	emitted  float64 // last value handed out in an event
	primed   bool
}

// NewDecoder creates a Decoder for the given (validated) config.
func NewDecoder(cfg EncoderConfig) *Decoder {
	return &Decoder{cfg: cfg}
}

// ID returns the configured encoder identifier.
func (d *Decoder) ID() uint8 { return d.cfg.ID }

// Position returns the current normalized position in [0,1].
func (d *Decoder) Position() float64 { return d.position }

// Poll advances the state machine with one raw sample of the A/B lines.
// It returns an EncoderTurn event and true when the normalized position
// changed, or false otherwise. Invalid transitions are treated as
// electrical noise and ignored.
func (d *Decoder) Poll(rawA, rawB bool, nowMs uint32) (Event, bool) {
	code := encoderCode(rawA, rawB)

	if !d.primed {
		// First sample establishes the reference code without ticking.
		d.lastCode = code
		d.primed = true
		return Event{}, false
	}
	if code == d.lastCode {
		return Event{}, false
	}

	delta := quadTable[d.lastCode<<2|code]
	d.lastCode = code
	if delta == 0 {
		return Event{}, false
	}
	if d.cfg.Invert {
		delta = -delta
	}
	d.ticks += delta

	if d.ticks < d.cfg.TicksPerEvent && -d.ticks < d.cfg.TicksPerEvent {
		return Event{}, false
	}

	// One emission step: ticksPerEvent acts as a gear-down divider, so the
	// accumulator resets rather than tracking absolute position.
	frac := (float64(d.ticks) / float64(d.cfg.PulsesPerRev)) * (360.0 / d.cfg.RangeAngle)
	d.ticks = 0
	d.position = clamp01(d.position + frac)

	if d.position == d.emitted {
		return Event{}, false
	}
	d.emitted = d.position
	return Event{Kind: EncoderTurn, ID: d.cfg.ID, Value: d.position}, true
}

func encoderCode(a, b bool) uint8 {
	var code uint8
	if a {
		code |= 2
	}
	if b {
		code |= 1
	}
	return code
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
