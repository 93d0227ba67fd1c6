package input

import "testing"

func testButton() *Debouncer {
	return NewDebouncer(
		ButtonConfig{ID: 1, Pin: 16, ActiveLow: true},
		Timing{DebounceMs: 5, LongPressMs: 500, DoubleTapMs: 300},
	)
}

// pressAt drives the debouncer through a debounced press starting at the
// given time and returns the events from the settling poll.
func pressAt(t *testing.T, d *Debouncer, at uint32) []Event {
	t.Helper()
	if evs := d.Poll(false, at); len(evs) != 0 {
		t.Fatalf("unexpected events on raw transition: %v", evs)
	}
	return d.Poll(false, at+5)
}

// releaseAt drives the debouncer through a debounced release.
func releaseAt(t *testing.T, d *Debouncer, at uint32) []Event {
	t.Helper()
	if evs := d.Poll(true, at); len(evs) != 0 {
		t.Fatalf("unexpected events on raw transition: %v", evs)
	}
	return d.Poll(true, at+5)
}

func TestDebouncerPressAfterDebounce(t *testing.T) {
	d := testButton()

	// Raw goes low (active) at t=0, stays low through t=10.
	if evs := d.Poll(false, 0); len(evs) != 0 {
		t.Errorf("expected no events at transition, got %v", evs)
	}
	if evs := d.Poll(false, 3); len(evs) != 0 {
		t.Errorf("expected no events before debounce, got %v", evs)
	}

	evs := d.Poll(false, 5)
	if len(evs) != 1 || evs[0].Kind != ButtonPress {
		t.Fatalf("expected Press at t=5, got %v", evs)
	}
	if evs[0].ID != 1 {
		t.Errorf("expected id 1, got %d", evs[0].ID)
	}

	// Held steady: no further events.
	if evs := d.Poll(false, 10); len(evs) != 0 {
		t.Errorf("expected no events while held, got %v", evs)
	}
	if !d.Held() {
		t.Error("debouncer should report held")
	}
}

func TestDebouncerGlitchShorterThanDebounce(t *testing.T) {
	d := testButton()

	// 3ms low excursion: zero events ever.
	d.Poll(false, 0)
	d.Poll(true, 3)
	for now := uint32(4); now < 40; now++ {
		if evs := d.Poll(true, now); len(evs) != 0 {
			t.Fatalf("glitch produced events at t=%d: %v", now, evs)
		}
	}
	if d.Held() {
		t.Error("glitch must not latch a press")
	}
}

func TestDebouncerReleaseAfterDebounce(t *testing.T) {
	d := testButton()
	pressAt(t, d, 0)

	// Raw returns high at t=100.
	if evs := d.Poll(true, 100); len(evs) != 0 {
		t.Errorf("expected no events at release transition, got %v", evs)
	}
	evs := d.Poll(true, 105)
	if len(evs) != 1 || evs[0].Kind != ButtonRelease {
		t.Fatalf("expected Release at t=105, got %v", evs)
	}
	if d.Held() {
		t.Error("debouncer should report released")
	}
}

func TestDebouncerReleaseBounceRestartsTimer(t *testing.T) {
	d := testButton()
	pressAt(t, d, 0)

	// Release bounce: high for 3ms, back low; stays pressed.
	d.Poll(true, 100)
	d.Poll(false, 103)
	if evs := d.Poll(false, 120); len(evs) != 0 {
		t.Errorf("expected no events after bounce, got %v", evs)
	}
	if !d.Held() {
		t.Error("bounce must not release the press")
	}
}

func TestDebouncerLongPressFiresOnce(t *testing.T) {
	d := testButton()
	pressAt(t, d, 0) // Press at t=5

	// Nothing until longPressMs after the debounced press.
	if evs := d.Poll(false, 504); len(evs) != 0 {
		t.Errorf("expected no events before long-press threshold, got %v", evs)
	}

	evs := d.Poll(false, 505)
	if len(evs) != 1 || evs[0].Kind != ButtonLong {
		t.Fatalf("expected LongPress at t=505, got %v", evs)
	}

	// Still held: fires at most once per press cycle.
	for now := uint32(506); now < 2000; now += 50 {
		if evs := d.Poll(false, now); len(evs) != 0 {
			t.Fatalf("long press fired again at t=%d: %v", now, evs)
		}
	}

	// Release still works from the long-pressed state.
	d.Poll(true, 2000)
	evs = d.Poll(true, 2005)
	if len(evs) != 1 || evs[0].Kind != ButtonRelease {
		t.Fatalf("expected Release, got %v", evs)
	}
}

func TestDebouncerLongPressRearmsAfterRelease(t *testing.T) {
	d := testButton()

	pressAt(t, d, 0)
	d.Poll(false, 505) // LongPress
	releaseAt(t, d, 1000)

	// Second press cycle: long press must fire again.
	pressAt(t, d, 2000)
	evs := d.Poll(false, 2505)
	if len(evs) != 1 || evs[0].Kind != ButtonLong {
		t.Fatalf("expected LongPress on second cycle, got %v", evs)
	}
}

func TestDebouncerDoubleTap(t *testing.T) {
	d := testButton()

	pressAt(t, d, 0)
	releaseAt(t, d, 50) // Release at t=55

	// Second press 100ms after the release: within the 300ms window,
	// measured release-to-press.
	d.Poll(false, 155)
	evs := d.Poll(false, 160)
	if len(evs) != 2 {
		t.Fatalf("expected Press+DoubleTap, got %v", evs)
	}
	if evs[0].Kind != ButtonPress || evs[1].Kind != ButtonDouble {
		t.Errorf("expected [Press DoubleTap], got %v", evs)
	}
}

func TestDebouncerSlowSecondPressIsNotDoubleTap(t *testing.T) {
	d := testButton()

	pressAt(t, d, 0)
	releaseAt(t, d, 50) // Release at t=55

	// Second press 400ms after the release: outside the window.
	d.Poll(false, 455)
	evs := d.Poll(false, 460)
	if len(evs) != 1 || evs[0].Kind != ButtonPress {
		t.Fatalf("expected plain Press, got %v", evs)
	}
}

func TestDebouncerFirstPressNeverDoubleTaps(t *testing.T) {
	d := testButton()
	evs := pressAt(t, d, 0)
	if len(evs) != 1 || evs[0].Kind != ButtonPress {
		t.Fatalf("first press must not double-tap, got %v", evs)
	}
}

func TestDebouncerDoubleTapThenLongPress(t *testing.T) {
	// The gestures are independent: a double-tap press held past the
	// long-press threshold also fires LongPress.
	d := testButton()

	pressAt(t, d, 0)
	releaseAt(t, d, 50)

	d.Poll(false, 155)
	evs := d.Poll(false, 160)
	if len(evs) != 2 {
		t.Fatalf("expected Press+DoubleTap, got %v", evs)
	}

	evs = d.Poll(false, 660)
	if len(evs) != 1 || evs[0].Kind != ButtonLong {
		t.Fatalf("expected LongPress after held double-tap, got %v", evs)
	}
}

func TestDebouncerIdempotentWhenSettled(t *testing.T) {
	d := testButton()
	for now := uint32(0); now < 100; now += 10 {
		if evs := d.Poll(true, now); len(evs) != 0 {
			t.Fatalf("settled input produced events: %v", evs)
		}
	}
}

func TestDebouncerActiveHigh(t *testing.T) {
	d := NewDebouncer(
		ButtonConfig{ID: 2, Pin: 20, ActiveLow: false},
		Timing{DebounceMs: 5, LongPressMs: 500, DoubleTapMs: 300},
	)

	d.Poll(true, 0)
	evs := d.Poll(true, 5)
	if len(evs) != 1 || evs[0].Kind != ButtonPress {
		t.Fatalf("expected Press for active-high button, got %v", evs)
	}
}

func TestDebouncerClockWraparound(t *testing.T) {
	d := testButton()

	// Press straddling the 32-bit millisecond rollover.
	start := uint32(0xFFFFFFFE)
	d.Poll(false, start)
	evs := d.Poll(false, start+5) // wraps to 3
	if len(evs) != 1 || evs[0].Kind != ButtonPress {
		t.Fatalf("expected Press across rollover, got %v", evs)
	}
}
