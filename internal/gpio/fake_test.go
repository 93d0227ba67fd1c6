package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Levels{
		{17: true, 27: false},
		{17: false, 27: true},
	}

	f := NewFakeReader(samples)

	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got[17] || got[27] {
		t.Errorf("sample 0: expected {17:true 27:false}, got %v", got)
	}

	got, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[17] || !got[27] {
		t.Errorf("sample 1: expected {17:false 27:true}, got %v", got)
	}

	// Exhausted: last sample repeats.
	got, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[17] || !got[27] {
		t.Errorf("repeat: expected {17:false 27:true}, got %v", got)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)
	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Levels{{17: true}})
	f.ReadError = errors.New("simulated error")

	if _, err := f.Read(); err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]Levels{{17: true}, {17: false}})

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Read()
	f.Reset()

	got, _ := f.Read()
	if !got[17] {
		t.Errorf("after reset: expected first sample, got %v", got)
	}
}
