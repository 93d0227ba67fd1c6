package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/opencontrol/controldeck/internal/input"
)

func TestFormatPayload(t *testing.T) {
	event := ControlEvent{
		Timestamp:  time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Kind:       input.EncoderTurn,
		InputID:    1,
		Channel:    0,
		CC:         16,
		Value:      28,
		Normalized: 0.222,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Control.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Control.Timestamp)
	}
	if parsed.Control.Event != "ENCODER_TURN" {
		t.Errorf("unexpected event: %s", parsed.Control.Event)
	}
	if parsed.Control.InputID != 1 || parsed.Control.CC != 16 || parsed.Control.Value != 28 {
		t.Errorf("unexpected fields: %+v", parsed.Control)
	}
	if parsed.Control.Normalized != 0.222 {
		t.Errorf("unexpected normalized value: %v", parsed.Control.Normalized)
	}
}

func TestFormatPayloadButtonOmitsNormalized(t *testing.T) {
	event := ControlEvent{
		Timestamp: time.Now(),
		Kind:      input.ButtonPress,
		InputID:   1,
		CC:        20,
		Value:     127,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["control"]["normalized"]; present {
		t.Error("normalized should be omitted for button events")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" || parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected system payload: %+v", parsed.System)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"custom":true}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through: %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := ControlEvent{
		Timestamp: time.Now(),
		Kind:      input.ButtonPress,
		InputID:   1,
		CC:        20,
		Value:     127,
	}

	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Kind != input.ButtonPress {
		t.Errorf("unexpected event kind: %s", f.Events[0].Kind)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	if err := f.Publish(ControlEvent{}); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Events) != 0 {
		t.Error("failed publish must not be recorded")
	}
}
