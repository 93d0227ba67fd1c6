package midiout

import (
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Ports matching any of these patterns are never auto-connected
// (virtual/system ports).
var excludedPortPatterns = []string{"Midi Through", "Through Port", "Dummy"}

// RealSink sends Control Change messages through an rtmidi output port.
// It tolerates the port being absent at startup or disappearing later:
// SendCC fails while disconnected, and Reconnect can be called from the
// poll loop to re-attach when the device comes back.
type RealSink struct {
	drv      *rtmididrv.Driver
	port     drivers.Out
	send     func(midi.Message) error
	pattern  string
	portName string
}

// NewRealSink initialises the rtmidi driver and attempts a first
// connection to an output port whose name contains pattern
// (case-insensitive). An empty pattern connects to the first non-excluded
// port. No port at startup is not an error.
func NewRealSink(pattern string) (*RealSink, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	s := &RealSink{drv: drv, pattern: pattern}
	if err := s.Reconnect(); err != nil {
		slog.Warn("midi: no output port yet", "pattern", pattern, "err", err)
	}
	return s, nil
}

// IsConnected reports whether an output port is currently open.
func (s *RealSink) IsConnected() bool {
	return s.port != nil
}

// PortName returns the name of the connected port, or "" when disconnected.
func (s *RealSink) PortName() string {
	return s.portName
}

// Reconnect scans the available output ports and opens a matching one.
// It is a no-op while already connected.
func (s *RealSink) Reconnect() error {
	if s.port != nil {
		return nil
	}

	outs, err := s.drv.Outs()
	if err != nil {
		return fmt.Errorf("list midi outputs: %w", err)
	}

	name, ok := pickPort(portNames(outs), s.pattern)
	if !ok {
		return fmt.Errorf("no midi output matching %q", s.pattern)
	}

	var found drivers.Out
	for _, out := range outs {
		if out.String() == name {
			found = out
			break
		}
	}
	if found == nil {
		return fmt.Errorf("midi output %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}

	send, err := midi.SendTo(found)
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("sender for %q: %w", name, err)
	}

	s.port = found
	s.send = send
	s.portName = name
	slog.Info("midi: connected", "port", name)
	return nil
}

// SendCC transmits one Control Change message. On a transport error the
// port is dropped so the next Reconnect can re-attach.
func (s *RealSink) SendCC(channel, cc, value uint8) error {
	if err := validateCC(channel, cc, value); err != nil {
		return err
	}
	if s.port == nil {
		return fmt.Errorf("midi output not connected")
	}
	if err := s.send(midi.ControlChange(channel, cc, value)); err != nil {
		slog.Warn("midi: send failed, dropping port", "port", s.portName, "err", err)
		s.dropPort()
		return fmt.Errorf("send cc: %w", err)
	}
	return nil
}

// Close shuts down the active port and the rtmidi driver.
func (s *RealSink) Close() error {
	s.dropPort()
	return s.drv.Close()
}

func (s *RealSink) dropPort() {
	if s.port != nil {
		_ = s.port.Close()
	}
	s.port = nil
	s.send = nil
	s.portName = ""
}

func portNames(outs []drivers.Out) []string {
	var names []string
	for _, out := range outs {
		name := out.String()
		excluded := false
		for _, pat := range excludedPortPatterns {
			if containsCI(name, pat) {
				excluded = true
				break
			}
		}
		if !excluded {
			names = append(names, name)
		}
	}
	return names
}

// pickPort chooses the first port matching pattern, or the first port at
// all when pattern is empty.
func pickPort(names []string, pattern string) (string, bool) {
	if pattern == "" {
		if len(names) == 0 {
			return "", false
		}
		return names[0], true
	}
	for _, name := range names {
		if containsCI(name, pattern) {
			return name, true
		}
	}
	return "", false
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
