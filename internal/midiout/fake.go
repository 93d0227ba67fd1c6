package midiout

// CC is one recorded Control Change message.
type CC struct {
	Channel uint8
	Number  uint8
	Value   uint8
}

// FakeSink records sent Control Change messages for test assertions.
type FakeSink struct {
	// Sent contains every message in send order.
	Sent []CC

	// SendError, if set, will be returned by SendCC.
	SendError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{Connected: true}
}

// SendCC records the message. Range validation matches the real sink.
func (f *FakeSink) SendCC(channel, cc, value uint8) error {
	if err := validateCC(channel, cc, value); err != nil {
		return err
	}
	if f.SendError != nil {
		return f.SendError
	}
	f.Sent = append(f.Sent, CC{Channel: channel, Number: cc, Value: value})
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake sink is "connected".
func (f *FakeSink) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakeSink) Reset() {
	f.Sent = nil
	f.SendError = nil
	f.Closed = false
	f.Connected = true
}
