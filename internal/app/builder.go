package app

import (
	"fmt"

	"github.com/opencontrol/controldeck/internal/gpio"
	"github.com/opencontrol/controldeck/internal/input"
	"github.com/opencontrol/controldeck/internal/midiout"
	"github.com/opencontrol/controldeck/internal/router"
)

// Builder assembles an App from hardware configuration and collaborators.
// Build validates the whole configuration and fails on the first problem.
type Builder struct {
	encoders []input.EncoderConfig
	buttons  []input.ButtonConfig
	timing   input.Timing
	reader   gpio.Reader
	sink     midiout.Sink
}

// NewBuilder creates a Builder with default button timing.
func NewBuilder() *Builder {
	return &Builder{timing: input.DefaultTiming}
}

// Encoders sets the encoder hardware table.
func (b *Builder) Encoders(cfgs ...input.EncoderConfig) *Builder {
	b.encoders = cfgs
	return b
}

// Buttons sets the button hardware table.
func (b *Builder) Buttons(cfgs ...input.ButtonConfig) *Builder {
	b.buttons = cfgs
	return b
}

// Timing overrides the debounce/long-press/double-tap thresholds.
func (b *Builder) Timing(t input.Timing) *Builder {
	b.timing = t
	return b
}

// GPIO sets the pin-level reader. Required.
func (b *Builder) GPIO(r gpio.Reader) *Builder {
	b.reader = r
	return b
}

// MIDI sets the Control Change sink.
func (b *Builder) MIDI(s midiout.Sink) *Builder {
	b.sink = s
	return b
}

// Build validates the configuration and constructs the App.
func (b *Builder) Build() (*App, error) {
	if b.reader == nil {
		return nil, fmt.Errorf("build app: gpio reader is required")
	}
	if b.timing.DebounceMs == 0 {
		return nil, fmt.Errorf("build app: debounce duration must be positive")
	}
	if err := input.ValidateConfigs(b.encoders, b.buttons); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	a := &App{
		reader:      b.reader,
		sink:        b.sink,
		router:      router.New(),
		encoderCfgs: b.encoders,
		buttonCfgs:  b.buttons,
	}
	for _, cfg := range b.encoders {
		a.encoders = append(a.encoders, input.NewDecoder(cfg))
	}
	for _, cfg := range b.buttons {
		a.buttons = append(a.buttons, input.NewDebouncer(cfg, b.timing))
	}
	a.bindings = &Bindings{router: a.router, midi: a.sink}
	return a, nil
}
