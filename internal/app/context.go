package app

import (
	"fmt"
	"strings"
)

// Requirements is the capability set a context depends on. It is checked
// once at registration so a misconfigured build fails at startup instead
// of on first use.
type Requirements struct {
	Encoders bool
	Buttons  bool
	MIDI     bool
}

// Context is a unit of controller behaviour. Initialize runs once during
// App.Begin and registers the context's input bindings; Update runs at the
// end of every poll cycle; Cleanup runs on shutdown.
type Context interface {
	Name() string
	Requires() Requirements
	Initialize(b *Bindings) error
	Update()
	Cleanup()
}

// missingCapabilities lists the capabilities required but not provided,
// for the registration error message.
func missingCapabilities(required, available Requirements) []string {
	var missing []string
	if required.Encoders && !available.Encoders {
		missing = append(missing, "encoders")
	}
	if required.Buttons && !available.Buttons {
		missing = append(missing, "buttons")
	}
	if required.MIDI && !available.MIDI {
		missing = append(missing, "midi")
	}
	return missing
}

func capabilityError(name string, missing []string) error {
	return fmt.Errorf("context %q requires unavailable capabilities: %s", name, strings.Join(missing, ", "))
}
