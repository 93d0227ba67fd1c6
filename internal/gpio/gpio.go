// Package gpio provides raw pin-level reads with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Levels holds one polled sample of raw line levels, keyed by BCM pin
// number. true = line reads high.
type Levels map[int]bool

// Reader reads the raw levels of a fixed set of pins.
type Reader interface {
	// Read samples every configured pin once and returns the raw levels.
	// No polarity adjustment is applied; active-low handling belongs to
	// the input state machines.
	Read() (Levels, error)

	// Close releases GPIO resources.
	Close() error
}
