// Package gpio provides the indicator's three GPIO signals with hardware abstraction.
// The real implementations use the Linux GPIO character device or periph.io.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Board is the controller's view of the hardware.
type Board interface {
	// Read returns the current AC pulse count and mute level.
	Read() (Sample, error)

	// Set drives the LED for one PWM tick.
	Set(high bool)

	// Err returns the first LED write error since the last call, if any.
	Err() error

	// Close drives the LED off and releases GPIO resources.
	Close() error
}

// Sample is a single reading of the board inputs (already in logical form).
type Sample struct {
	Counter uint8 // AC zero-cross pulses seen, wraps at 256
	Muting  bool  // true = preamp is muting
}

// Pin definitions (BCM numbering)
const (
	DefaultPinAC   = 27 // opto-isolated AC zero-cross pulses
	DefaultPinMute = 22 // preamp muting relay sense
	DefaultPinLED  = 17 // front-panel power LED driver
)

// TickDuration is the length of one PWM tick on real hardware. 99 ticks
// make a frame of just under 2ms, about 505 frames per second.
const TickDuration = 20 * time.Microsecond

// Config selects chip and pins for a real board.
type Config struct {
	Chip          string
	PinAC         int
	PinMute       int
	PinLED        int
	MuteActiveLow bool
}

// DefaultConfig returns the wiring of the reference board.
func DefaultConfig() Config {
	return Config{
		Chip:    "gpiochip0",
		PinAC:   DefaultPinAC,
		PinMute: DefaultPinMute,
		PinLED:  DefaultPinLED,
	}
}
