//go:build linux

package gpio

import (
	"fmt"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// RealBoard drives the indicator through the Linux GPIO character device.
// AC zero-cross pulses are counted by a rising-edge handler, standing in for
// a hardware counter: the control loop only ever polls the count.
type RealBoard struct {
	chip  *gpiocdev.Chip
	acPin *gpiocdev.Line
	mute  *gpiocdev.Line
	led   *gpiocdev.Line
	out   *ledOutput
	count atomic.Uint32
}

// NewRealBoard requests the AC, mute and LED lines described by cfg.
func NewRealBoard(cfg Config) (*RealBoard, error) {
	chip, err := gpiocdev.NewChip(cfg.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", cfg.Chip, err)
	}
	b := &RealBoard{chip: chip}

	b.acPin, err = chip.RequestLine(cfg.PinAC,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(b.handleEdge))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request AC pin %d: %w", cfg.PinAC, err)
	}

	// Active-low mute wiring idles high, so pull up instead of down.
	muteOpts := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullDown}
	if cfg.MuteActiveLow {
		muteOpts = []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow}
	}
	b.mute, err = chip.RequestLine(cfg.PinMute, muteOpts...)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request mute pin %d: %w", cfg.PinMute, err)
	}

	b.led, err = chip.RequestLine(cfg.PinLED, gpiocdev.AsOutput(0))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", cfg.PinLED, err)
	}
	b.out = newLEDOutput(b.writeLED, TickDuration)

	return b, nil
}

func (b *RealBoard) handleEdge(gpiocdev.LineEvent) {
	b.count.Add(1)
}

func (b *RealBoard) writeLED(high bool) error {
	v := 0
	if high {
		v = 1
	}
	if err := b.led.SetValue(v); err != nil {
		return fmt.Errorf("write LED pin: %w", err)
	}
	return nil
}

// Read returns the pulse count truncated to 8 bits and the logical mute level.
func (b *RealBoard) Read() (Sample, error) {
	v, err := b.mute.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read mute pin: %w", err)
	}
	return Sample{
		Counter: uint8(b.count.Load()),
		Muting:  v == 1,
	}, nil
}

// Set drives the LED for one paced tick.
func (b *RealBoard) Set(high bool) {
	b.out.Set(high)
}

// Err returns the first LED write error since the last call.
func (b *RealBoard) Err() error {
	return b.out.Err()
}

// Close turns the LED off and releases GPIO resources.
// Lines are returned to input with pull-down (matching Pi boot defaults) so
// the LED driver is not left floating across a reboot.
func (b *RealBoard) Close() error {
	var err error

	if b.led != nil {
		err = multierr.Append(err, b.led.SetValue(0))
		err = multierr.Append(err, b.led.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown))
		err = multierr.Append(err, b.led.Close())
	}
	if b.mute != nil {
		err = multierr.Append(err, b.mute.Close())
	}
	if b.acPin != nil {
		err = multierr.Append(err, b.acPin.Close())
	}
	if b.chip != nil {
		err = multierr.Append(err, b.chip.Close())
	}

	if err != nil {
		return fmt.Errorf("close board: %w", err)
	}
	return nil
}
