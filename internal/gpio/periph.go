package gpio

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePoll bounds how long the edge counter blocks, so Close is prompt.
const edgePoll = 100 * time.Millisecond

// PeriphBoard drives the indicator through periph.io, for boards or kernels
// without a usable GPIO character device.
type PeriphBoard struct {
	acPin     pgpio.PinIO
	mute      pgpio.PinIO
	led       pgpio.PinIO
	activeLow bool
	out       *ledOutput
	count     atomic.Uint32
	done      chan struct{}
	stopped   chan struct{}
}

// NewPeriphBoard initializes periph.io and claims the pins described by cfg.
// cfg.Chip is ignored; pins are resolved by BCM name.
func NewPeriphBoard(cfg Config) (*PeriphBoard, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	acPin, err := resolvePin(cfg.PinAC)
	if err != nil {
		return nil, err
	}
	mute, err := resolvePin(cfg.PinMute)
	if err != nil {
		return nil, err
	}
	led, err := resolvePin(cfg.PinLED)
	if err != nil {
		return nil, err
	}

	if err := acPin.In(pgpio.PullDown, pgpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("configure AC pin %d: %w", cfg.PinAC, err)
	}
	pull := pgpio.PullDown
	if cfg.MuteActiveLow {
		pull = pgpio.PullUp
	}
	if err := mute.In(pull, pgpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure mute pin %d: %w", cfg.PinMute, err)
	}
	if err := led.Out(pgpio.Low); err != nil {
		return nil, fmt.Errorf("configure LED pin %d: %w", cfg.PinLED, err)
	}

	b := &PeriphBoard{
		acPin:     acPin,
		mute:      mute,
		led:       led,
		activeLow: cfg.MuteActiveLow,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	b.out = newLEDOutput(b.writeLED, TickDuration)
	go b.countEdges()
	return b, nil
}

func resolvePin(pin int) (pgpio.PinIO, error) {
	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pin %d (%s) not found in hardware", pin, name)
	}
	return p, nil
}

func (b *PeriphBoard) countEdges() {
	defer close(b.stopped)
	for {
		select {
		case <-b.done:
			return
		default:
		}
		if b.acPin.WaitForEdge(edgePoll) {
			b.count.Add(1)
		}
	}
}

func (b *PeriphBoard) writeLED(high bool) error {
	if err := b.led.Out(pgpio.Level(high)); err != nil {
		return fmt.Errorf("write LED pin: %w", err)
	}
	return nil
}

// Read returns the pulse count truncated to 8 bits and the logical mute level.
func (b *PeriphBoard) Read() (Sample, error) {
	level := b.mute.Read() == pgpio.High
	return Sample{
		Counter: uint8(b.count.Load()),
		Muting:  level != b.activeLow,
	}, nil
}

// Set drives the LED for one paced tick.
func (b *PeriphBoard) Set(high bool) {
	b.out.Set(high)
}

// Err returns the first LED write error since the last call.
func (b *PeriphBoard) Err() error {
	return b.out.Err()
}

// Close stops edge counting, turns the LED off and releases the pins.
func (b *PeriphBoard) Close() error {
	close(b.done)
	<-b.stopped

	var err error
	err = multierr.Append(err, b.led.Out(pgpio.Low))
	err = multierr.Append(err, b.led.In(pgpio.PullDown, pgpio.NoEdge))
	err = multierr.Append(err, b.acPin.In(pgpio.PullDown, pgpio.NoEdge))
	err = multierr.Append(err, b.acPin.Halt())
	err = multierr.Append(err, b.mute.Halt())

	if err != nil {
		return fmt.Errorf("close board: %w", err)
	}
	return nil
}
