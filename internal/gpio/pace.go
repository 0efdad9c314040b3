package gpio

import (
	"time"

	"github.com/sweeney/powerled/internal/logic"
)

// ledOutput turns logic.Line ticks into paced writes on a real output line.
// The line is only written when the level changes; every call then waits
// for the end of its tick. Not safe for concurrent use.
type ledOutput struct {
	write func(high bool) error
	tick  time.Duration
	now   func() time.Time
	sleep func(time.Duration)

	next    time.Time
	level   bool
	written bool
	err     error
}

func newLEDOutput(write func(high bool) error, tick time.Duration) *ledOutput {
	return &ledOutput{
		write: write,
		tick:  tick,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Set writes high if it differs from the last level written, then waits
// until the tick's deadline. Deadlines are absolute so short oversleeps are
// absorbed by later ticks; after a stall longer than a frame the schedule
// restarts from now instead of bursting through missed ticks.
func (o *ledOutput) Set(high bool) {
	if !o.written || high != o.level {
		if err := o.write(high); err != nil {
			if o.err == nil {
				o.err = err
			}
		} else {
			o.level = high
			o.written = true
		}
	}

	now := o.now()
	if o.next.IsZero() || now.Sub(o.next) > o.tick*logic.FramePeriod {
		o.next = now
	}
	o.next = o.next.Add(o.tick)
	if d := o.next.Sub(now); d > 0 {
		o.sleep(d)
	}
}

// Err returns and clears the first write error since the last call.
func (o *ledOutput) Err() error {
	err := o.err
	o.err = nil
	return err
}
