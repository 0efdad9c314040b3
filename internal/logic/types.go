// Package logic contains the power-indicator control loop.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is only carried through for event timestamps; control decisions are
// counted in loop iterations.
package logic

import "time"

// Compiled-in control constants. The iteration counts assume one loop
// iteration per PWM frame at roughly 500 frames per second.
const (
	// MaxBrightness is the top of the linear brightness scale.
	MaxBrightness = 99

	// FramePeriod is the number of ticks in one PWM frame.
	FramePeriod = 99

	// AbsenceTimeout is the number of iterations without a counter change
	// before AC is declared absent. It must exceed the iterations between two
	// zero-cross pulses plus the stall of one muting effect.
	AbsenceTimeout = 10

	// MuteHoldOff is the muting timer value at boot and after AC loss.
	MuteHoldOff = 500

	// MuteRepeat is the muting timer value after each effect run.
	MuteRepeat = 300

	// EffectRepeats is the number of rise+fall sweeps per effect run.
	EffectRepeats = 2
)

// Phase is the brightness state derived from current and target levels.
type Phase string

const (
	PhaseSteadyOff   Phase = "STEADY_OFF"
	PhaseRampingUp   Phase = "RAMPING_UP"
	PhaseSteadyOn    Phase = "STEADY_ON"
	PhaseRampingDown Phase = "RAMPING_DOWN"
)

// EventType identifies something worth reporting outside the loop.
type EventType string

const (
	EventSteadyOff   EventType = "STEADY_OFF"
	EventRampingUp   EventType = "RAMPING_UP"
	EventSteadyOn    EventType = "STEADY_ON"
	EventRampingDown EventType = "RAMPING_DOWN"
	EventMuteEffect  EventType = "MUTE_EFFECT"
)

// Event is emitted on phase changes and on each muting effect run.
type Event struct {
	Timestamp  time.Time
	Iteration  uint64
	Type       EventType
	Phase      Phase
	Brightness int
	Target     int
	Muting     bool
}

// Input is a single sample of the controller's inputs.
type Input struct {
	Counter uint8 // free-running AC zero-cross count, wraps at 256
	Muting  bool  // true = preamp output is muted
	Time    time.Time
}

// Counts tracks occurrences since startup.
type Counts struct {
	Iterations  uint64
	ACDetected  uint64 // counter changes seen
	ACLost      uint64 // absence timeouts expired
	MuteEffects uint64
	RampsUp     uint64
	RampsDown   uint64
}

// Snapshot is a value copy of the controller state.
type Snapshot struct {
	Phase      Phase
	Brightness int
	Target     int
	Counter    uint8
	ACTimeout  int
	ACPresent  bool
	MuteTimer  int
	Muting     bool
	Counts     Counts
}
