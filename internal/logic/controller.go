package logic

// Controller owns all loop state and advances it once per Step.
// Not safe for concurrent use; the control loop is its only caller.
type Controller struct {
	line     Line
	presence Presence
	ramp     Ramp
	mute     MuteIndicator
	phase    Phase
	muting   bool
	counts   Counts
}

// NewController creates a controller driving line. It starts dark with no
// AC seen and the muting effect held off.
func NewController(line Line) *Controller {
	return &Controller{
		line:  line,
		mute:  NewMuteIndicator(),
		phase: PhaseSteadyOff,
	}
}

// Step runs one loop iteration: sample AC, emit one frame, ramp, age the AC
// timeout, then maybe run the muting effect. Returns the events it caused.
func (c *Controller) Step(in Input) []Event {
	c.counts.Iterations++
	c.muting = in.Muting

	if c.presence.Sample(in.Counter) {
		c.counts.ACDetected++
		c.ramp.Target = MaxBrightness
	}

	EmitFrame(c.line, c.ramp.Current)
	c.ramp.Step()

	if c.presence.Age() {
		c.counts.ACLost++
		c.ramp.Target = 0
		c.mute.HoldOff()
	}

	var events []Event
	if phase := c.ramp.Phase(); phase != c.phase {
		c.phase = phase
		switch phase {
		case PhaseRampingUp:
			c.counts.RampsUp++
		case PhaseRampingDown:
			c.counts.RampsDown++
		}
		events = append(events, c.event(in, EventType(phase)))
	}

	if c.mute.Tick(in.Muting, c.ramp.Target) {
		RunEffect(c.line)
		c.counts.MuteEffects++
		events = append(events, c.event(in, EventMuteEffect))
	}

	return events
}

func (c *Controller) event(in Input, t EventType) Event {
	return Event{
		Timestamp:  in.Time,
		Iteration:  c.counts.Iterations,
		Type:       t,
		Phase:      c.phase,
		Brightness: c.ramp.Current,
		Target:     c.ramp.Target,
		Muting:     in.Muting,
	}
}

// Brightness returns the level driven on the next frame.
func (c *Controller) Brightness() int {
	return c.ramp.Current
}

// Target returns the level the ramp is moving toward.
func (c *Controller) Target() int {
	return c.ramp.Target
}

// Phase returns the current brightness phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:      c.phase,
		Brightness: c.ramp.Current,
		Target:     c.ramp.Target,
		Counter:    c.presence.observed,
		ACTimeout:  c.presence.timeout,
		ACPresent:  c.presence.Present(),
		MuteTimer:  c.mute.Timer(),
		Muting:     c.muting,
		Counts:     c.counts,
	}
}
