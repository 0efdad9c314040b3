package logic

// Line is the LED output. Implementations pace each call to one PWM tick.
// Set has no error return; hardware write failures are the line's problem.
type Line interface {
	Set(high bool)
}

// Duty returns the perceptual on-duration for a linear brightness level.
// Levels outside [0, MaxBrightness] are clamped.
func Duty(level int) uint8 {
	if level < 0 {
		level = 0
	} else if level > MaxBrightness {
		level = MaxBrightness
	}
	return LogTable[level]
}

// HighTicks returns how many ticks of a frame are driven high for level.
func HighTicks(level int) int {
	on := int(Duty(level))
	if on > FramePeriod {
		on = FramePeriod
	}
	return on
}

// EmitFrame bit-bangs one PWM frame for level onto l: exactly FramePeriod
// ticks, high for the first HighTicks(level) of them and low for the rest.
// Levels whose duty saturates produce a static high frame and level 0 a
// static low frame.
func EmitFrame(l Line, level int) {
	on := HighTicks(level)
	for tick := 0; tick < FramePeriod; tick++ {
		l.Set(tick < on)
	}
}
