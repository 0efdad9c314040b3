package logic

// Effect sweep levels, tuned by eye on the real panel.
const (
	riseStart  = 10
	riseFrames = 30
	fallStart  = 68
	fallStep   = 2
	fallFrames = 20
)

// EffectFrameCount is the number of frames in one muting effect run.
const EffectFrameCount = EffectRepeats * (riseFrames + fallFrames)

// effectFrames is built once; the effect path never allocates.
var effectFrames = buildEffectFrames()

func buildEffectFrames() [EffectFrameCount]int {
	var frames [EffectFrameCount]int
	i := 0
	for rep := 0; rep < EffectRepeats; rep++ {
		for x := 0; x < riseFrames; x++ {
			frames[i] = riseStart + x
			i++
		}
		for x := 0; x < fallFrames; x++ {
			frames[i] = fallStart - x*fallStep
			i++
		}
	}
	return frames
}

// EffectFrames returns the brightness level of every frame of one effect run.
func EffectFrames() [EffectFrameCount]int {
	return effectFrames
}

// MuteIndicator schedules the muting effect.
type MuteIndicator struct {
	timer int
}

// NewMuteIndicator returns an indicator holding off for MuteHoldOff iterations.
func NewMuteIndicator() MuteIndicator {
	return MuteIndicator{timer: MuteHoldOff}
}

// HoldOff pushes the next effect MuteHoldOff iterations away.
func (m *MuteIndicator) HoldOff() {
	m.timer = MuteHoldOff
}

// Tick advances the timer for one iteration and reports whether the effect
// is due. The timer only moves while muting is asserted and target is
// nonzero; when the effect is due the timer restarts at MuteRepeat.
func (m *MuteIndicator) Tick(muting bool, target int) bool {
	if !muting || target == 0 {
		return false
	}
	if m.timer != 0 {
		m.timer--
		return false
	}
	m.timer = MuteRepeat
	return true
}

// Timer returns the iterations left before the next effect.
func (m *MuteIndicator) Timer() int {
	return m.timer
}

// RunEffect emits the whole muting effect onto l. It blocks for
// EffectFrameCount frames and nothing else in the loop runs meanwhile.
func RunEffect(l Line) {
	for _, level := range effectFrames {
		EmitFrame(l, level)
	}
}
