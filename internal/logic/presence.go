package logic

// Presence infers mains power from a free-running zero-cross counter.
// Only inequality between samples matters, so counter wraparound is harmless.
type Presence struct {
	observed uint8
	timeout  int
}

// Sample stores counter and reports whether it differs from the previous
// sample. A change restarts the absence timeout at AbsenceTimeout.
func (p *Presence) Sample(counter uint8) bool {
	changed := counter != p.observed
	p.observed = counter
	if changed {
		p.timeout = AbsenceTimeout
	}
	return changed
}

// Age counts the absence timeout down by one and returns true on the
// iteration it reaches zero. It does nothing once the timeout is zero.
func (p *Presence) Age() bool {
	if p.timeout == 0 {
		return false
	}
	p.timeout--
	return p.timeout == 0
}

// Present reports whether the absence timeout is still running.
func (p *Presence) Present() bool {
	return p.timeout > 0
}
