package logic

// Ramp moves Current toward Target by one level per Step.
type Ramp struct {
	Current int
	Target  int
}

// Step advances Current one level toward Target. It returns false when
// there was nothing to do.
func (r *Ramp) Step() bool {
	switch {
	case r.Current < r.Target:
		r.Current++
	case r.Current > r.Target:
		r.Current--
	default:
		return false
	}
	return true
}

// Phase derives the brightness phase from Current and Target.
func (r *Ramp) Phase() Phase {
	switch {
	case r.Current < r.Target:
		return PhaseRampingUp
	case r.Current > r.Target:
		return PhaseRampingDown
	case r.Current == 0:
		return PhaseSteadyOff
	default:
		return PhaseSteadyOn
	}
}
