package logic

import "testing"

func TestPresenceDetectsChange(t *testing.T) {
	var p Presence

	if p.Sample(0) {
		t.Error("unchanged counter should not report presence")
	}
	if p.Present() {
		t.Error("should not be present before any change")
	}

	if !p.Sample(1) {
		t.Error("changed counter should report presence")
	}
	if p.timeout != AbsenceTimeout {
		t.Errorf("timeout: got %d, want %d", p.timeout, AbsenceTimeout)
	}
	if !p.Present() {
		t.Error("expected present after change")
	}
}

func TestPresenceWraparound(t *testing.T) {
	var p Presence
	p.Sample(255)
	if !p.Sample(0) {
		t.Error("wrap from 255 to 0 should count as a change")
	}
	// Any different value counts, including going backwards.
	if !p.Sample(200) {
		t.Error("backwards jump should count as a change")
	}
}

func TestPresenceAgeExpiresOnce(t *testing.T) {
	var p Presence
	p.Sample(7)

	for i := 1; i < AbsenceTimeout; i++ {
		if p.Age() {
			t.Fatalf("expired early after %d ages", i)
		}
	}
	if !p.Age() {
		t.Fatalf("expected expiry after %d ages", AbsenceTimeout)
	}
	if p.Present() {
		t.Error("should not be present after expiry")
	}
	for i := 0; i < 5; i++ {
		if p.Age() {
			t.Error("expiry should be reported only once")
		}
	}
}

func TestPresenceChangeRestartsTimeout(t *testing.T) {
	var p Presence
	p.Sample(1)
	for i := 0; i < AbsenceTimeout-2; i++ {
		p.Age()
	}
	p.Sample(2)
	if p.timeout != AbsenceTimeout {
		t.Errorf("timeout: got %d, want %d", p.timeout, AbsenceTimeout)
	}
}

func TestRampStep(t *testing.T) {
	r := Ramp{Current: 5, Target: 7}
	if !r.Step() || r.Current != 6 {
		t.Errorf("expected step up to 6, got %d", r.Current)
	}
	r.Step()
	if r.Step() {
		t.Error("expected no step at target")
	}
	if r.Current != 7 {
		t.Errorf("expected 7, got %d", r.Current)
	}

	r.Target = 0
	r.Step()
	if r.Current != 6 {
		t.Errorf("expected step down to 6, got %d", r.Current)
	}
}

func TestRampPhase(t *testing.T) {
	tests := []struct {
		current, target int
		want            Phase
	}{
		{0, 0, PhaseSteadyOff},
		{0, MaxBrightness, PhaseRampingUp},
		{50, MaxBrightness, PhaseRampingUp},
		{MaxBrightness, MaxBrightness, PhaseSteadyOn},
		{50, 0, PhaseRampingDown},
	}
	for _, tt := range tests {
		r := Ramp{Current: tt.current, Target: tt.target}
		if got := r.Phase(); got != tt.want {
			t.Errorf("Phase(%d->%d): got %s, want %s", tt.current, tt.target, got, tt.want)
		}
	}
}
