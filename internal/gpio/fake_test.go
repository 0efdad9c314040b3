package gpio

import (
	"errors"
	"testing"
)

func TestFakeBoardRead(t *testing.T) {
	samples := []Sample{
		{Counter: 1, Muting: false},
		{Counter: 2, Muting: true},
		{Counter: 3, Muting: true},
	}

	f := NewFakeBoard(samples)

	for i, want := range samples {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("sample %d: expected %+v, got %+v", i, want, got)
		}
	}

	// Fourth read should repeat last sample
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != samples[2] {
		t.Errorf("repeat: expected %+v, got %+v", samples[2], got)
	}
}

func TestFakeBoardNoSamples(t *testing.T) {
	f := NewFakeBoard(nil)

	_, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeBoardReadError(t *testing.T) {
	f := NewFakeBoard([]Sample{{Counter: 1}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeBoardRecordsTicks(t *testing.T) {
	f := NewFakeBoard(nil)
	f.Set(true)
	f.Set(false)
	f.Set(true)

	if len(f.Ticks) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(f.Ticks))
	}
	if !f.LastLevel() {
		t.Error("expected last level high")
	}
}

func TestFakeBoardWriteErrorLatched(t *testing.T) {
	f := NewFakeBoard(nil)
	f.WriteError = errors.New("line busy")

	f.Set(true)
	f.Set(false)

	if err := f.Err(); err == nil {
		t.Fatal("expected latched error")
	}
	if err := f.Err(); err != nil {
		t.Errorf("expected error cleared after Err, got %v", err)
	}
}

func TestFakeBoardCloseAndReset(t *testing.T) {
	f := NewFakeBoard([]Sample{{Counter: 1}, {Counter: 2}})

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Read()
	f.Set(true)
	f.Reset()

	s, _ := f.Read()
	if s.Counter != 1 {
		t.Errorf("after reset: expected counter 1, got %d", s.Counter)
	}
	if len(f.Ticks) != 0 {
		t.Errorf("after reset: expected no ticks, got %d", len(f.Ticks))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Chip != "gpiochip0" {
		t.Errorf("Chip: got %q", cfg.Chip)
	}
	pins := map[int]bool{cfg.PinAC: true, cfg.PinMute: true, cfg.PinLED: true}
	if len(pins) != 3 {
		t.Errorf("default pins overlap: %+v", cfg)
	}
}
