package status

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sweeney/powerled/internal/logic"
)

func testSnapshot() logic.Snapshot {
	return logic.Snapshot{
		Phase:      logic.PhaseRampingUp,
		Brightness: 42,
		Target:     99,
		ACPresent:  true,
		Muting:     true,
		MuteTimer:  120,
		Counts: logic.Counts{
			Iterations:  1000,
			ACDetected:  90,
			MuteEffects: 1,
			RampsUp:     1,
		},
	}
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Driver: "gpiocdev", PinLED: 17, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg, nil)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PinLED != 17 {
		t.Errorf("Config.PinLED: got %d, want 17", snap.Config.PinLED)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)
	tr.Update(testSnapshot())
	tr.RecordGPIOError()
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.Indicator.Brightness != 42 {
		t.Errorf("Brightness: got %d, want 42", snap.Indicator.Brightness)
	}
	if snap.Indicator.Phase != logic.PhaseRampingUp {
		t.Errorf("Phase: got %s, want RAMPING_UP", snap.Indicator.Phase)
	}
	if snap.GPIOErrors != 1 {
		t.Errorf("GPIOErrors: got %d, want 1", snap.GPIOErrors)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, Config{}, nil)
	if up := tr.Snapshot().Uptime(); up < 90*time.Second {
		t.Errorf("Uptime: got %v, want >= 90s", up)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, NewMetrics())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s := testSnapshot()
		for i := 0; i < 1000; i++ {
			s.Counts.Iterations++
			tr.Update(s)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{Driver: "periph", Broker: "tcp://b:1883"}, nil)
	tr.Update(testSnapshot())

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Phase != "RAMPING_UP" {
		t.Errorf("Phase: got %q", sj.Status.Phase)
	}
	if sj.Status.Brightness != 42 || sj.Status.Target != 99 {
		t.Errorf("levels: got %d -> %d", sj.Status.Brightness, sj.Status.Target)
	}
	if !sj.Status.ACPresent || !sj.Status.Muting {
		t.Error("expected ac_present and muting true")
	}
	if sj.Status.Counts.Iterations != 1000 || sj.Status.Counts.MuteEffects != 1 {
		t.Errorf("counts: %+v", sj.Status.Counts)
	}
	if sj.Status.Config.Driver != "periph" {
		t.Errorf("Config.Driver: got %q", sj.Status.Config.Driver)
	}
	if sj.Status.Event != "" {
		t.Errorf("expected no event, got %q", sj.Status.Event)
	}
}

func TestFormatJSONUnknownPhase(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)
	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Phase != "UNKNOWN" {
		t.Errorf("Phase: got %q, want UNKNOWN", sj.Status.Phase)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)
	tr.Update(testSnapshot())

	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")
	if strings.Contains(string(data), "\n") {
		t.Error("status event should be compact JSON")
	}
	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" || sj.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason: got %q/%q", sj.Status.Event, sj.Status.Reason)
	}
}

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()
	s := testSnapshot()
	m.Observe(s)

	if got := testutil.ToFloat64(m.Brightness); got != 42 {
		t.Errorf("brightness: got %v, want 42", got)
	}
	if got := testutil.ToFloat64(m.Phase.WithLabelValues("RAMPING_UP")); got != 1 {
		t.Errorf("phase RAMPING_UP: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Phase.WithLabelValues("STEADY_ON")); got != 0 {
		t.Errorf("phase STEADY_ON: got %v, want 0", got)
	}

	// Counters follow the cumulative controller counts.
	s.Counts.Iterations = 1500
	s.Counts.MuteEffects = 3
	m.Observe(s)
	if got := testutil.ToFloat64(m.Iterations); got != 1500 {
		t.Errorf("iterations: got %v, want 1500", got)
	}
	if got := testutil.ToFloat64(m.MuteEffects); got != 3 {
		t.Errorf("mute effects: got %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.Ramps.WithLabelValues("up")); got != 1 {
		t.Errorf("ramps up: got %v, want 1", got)
	}
}

func TestTrackerFeedsMetrics(t *testing.T) {
	m := NewMetrics()
	tr := NewTracker(time.Now(), Config{}, m)
	tr.Update(testSnapshot())
	tr.RecordGPIOError()

	if got := testutil.ToFloat64(m.Target); got != 99 {
		t.Errorf("target: got %v, want 99", got)
	}
	if got := testutil.ToFloat64(m.GPIOErrors); got != 1 {
		t.Errorf("gpio errors: got %v, want 1", got)
	}
}
