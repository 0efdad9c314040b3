// Package status provides a thread-safe status tracker for the powerled daemon.
// The control loop writes it; HTTP handlers and MQTT heartbeats read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/powerled/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Driver      string
	PinAC       int
	PinMute     int
	PinLED      int
	TickUs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Indicator     logic.Snapshot
	GPIOErrors    uint64
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	metrics *Metrics
}

// NewTracker creates a Tracker with the given start time and config.
// metrics may be nil.
func NewTracker(startTime time.Time, cfg Config, metrics *Metrics) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		metrics: metrics,
	}
}

// Update stores the latest controller state. Called from runLoop on every iteration.
func (t *Tracker) Update(ind logic.Snapshot) {
	t.mu.Lock()
	t.snap.Indicator = ind
	t.mu.Unlock()
	if t.metrics != nil {
		t.metrics.Observe(ind)
	}
}

// RecordGPIOError counts a failed read or write.
func (t *Tracker) RecordGPIOError() {
	t.mu.Lock()
	t.snap.GPIOErrors++
	t.mu.Unlock()
	if t.metrics != nil {
		t.metrics.GPIOErrors.Inc()
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
