package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Phase         string     `json:"phase"`
	Brightness    int        `json:"brightness"`
	Target        int        `json:"target"`
	ACPresent     bool       `json:"ac_present"`
	Muting        bool       `json:"muting"`
	MuteTimer     int        `json:"mute_timer"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of the controller counters.
type CountsJSON struct {
	Iterations  uint64 `json:"iterations"`
	ACDetected  uint64 `json:"ac_pulses_seen"`
	ACLost      uint64 `json:"ac_lost"`
	MuteEffects uint64 `json:"mute_effects"`
	RampsUp     uint64 `json:"ramps_up"`
	RampsDown   uint64 `json:"ramps_down"`
	GPIOErrors  uint64 `json:"gpio_errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Driver      string `json:"driver"`
	PinAC       int    `json:"pin_ac"`
	PinMute     int    `json:"pin_mute"`
	PinLED      int    `json:"pin_led"`
	TickUs      int64  `json:"tick_us"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	ind := snap.Indicator
	phase := string(ind.Phase)
	if phase == "" {
		phase = "UNKNOWN"
	}

	return StatusInner{
		Phase:         phase,
		Brightness:    ind.Brightness,
		Target:        ind.Target,
		ACPresent:     ind.ACPresent,
		Muting:        ind.Muting,
		MuteTimer:     ind.MuteTimer,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Iterations:  ind.Counts.Iterations,
			ACDetected:  ind.Counts.ACDetected,
			ACLost:      ind.Counts.ACLost,
			MuteEffects: ind.Counts.MuteEffects,
			RampsUp:     ind.Counts.RampsUp,
			RampsDown:   ind.Counts.RampsDown,
			GPIOErrors:  snap.GPIOErrors,
		},
		Config: ConfigJSON{
			Driver:      snap.Config.Driver,
			PinAC:       snap.Config.PinAC,
			PinMute:     snap.Config.PinMute,
			PinLED:      snap.Config.PinLED,
			TickUs:      snap.Config.TickUs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
