// Package mqtt provides MQTT publishing with abstraction for testing.
// Publishing is telemetry only: nothing received over MQTT affects the LED.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/powerled/internal/logic"
)

// Topic is the MQTT topic for indicator events.
const Topic = "preamp/powerled/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "preamp/powerled/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an indicator event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Indicator IndicatorPayload `json:"indicator"`
}

// IndicatorPayload contains the indicator event details.
type IndicatorPayload struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	Phase      string `json:"phase"`
	Brightness int    `json:"brightness"`
	Target     int    `json:"target"`
	Muting     bool   `json:"muting"`
	Iteration  uint64 `json:"iteration"`
}

// FormatPayload creates the JSON payload for an indicator event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Indicator: IndicatorPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			Event:      string(event.Type),
			Phase:      string(event.Phase),
			Brightness: event.Brightness,
			Target:     event.Target,
			Muting:     event.Muting,
			Iteration:  event.Iteration,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NopPublisher discards everything. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(logic.Event) error       { return nil }
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }
func (NopPublisher) Close() error                    { return nil }
func (NopPublisher) IsConnected() bool               { return false }
