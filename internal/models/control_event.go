package models

import "time"

// Event types written to the control log.
const (
	EventAutoStart     = "AUTO_START"
	EventAutoSkip      = "AUTO_SKIP"
	EventAutoStop      = "AUTO_STOP"
	EventManualControl = "MANUAL_CONTROL"
	EventPowerOff      = "POWER_OFF"
	EventError         = "ERROR"
)

// IsEventType reports whether t is one of the Event* constants.
func IsEventType(t string) bool {
	switch t {
	case EventAutoStart, EventAutoSkip, EventAutoStop, EventManualControl, EventPowerOff, EventError:
		return true
	}
	return false
}

// ControlEvent is a single log entry.
type ControlEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // AUTO_START | AUTO_SKIP | AUTO_STOP | MANUAL_CONTROL | POWER_OFF | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
