package models

import (
	"time"

	"aircon_control/internal/control"
)

// AirconState is the last known state of the controlled unit plus the
// auto-control session bookkeeping.
type AirconState struct {
	ID               int             `json:"id"`
	Power            bool            `json:"power"`
	SetpointC        float64         `json:"setpoint_c"`
	Mode             control.Mode    `json:"mode"`
	FanMode          control.FanMode `json:"fan_mode"`
	OptionalMode     string          `json:"optional_mode"`
	AutoActive       bool            `json:"auto_active"`
	RemainingSeconds int             `json:"remaining_seconds,omitempty"` // auto session countdown
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DeviceState converts a persisted snapshot into decision input. A never
// persisted snapshot (ID 0) reports nothing so Decide falls back to its
// defaults.
func (s AirconState) DeviceState() control.DeviceState {
	if s.ID == 0 {
		return control.DeviceState{}
	}
	power := s.Power
	setpoint := s.SetpointC
	return control.DeviceState{
		Power:        &power,
		Setpoint:     &setpoint,
		Mode:         s.Mode,
		FanMode:      s.FanMode,
		OptionalMode: s.OptionalMode,
	}
}

// Apply copies a dispatched command onto the snapshot.
func (s *AirconState) Apply(cmd control.Command) {
	s.Power = cmd.Switch == control.SwitchOn
	s.SetpointC = float64(cmd.Setpoint)
	s.Mode = cmd.Mode
	s.FanMode = cmd.FanMode
	s.OptionalMode = cmd.OptionalMode
}
