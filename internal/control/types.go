package control

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mode is an air-conditioner operating mode.
type Mode string

const (
	ModeCool Mode = "cool"
	ModeDry  Mode = "dry"
	ModeWind Mode = "wind"
	ModeAuto Mode = "auto"
	ModeHeat Mode = "heat"
)

// Valid reports whether m is a mode the device API accepts.
func (m Mode) Valid() bool {
	switch m {
	case ModeCool, ModeDry, ModeWind, ModeAuto, ModeHeat:
		return true
	}
	return false
}

// FanMode is a discrete fan speed.
type FanMode string

const (
	FanAuto FanMode = "auto"
	Fan1    FanMode = "1"
	Fan2    FanMode = "2"
	Fan3    FanMode = "3"
	Fan4    FanMode = "4"
	FanMax  FanMode = "max"
)

// Valid reports whether f is a fan speed the device API accepts.
func (f FanMode) Valid() bool {
	switch f {
	case FanAuto, Fan1, Fan2, Fan3, Fan4, FanMax:
		return true
	}
	return false
}

// Switch values of a Command.
const (
	SwitchOff = 0
	SwitchOn  = 1
)

// OptionalModeOff is the only optional mode the auto controller emits.
const OptionalModeOff = "off"

// DeviceState is the last known state of the air conditioner. It is read,
// never modified, by Decide.
type DeviceState struct {
	Power        *bool    `json:"power,omitempty"`
	Setpoint     *float64 `json:"setpoint,omitempty"`
	Mode         Mode     `json:"mode,omitempty"`
	FanMode      FanMode  `json:"fanMode,omitempty"`
	OptionalMode string   `json:"optionalMode,omitempty"`
}

// PowerOn returns the reported power flag; an unreported flag counts as on.
func (s DeviceState) PowerOn() bool {
	if s.Power == nil {
		return true
	}
	return *s.Power
}

// SetpointOr returns the reported setpoint, or fallback when none was reported.
func (s DeviceState) SetpointOr(fallback float64) float64 {
	if s.Setpoint == nil {
		return fallback
	}
	return *s.Setpoint
}

// Command is the payload forwarded verbatim to the device-control API.
// Field order is part of the wire contract.
type Command struct {
	Switch       int     `json:"switch"`
	Setpoint     int     `json:"setpoint"`
	Mode         Mode    `json:"mode"`
	FanMode      FanMode `json:"fanMode"`
	OptionalMode string  `json:"optionalMode"`
	Duration     int     `json:"duration"`
}

// skipMarker is the wire form of a no-action Decision.
const skipMarker = "skip"

// Decision is either Skip (no intervention) or a Command. The zero value is
// a Skip.
type Decision struct {
	// DI is the discomfort index the decision was taken on.
	DI  float64
	cmd *Command
}

// Skip returns a no-action decision.
func Skip(di float64) Decision {
	return Decision{DI: di}
}

// Act returns a decision carrying cmd.
func Act(di float64, cmd Command) Decision {
	return Decision{DI: di, cmd: &cmd}
}

// Skipped reports whether no intervention is warranted.
func (d Decision) Skipped() bool { return d.cmd == nil }

// Command returns the command and true, or a zero Command and false for a Skip.
func (d Decision) Command() (Command, bool) {
	if d.cmd == nil {
		return Command{}, false
	}
	return *d.cmd, true
}

// Outcome names the decision for logs and metrics: "skip" or the command mode.
func (d Decision) Outcome() string {
	if d.cmd == nil {
		return skipMarker
	}
	return string(d.cmd.Mode)
}

// MarshalJSON encodes a Skip as the string "skip" and an action as its Command.
func (d Decision) MarshalJSON() ([]byte, error) {
	if d.cmd == nil {
		return json.Marshal(skipMarker)
	}
	return json.Marshal(d.cmd)
}

// UnmarshalJSON accepts either form produced by MarshalJSON. DI is not
// carried on the wire and is left zero.
func (d *Decision) UnmarshalJSON(data []byte) error {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		if marker != skipMarker {
			return fmt.Errorf("unknown decision marker %q", marker)
		}
		*d = Decision{}
		return nil
	}
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	*d = Decision{cmd: &cmd}
	return nil
}

// ErrMalformedInput marks a request payload that cannot be evaluated.
var ErrMalformedInput = errors.New("malformed input")
