// Package control turns a temperature/humidity reading and the last known
// air-conditioner state into a device command.
//
// The discomfort index (DI) above the target is first removed by lowering
// the setpoint, bounded by MinSetpointC; whatever remains is converted into
// hours of dry mode. Decide keeps no state and is safe for concurrent use.
package control

import (
	"math"

	"aircon_control/internal/comfort"
)

// Decide returns Skip when DI is below p.StartDI, otherwise the command that
// brings DI back to p.TargetDI.
func Decide(t, rh float64, state DeviceState, p Params) Decision {
	diNow := comfort.DI(t, rh)
	if diNow < p.StartDI {
		return Skip(diNow)
	}

	deltaDI := diNow - p.TargetDI

	// temperature lever first
	dTUnit := comfort.DIPerDegree(rh)
	deltaTNeed := deltaDI / dTUnit
	deltaTMax := math.Max(0, t-p.MinSetpointC)
	deltaT := math.Min(deltaTNeed, deltaTMax)

	setpoint := int(math.RoundToEven(math.Max(p.MinSetpointC, state.SetpointOr(t)-deltaT)))

	// whatever the setpoint cannot cover goes to dehumidification; the
	// conversion keeps the product rounded on its own (no FMA)
	mode := ModeCool
	dryHours := 0
	remainDI := deltaDI - float64(deltaT*dTUnit)
	if remainDI > 0 {
		deltaRHNeed := remainDI / comfort.DIPerPercentRH(t)
		dryHours = int(math.Ceil(deltaRHNeed / p.DryRatePerHour))
		mode = ModeDry
	}

	duration := CoolBurstSeconds
	if dryHours > 0 {
		duration = dryHours * secondsPerHour
	}

	return Act(diNow, Command{
		Switch:       commandSwitch(state),
		Setpoint:     setpoint,
		Mode:         mode,
		FanMode:      fanFor(deltaT),
		OptionalMode: OptionalModeOff,
		Duration:     duration,
	})
}

// commandSwitch always turns the unit on, including when it was reported
// off. Whether a powered-off unit should yield SwitchOff is an open question
// with the device owners; do not change without their sign-off.
func commandSwitch(state DeviceState) int {
	if state.PowerOn() {
		return SwitchOn
	}
	return SwitchOn
}

// fanFor maps the applied setpoint drop to a fan speed.
func fanFor(deltaT float64) FanMode {
	switch {
	case deltaT >= 3:
		return FanMax
	case deltaT >= 2:
		return Fan4
	case deltaT >= 1:
		return Fan3
	default:
		return FanAuto
	}
}
