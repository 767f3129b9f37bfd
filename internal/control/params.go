package control

import (
	"errors"
	"math"
)

// Default tuning. StartDI and TargetDI are separate knobs even though the
// defaults leave a 5-point caution band between them.
const (
	DefaultTargetDI       = 67.0 // upper bound of the comfortable range
	DefaultStartDI        = 72.0 // intervene from "uncomfortable" upward
	DefaultMinSetpointC   = 22.0 // lowest setpoint ever commanded
	DefaultDryRatePerHour = 5.0  // %RH removed per hour of dry mode
)

// CoolBurstSeconds is the duration of a cooling-only command.
const CoolBurstSeconds = 900

const secondsPerHour = 3600

// Params holds the thresholds Decide works with.
type Params struct {
	TargetDI       float64
	StartDI        float64
	MinSetpointC   float64
	DryRatePerHour float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		TargetDI:       DefaultTargetDI,
		StartDI:        DefaultStartDI,
		MinSetpointC:   DefaultMinSetpointC,
		DryRatePerHour: DefaultDryRatePerHour,
	}
}

var (
	errNonFiniteParam = errors.New("control params must be finite")
	errDryRate        = errors.New("dry rate must be > 0 %RH per hour")
)

// Validate rejects tunings Decide cannot work with.
func (p Params) Validate() error {
	for _, v := range []float64{p.TargetDI, p.StartDI, p.MinSetpointC, p.DryRatePerHour} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNonFiniteParam
		}
	}
	if p.DryRatePerHour <= 0 {
		return errDryRate
	}
	return nil
}
