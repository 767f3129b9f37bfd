package control

import (
	"bytes"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"aircon_control/internal/comfort"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestDecide_HotHumidRoomGoesDry(t *testing.T) {
	state := DeviceState{Power: boolPtr(true), Setpoint: floatPtr(30)}

	d := Decide(30, 70, state, DefaultParams())

	cmd, ok := d.Command()
	require.True(t, ok, "expected a command")
	assert.Equal(t, Command{
		Switch:       1,
		Setpoint:     22,
		Mode:         ModeDry,
		FanMode:      FanMax,
		OptionalMode: "off",
		Duration:     14400,
	}, cmd)
	assert.InDelta(t, 81.38, d.DI, 1e-9)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t,
		`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":14400}`,
		string(out))
}

func TestDecide_CautionBandSkips(t *testing.T) {
	state := DeviceState{Power: boolPtr(false), Setpoint: floatPtr(25)}

	d := Decide(25, 40, state, DefaultParams())

	assert.True(t, d.Skipped())
	_, ok := d.Command()
	assert.False(t, ok)
	assert.Equal(t, "skip", d.Outcome())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"skip"`, string(out))
}

func TestDecide_ThresholdBoundary(t *testing.T) {
	p := DefaultParams()
	for temp := 15.0; temp <= 40; temp += 0.25 {
		for rh := 0.0; rh <= 100; rh += 2.5 {
			d := Decide(temp, rh, DeviceState{}, p)
			if comfort.DI(temp, rh) < p.StartDI {
				require.Truef(t, d.Skipped(), "T=%.2f RH=%.1f should skip", temp, rh)
			} else {
				require.Falsef(t, d.Skipped(), "T=%.2f RH=%.1f should act", temp, rh)
			}
		}
	}
}

func TestDecide_SetpointNeverBelowFloor(t *testing.T) {
	p := DefaultParams()
	for temp := 20.0; temp <= 45; temp += 0.5 {
		for rh := 0.0; rh <= 100; rh += 5 {
			for _, sp := range []float64{16, 18, 22, 26, 30} {
				d := Decide(temp, rh, DeviceState{Setpoint: floatPtr(sp)}, p)
				if cmd, ok := d.Command(); ok {
					require.GreaterOrEqualf(t, cmd.Setpoint, 22, "T=%.1f RH=%.0f sp=%.0f", temp, rh, sp)
				}
			}
		}
	}
}

func TestDecide_ModeAndDuration(t *testing.T) {
	p := DefaultParams()
	for temp := 24.0; temp <= 40; temp += 0.5 {
		for rh := 30.0; rh <= 100; rh += 5 {
			d := Decide(temp, rh, DeviceState{}, p)
			cmd, ok := d.Command()
			if !ok {
				continue
			}

			deltaDI := comfort.DI(temp, rh) - p.TargetDI
			dTUnit := comfort.DIPerDegree(rh)
			deltaT := math.Min(deltaDI/dTUnit, math.Max(0, temp-p.MinSetpointC))
			remain := deltaDI - float64(deltaT*dTUnit)

			if remain <= 0 {
				require.Equalf(t, ModeCool, cmd.Mode, "T=%.1f RH=%.0f", temp, rh)
				require.Equal(t, CoolBurstSeconds, cmd.Duration)
			} else {
				hours := math.Ceil(remain / comfort.DIPerPercentRH(temp) / p.DryRatePerHour)
				require.Equalf(t, ModeDry, cmd.Mode, "T=%.1f RH=%.0f", temp, rh)
				require.Equal(t, int(hours)*3600, cmd.Duration)
			}
		}
	}
}

// Expected commands below were produced by the reference auto-control
// script for the same inputs (state_now omitted unless noted).
func TestDecide_MatchesReferenceOutputs(t *testing.T) {
	cases := []struct {
		name  string
		temp  float64
		rh    float64
		state DeviceState
		want  string
	}{
		{"hot humid", 30, 70, DeviceState{Power: boolPtr(true), Setpoint: floatPtr(30)},
			`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":14400}`},
		{"caution band", 25, 40, DeviceState{Power: boolPtr(false), Setpoint: floatPtr(25)}, `"skip"`},
		// uncapped drop whose remainder is rounding noise above zero
		{"noise remainder 26.41/38", 26.41, 38, DeviceState{Power: boolPtr(true), Setpoint: floatPtr(26.41)},
			`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":3600}`},
		{"noise remainder 27/32", 27, 32, DeviceState{},
			`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":3600}`},
		{"noise remainder 28/34", 28, 34, DeviceState{},
			`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":3600}`},
		{"capped 27/45", 27, 45, DeviceState{},
			`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":3600}`},
		// remainder exactly zero or below zero stays in cool
		{"zero remainder 26.5/36", 26.5, 36, DeviceState{},
			`{"switch":1,"setpoint":22,"mode":"cool","fanMode":"max","optionalMode":"off","duration":900}`},
		{"negative remainder 30.5/25", 30.5, 25, DeviceState{},
			`{"switch":1,"setpoint":23,"mode":"cool","fanMode":"max","optionalMode":"off","duration":900}`},
		{"negative remainder 31/33", 31, 33, DeviceState{},
			`{"switch":1,"setpoint":22,"mode":"cool","fanMode":"max","optionalMode":"off","duration":900}`},
		{"dry 28/80", 28, 80, DeviceState{},
			`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":18000}`},
		{"dry with low setpoint", 31, 65, DeviceState{Setpoint: floatPtr(28)},
			`{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":10800}`},
		{"cool 35/30", 35, 30, DeviceState{},
			`{"switch":1,"setpoint":23,"mode":"cool","fanMode":"max","optionalMode":"off","duration":900}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := json.Marshal(Decide(tc.temp, tc.rh, tc.state, DefaultParams()))
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(out))
		})
	}
}

func TestDecide_CoolOnlyWhenRoomHasHeadroom(t *testing.T) {
	// DI(32, 20) = 75.696; 8.696 / 1.008 ≈ 8.63 °C fits within 32-22.
	d := Decide(32, 20, DeviceState{}, DefaultParams())

	cmd, ok := d.Command()
	require.True(t, ok)
	assert.Equal(t, ModeCool, cmd.Mode)
	assert.Equal(t, 900, cmd.Duration)
	assert.Equal(t, FanMax, cmd.FanMode)
	assert.Equal(t, 23, cmd.Setpoint)
}

func TestDecide_SetpointDefaultsToTemperature(t *testing.T) {
	withState := Decide(30, 70, DeviceState{Setpoint: floatPtr(30)}, DefaultParams())
	withoutState := Decide(30, 70, DeviceState{}, DefaultParams())
	assert.Equal(t, withState, withoutState)
}

func TestDecide_SwitchIsAlwaysOn(t *testing.T) {
	for _, power := range []*bool{nil, boolPtr(true), boolPtr(false)} {
		cmd, ok := Decide(30, 70, DeviceState{Power: power}, DefaultParams()).Command()
		require.True(t, ok)
		assert.Equal(t, SwitchOn, cmd.Switch)
	}
}

func TestFanFor(t *testing.T) {
	cases := []struct {
		deltaT float64
		want   FanMode
	}{
		{0, FanAuto},
		{0.99, FanAuto},
		{1, Fan3},
		{1.99, Fan3},
		{2, Fan4},
		{2.99, Fan4},
		{3, FanMax},
		{8, FanMax},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, fanFor(tc.deltaT), "deltaT=%v", tc.deltaT)
	}
}

func TestDecide_RoundsHalfToEven(t *testing.T) {
	// With the setpoint well above the room, deltaT is capped at T-MinSetpoint
	// and the new setpoint is sp - (T - 22).
	p := DefaultParams()
	cases := []struct {
		temp, sp float64
		want     int
	}{
		{30, 32.5, 24}, // 24.5 -> 24
		{30, 33.5, 26}, // 25.5 -> 26
	}
	for _, tc := range cases {
		cmd, ok := Decide(tc.temp, 70, DeviceState{Setpoint: floatPtr(tc.sp)}, p).Command()
		require.True(t, ok)
		assert.Equal(t, tc.want, cmd.Setpoint)
	}
}

func TestDecide_ColdRoomUsesEpsilonSensitivity(t *testing.T) {
	// Lowering the trigger below the cold-room DI forces the dry branch with
	// a floored RH sensitivity; the result must stay finite.
	p := Params{TargetDI: 40, StartDI: 41, MinSetpointC: 22, DryRatePerHour: 5}
	cmd, ok := Decide(10, 50, DeviceState{}, p).Command()
	require.True(t, ok)
	assert.Equal(t, ModeDry, cmd.Mode)
	assert.Equal(t, 22, cmd.Setpoint)
	assert.Equal(t, FanAuto, cmd.FanMode)
	assert.Positive(t, cmd.Duration)
}

func TestDecide_CustomParams(t *testing.T) {
	p := DefaultParams()
	p.StartDI = 70
	assert.False(t, Decide(25, 40, DeviceState{}, p).Skipped())

	p = DefaultParams()
	p.MinSetpointC = 26
	cmd, ok := Decide(30, 70, DeviceState{}, p).Command()
	require.True(t, ok)
	assert.Equal(t, 26, cmd.Setpoint)
	assert.Equal(t, ModeDry, cmd.Mode)
}

func TestDecide_IsPure(t *testing.T) {
	state := DeviceState{Power: boolPtr(true), Setpoint: floatPtr(28), Mode: ModeWind, FanMode: Fan1}
	before := state

	first, err := json.Marshal(Decide(31, 65, state, DefaultParams()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	outs := make([][]byte, 16)
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], _ = json.Marshal(Decide(31, 65, state, DefaultParams()))
		}(i)
	}
	wg.Wait()

	for _, out := range outs {
		assert.True(t, bytes.Equal(first, out))
	}
	assert.Equal(t, before, state)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.DryRatePerHour = 0
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.TargetDI = math.NaN()
	assert.Error(t, p.Validate())
}
