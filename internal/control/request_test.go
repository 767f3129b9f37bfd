package control

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	cases := []struct {
		name      string
		payload   string
		wantErr   bool
		wantT     float64
		wantRH    float64
		wantPower bool
		wantSP    float64
	}{
		{
			name:      "full payload",
			payload:   `{"T":30,"RH":70,"state_now":{"power":false,"setpoint":27,"mode":"cool","fanMode":"auto","optionalMode":"off"}}`,
			wantT:     30,
			wantRH:    70,
			wantPower: false,
			wantSP:    27,
		},
		{
			name:      "state omitted",
			payload:   `{"T":28.5,"RH":55}`,
			wantT:     28.5,
			wantRH:    55,
			wantPower: true,
			wantSP:    28.5,
		},
		{
			name:      "state null",
			payload:   `{"T":26,"RH":60,"state_now":null}`,
			wantT:     26,
			wantRH:    60,
			wantPower: true,
			wantSP:    26,
		},
		{name: "missing T", payload: `{"RH":70}`, wantErr: true},
		{name: "missing RH", payload: `{"T":30}`, wantErr: true},
		{name: "string T", payload: `{"T":"hot","RH":70}`, wantErr: true},
		{name: "null RH", payload: `{"T":30,"RH":null}`, wantErr: true},
		{name: "not json", payload: `T=30`, wantErr: true},
		{name: "empty", payload: ``, wantErr: true},
		{name: "bad state", payload: `{"T":30,"RH":70,"state_now":{"power":"yes"}}`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseRequest([]byte(tc.payload))
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedInput), "error %v should wrap ErrMalformedInput", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantT, r.T)
			assert.Equal(t, tc.wantRH, r.RH)
			assert.Equal(t, tc.wantPower, r.State.PowerOn())
			assert.Equal(t, tc.wantSP, r.State.SetpointOr(r.T))
		})
	}
}

func TestRequest_DecideMatchesBoundaryExample(t *testing.T) {
	r, err := ParseRequest([]byte(`{"T":30,"RH":70,"state_now":{"power":true,"setpoint":30}}`))
	require.NoError(t, err)

	out, err := json.Marshal(r.Decide(DefaultParams()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"switch":1,"setpoint":22,"mode":"dry","fanMode":"max","optionalMode":"off","duration":14400}`, string(out))
}

func TestRequest_JSONRoundTripKeepsState(t *testing.T) {
	in := Request{T: 29, RH: 65, State: DeviceState{Power: boolPtr(false), Setpoint: floatPtr(24), Mode: ModeDry}}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Request
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestDecision_UnmarshalJSON(t *testing.T) {
	var d Decision
	require.NoError(t, json.Unmarshal([]byte(`"skip"`), &d))
	assert.True(t, d.Skipped())

	require.NoError(t, json.Unmarshal([]byte(`{"switch":1,"setpoint":24,"mode":"cool","fanMode":"3","optionalMode":"off","duration":900}`), &d))
	cmd, ok := d.Command()
	require.True(t, ok)
	assert.Equal(t, Command{Switch: 1, Setpoint: 24, Mode: ModeCool, FanMode: Fan3, OptionalMode: "off", Duration: 900}, cmd)

	assert.Error(t, json.Unmarshal([]byte(`"later"`), &d))
}

func TestModeAndFanValidity(t *testing.T) {
	assert.True(t, ModeDry.Valid())
	assert.False(t, Mode("turbo").Valid())
	assert.True(t, FanMax.Valid())
	assert.False(t, FanMode("5").Valid())
}
