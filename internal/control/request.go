package control

import (
	"encoding/json"
	"fmt"
)

// Request is the payload accepted at the invocation boundary:
//
//	{"T": 30, "RH": 70, "state_now": {"power": true, "setpoint": 30}}
type Request struct {
	T     float64
	RH    float64
	State DeviceState
}

type requestPayload struct {
	T     *float64     `json:"T"`
	RH    *float64     `json:"RH"`
	State *DeviceState `json:"state_now,omitempty"`
}

// ParseRequest decodes and validates a request payload. Missing or
// non-numeric T or RH yield an error wrapping ErrMalformedInput.
func ParseRequest(data []byte) (Request, error) {
	var r Request
	if err := r.UnmarshalJSON(data); err != nil {
		return Request{}, err
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler with the validation of ParseRequest.
func (r *Request) UnmarshalJSON(data []byte) error {
	var p requestPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if p.T == nil {
		return fmt.Errorf("%w: missing field \"T\"", ErrMalformedInput)
	}
	if p.RH == nil {
		return fmt.Errorf("%w: missing field \"RH\"", ErrMalformedInput)
	}
	r.T = *p.T
	r.RH = *p.RH
	r.State = DeviceState{}
	if p.State != nil {
		r.State = *p.State
	}
	return nil
}

// MarshalJSON writes the boundary form of r.
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestPayload{T: &r.T, RH: &r.RH, State: &r.State})
}

// Decide evaluates r with p.
func (r Request) Decide(p Params) Decision {
	return Decide(r.T, r.RH, r.State, p)
}
