package device

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/logger"

	"github.com/carlmjohnson/requests"
)

const mainComponent = "main"

// CapabilityCommand is one entry of a SmartThings commands request.
type CapabilityCommand struct {
	Component  string `json:"component"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
	Arguments  []any  `json:"arguments"`
}

type commandsRequest struct {
	Commands []CapabilityCommand `json:"commands"`
}

// SmartThings talks to a single device through the SmartThings REST API.
type SmartThings struct {
	baseURL  string
	token    string
	deviceID string
	client   *http.Client
	log      *logger.Logger
}

func NewSmartThings(baseURL, token, deviceID string, timeout time.Duration, log *logger.Logger) *SmartThings {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SmartThings{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		deviceID: deviceID,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

var _ Controller = (*SmartThings)(nil)

// Translate expands a command into SmartThings capability commands.
// The setpoint goes to the heating capability only in heat mode.
func Translate(cmd control.Command) []CapabilityCommand {
	sw := "off"
	if cmd.Switch == control.SwitchOn {
		sw = "on"
	}
	setpoint := CapabilityCommand{mainComponent, "thermostatCoolingSetpoint", "setCoolingSetpoint", []any{cmd.Setpoint}}
	if cmd.Mode == control.ModeHeat {
		setpoint = CapabilityCommand{mainComponent, "thermostatHeatingSetpoint", "setHeatingSetpoint", []any{cmd.Setpoint}}
	}
	return []CapabilityCommand{
		{mainComponent, "switch", sw, []any{}},
		setpoint,
		{mainComponent, "airConditionerMode", "setAirConditionerMode", []any{string(cmd.Mode)}},
		{mainComponent, "airConditionerFanMode", "setAirConditionerFanMode", []any{string(cmd.FanMode)}},
		{mainComponent, "supportedAcOptionalMode", "setSupportedAcOptionalMode", []any{cmd.OptionalMode}},
	}
}

// Apply posts the translated command to /devices/{id}/commands.
func (s *SmartThings) Apply(ctx context.Context, cmd control.Command) error {
	body := commandsRequest{Commands: Translate(cmd)}
	err := requests.URL(s.devicesURL("commands")).
		Client(s.client).
		Bearer(s.token).
		BodyJSON(&body).
		Post().
		Fetch(ctx)
	if err != nil {
		s.log.Errorw("smartthings command failed", "device", s.deviceID, "mode", cmd.Mode, "err", err)
		return fmt.Errorf("smartthings apply: %w", err)
	}
	s.log.Debugw("smartthings command sent", "device", s.deviceID, "setpoint", cmd.Setpoint, "mode", cmd.Mode, "fan", cmd.FanMode)
	return nil
}

type attribute struct {
	Value any `json:"value"`
}

type statusResponse struct {
	Components map[string]map[string]map[string]attribute `json:"components"`
}

// Status reads /devices/{id}/status and maps the main component.
func (s *SmartThings) Status(ctx context.Context) (control.DeviceState, error) {
	var resp statusResponse
	err := requests.URL(s.devicesURL("status")).
		Client(s.client).
		Bearer(s.token).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return control.DeviceState{}, fmt.Errorf("smartthings status: %w", err)
	}
	return resp.deviceState(), nil
}

func (s *SmartThings) devicesURL(action string) string {
	return fmt.Sprintf("%s/devices/%s/%s", s.baseURL, s.deviceID, action)
}

func (r statusResponse) deviceState() control.DeviceState {
	main := r.Components[mainComponent]
	lookup := func(capability, attr string) (any, bool) {
		a, ok := main[capability][attr]
		if !ok || a.Value == nil {
			return nil, false
		}
		return a.Value, true
	}

	var st control.DeviceState
	if v, ok := lookup("switch", "switch"); ok {
		on := v == "on"
		st.Power = &on
	}
	mode := ""
	if v, ok := lookup("airConditionerMode", "airConditionerMode"); ok {
		mode, _ = v.(string)
		st.Mode = control.Mode(mode)
	}
	spCap, spAttr := "thermostatCoolingSetpoint", "coolingSetpoint"
	if control.Mode(mode) == control.ModeHeat {
		spCap, spAttr = "thermostatHeatingSetpoint", "heatingSetpoint"
	}
	if v, ok := lookup(spCap, spAttr); ok {
		if f, ok := v.(float64); ok {
			st.Setpoint = &f
		}
	}
	if v, ok := lookup("airConditionerFanMode", "fanMode"); ok {
		fan, _ := v.(string)
		st.FanMode = control.FanMode(fan)
	}
	if v, ok := lookup("supportedAcOptionalMode", "acOptionalMode"); ok {
		st.OptionalMode, _ = v.(string)
	}
	return st
}
