package device

import (
	"context"

	"aircon_control/internal/control"
	"aircon_control/internal/logger"
)

// Offline stands in for a real device when none is configured. Commands are
// only logged so the rest of the pipeline keeps working.
type Offline struct {
	log *logger.Logger
}

func NewOffline(log *logger.Logger) *Offline { return &Offline{log: log} }

var _ Controller = (*Offline)(nil)

func (o *Offline) Apply(_ context.Context, cmd control.Command) error {
	o.log.Infow("offline device: command not sent",
		"switch", cmd.Switch, "setpoint", cmd.Setpoint, "mode", cmd.Mode,
		"fan", cmd.FanMode, "duration", cmd.Duration)
	return nil
}

func (o *Offline) Status(context.Context) (control.DeviceState, error) {
	return control.DeviceState{}, ErrNotConfigured
}
