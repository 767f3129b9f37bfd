// Package device dispatches control commands to the air conditioner.
package device

import (
	"context"
	"errors"

	"aircon_control/internal/control"
)

// ErrNotConfigured is returned by Offline when a live status is requested.
var ErrNotConfigured = errors.New("device: no smartthings token or device id configured")

// Controller is the device side of the auto-control loop.
type Controller interface {
	Apply(ctx context.Context, cmd control.Command) error
	Status(ctx context.Context) (control.DeviceState, error)
}
