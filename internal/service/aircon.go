package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/device"
	"aircon_control/internal/metrics"
	"aircon_control/internal/models"
	"aircon_control/internal/repository"
)

// AirconService applies manual commands and power-off.
type AirconService struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	dev       device.Controller
	stateMu   *sync.Mutex
	metrics   *metrics.Metrics
}

// NewAirconService builds the manual-control service; stateMu and m may be nil.
func NewAirconService(stateRepo repository.StateRepo, eventRepo repository.EventRepo, dev device.Controller, stateMu *sync.Mutex, m *metrics.Metrics) *AirconService {
	if stateMu == nil {
		stateMu = &sync.Mutex{}
	}
	return &AirconService{stateRepo: stateRepo, eventRepo: eventRepo, dev: dev, stateMu: stateMu, metrics: m}
}

func validateCommand(cmd control.Command) error {
	switch {
	case cmd.Switch != control.SwitchOff && cmd.Switch != control.SwitchOn:
		return fmt.Errorf("%w: switch must be 0 or 1", ErrInvalidCommand)
	case !cmd.Mode.Valid():
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidCommand, cmd.Mode)
	case !cmd.FanMode.Valid():
		return fmt.Errorf("%w: unknown fan mode %q", ErrInvalidCommand, cmd.FanMode)
	case cmd.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidCommand)
	}
	return nil
}

// Apply sends a manual command. Manual control ends any active auto session.
func (s *AirconService) Apply(ctx context.Context, cmd control.Command) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	if cmd.OptionalMode == "" {
		cmd.OptionalMode = control.OptionalModeOff
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.dispatch(ctx, cmd); err != nil {
		return err
	}

	now := time.Now().UTC()
	endedAuto := st.AutoActive
	st.ID = 1
	st.Apply(cmd)
	st.AutoActive = false
	st.RemainingSeconds = 0
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return err
	}

	return s.eventRepo.Append(ctx, models.ControlEvent{
		OccurredAt:  now,
		Type:        models.EventManualControl,
		Description: fmt.Sprintf("Manual %s at %d°C, fan %s", cmd.Mode, cmd.Setpoint, cmd.FanMode),
		Metadata: map[string]any{
			"command":    cmd,
			"ended_auto": endedAuto,
		},
	})
}

// PowerOff switches the unit off, keeping the other settings as last known.
func (s *AirconService) PowerOff(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if st.ID == 0 {
		st = baselineState(time.Now().UTC())
	}

	cmd := control.Command{
		Switch:       control.SwitchOff,
		Setpoint:     int(math.RoundToEven(st.SetpointC)),
		Mode:         st.Mode,
		FanMode:      st.FanMode,
		OptionalMode: st.OptionalMode,
	}
	if err := s.dispatch(ctx, cmd); err != nil {
		return err
	}

	now := time.Now().UTC()
	st.Power = false
	st.AutoActive = false
	st.RemainingSeconds = 0
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return err
	}
	return s.eventRepo.Append(ctx, models.ControlEvent{
		OccurredAt:  now,
		Type:        models.EventPowerOff,
		Description: "Air conditioner switched off",
	})
}

func (s *AirconService) dispatch(ctx context.Context, cmd control.Command) error {
	if err := s.dev.Apply(ctx, cmd); err != nil {
		s.metrics.DispatchFailed()
		_ = s.eventRepo.Append(ctx, models.ControlEvent{
			OccurredAt:  time.Now().UTC(),
			Type:        models.EventError,
			Description: "Manual command was not delivered",
			Metadata:    map[string]any{"error": err.Error(), "switch": cmd.Switch},
		})
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return nil
}
