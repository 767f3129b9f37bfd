package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/device"
	"aircon_control/internal/logger"
	"aircon_control/internal/metrics"
	"aircon_control/internal/models"
	"aircon_control/internal/repository"
)

// AutoControlService runs the discomfort-index controller against the device.
type AutoControlService struct {
	stateRepo   repository.StateRepo
	eventRepo   repository.EventRepo
	readingRepo repository.ReadingRepo
	dev         device.Controller
	params      control.Params
	stateMu     *sync.Mutex
	metrics     *metrics.Metrics
	log         *logger.Logger
}

// NewAutoControlService builds the controller; stateMu, m and log may be nil.
func NewAutoControlService(
	stateRepo repository.StateRepo,
	eventRepo repository.EventRepo,
	readingRepo repository.ReadingRepo,
	dev device.Controller,
	params control.Params,
	stateMu *sync.Mutex,
	m *metrics.Metrics,
	log *logger.Logger,
) *AutoControlService {
	if stateMu == nil {
		stateMu = &sync.Mutex{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AutoControlService{
		stateRepo:   stateRepo,
		eventRepo:   eventRepo,
		readingRepo: readingRepo,
		dev:         dev,
		params:      params,
		stateMu:     stateMu,
		metrics:     m,
		log:         log,
	}
}

// Decide is the side-effect free decision with the configured parameters.
func (s *AutoControlService) Decide(req control.Request) control.Decision {
	return req.Decide(s.params)
}

func validateReading(r models.SensorReading) error {
	if math.IsNaN(r.TempC) || math.IsInf(r.TempC, 0) {
		return fmt.Errorf("%w: temp_c must be a finite number", ErrInvalidReading)
	}
	if math.IsNaN(r.RH) || r.RH < 0 || r.RH > 100 {
		return fmt.Errorf("%w: rh must be within [0, 100]", ErrInvalidReading)
	}
	return nil
}

// Run stores the reading and runs one control cycle: skip is only logged,
// a command is dispatched and restarts the auto session.
func (s *AutoControlService) Run(ctx context.Context, r models.SensorReading) (control.Decision, error) {
	if err := validateReading(r); err != nil {
		return control.Decision{}, err
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now().UTC()
	}
	if _, err := s.readingRepo.Append(ctx, r); err != nil {
		return control.Decision{}, fmt.Errorf("store reading: %w", err)
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return control.Decision{}, err
	}

	d := control.Decide(r.TempC, r.RH, s.deviceState(ctx, st), s.params)
	s.metrics.ObserveDecision(d.Outcome(), d.DI)
	now := time.Now().UTC()

	cmd, act := d.Command()
	if !act {
		err := s.eventRepo.Append(ctx, models.ControlEvent{
			OccurredAt:  now,
			Type:        models.EventAutoSkip,
			Description: fmt.Sprintf("DI %.1f below start threshold %.1f", d.DI, s.params.StartDI),
			Metadata:    readingMeta(r, d.DI),
		})
		return d, err
	}

	if err := s.dev.Apply(ctx, cmd); err != nil {
		s.metrics.DispatchFailed()
		s.log.Errorw("auto_control_dispatch_failed", "mode", cmd.Mode, "setpoint", cmd.Setpoint, "err", err)
		_ = s.eventRepo.Append(ctx, models.ControlEvent{
			OccurredAt:  now,
			Type:        models.EventError,
			Description: "Auto-control command was not delivered",
			Metadata:    map[string]any{"error": err.Error(), "mode": cmd.Mode},
		})
		return d, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	st.ID = 1
	st.Apply(cmd)
	st.AutoActive = true
	st.RemainingSeconds = cmd.Duration
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return d, err
	}

	meta := readingMeta(r, d.DI)
	meta["command"] = cmd
	s.log.Infow("auto_control_started", "di", d.DI, "mode", cmd.Mode, "setpoint", cmd.Setpoint, "duration", cmd.Duration)
	return d, s.eventRepo.Append(ctx, models.ControlEvent{
		OccurredAt:  now,
		Type:        models.EventAutoStart,
		Description: fmt.Sprintf("Auto %s at %d°C for %ds", cmd.Mode, cmd.Setpoint, cmd.Duration),
		Metadata:    meta,
	})
}

// deviceState prefers the live device status and falls back to the
// persisted snapshot.
func (s *AutoControlService) deviceState(ctx context.Context, st models.AirconState) control.DeviceState {
	live, err := s.dev.Status(ctx)
	if err == nil {
		return live
	}
	s.log.Debugw("device status unavailable, using stored state", "err", err)
	return st.DeviceState()
}

// StopAuto ends an active auto session. The unit keeps running its last
// command. Stopping an inactive session is a no-op.
func (s *AutoControlService) StopAuto(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if st.ID == 0 || !st.AutoActive {
		return nil
	}
	now := time.Now().UTC()
	remaining := st.RemainingSeconds
	st.AutoActive = false
	st.RemainingSeconds = 0
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return err
	}
	return s.eventRepo.Append(ctx, models.ControlEvent{
		OccurredAt:  now,
		Type:        models.EventAutoStop,
		Description: "Auto control stopped",
		Metadata:    map[string]any{"remaining_seconds": remaining},
	})
}

func readingMeta(r models.SensorReading, di float64) map[string]any {
	return map[string]any{
		"sensor_id": r.SensorID,
		"temp_c":    r.TempC,
		"rh":        r.RH,
		"di":        math.Round(di*100) / 100,
	}
}
