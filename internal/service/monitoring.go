package service

import (
	"context"
	"time"

	"aircon_control/internal/comfort"
	"aircon_control/internal/control"
	"aircon_control/internal/models"
	"aircon_control/internal/repository"
)

const defaultSetpointC = 24.0

// ComfortSnapshot is the comfort report for a stored reading.
type ComfortSnapshot struct {
	Reading models.SensorReading `json:"reading"`
	Report  comfort.Report       `json:"report"`
}

// MonitoringService reads device state and comfort figures.
type MonitoringService struct {
	stateRepo   repository.StateRepo
	readingRepo repository.ReadingRepo
}

// NewMonitoringService builds the read-only monitoring service.
func NewMonitoringService(stateRepo repository.StateRepo, readingRepo repository.ReadingRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, readingRepo: readingRepo}
}

// GetState returns the latest persisted aircon state.
// If no state is persisted yet, returns a baseline powered-off snapshot.
func (s *MonitoringService) GetState(ctx context.Context) (models.AirconState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.AirconState{}, err
	}
	if state.ID == 0 {
		return baselineState(time.Now().UTC()), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

// Comfort assesses the most recent reading.
func (s *MonitoringService) Comfort(ctx context.Context) (ComfortSnapshot, error) {
	r, ok, err := s.readingRepo.Latest(ctx)
	if err != nil {
		return ComfortSnapshot{}, err
	}
	if !ok {
		return ComfortSnapshot{}, ErrNoReadings
	}
	return ComfortSnapshot{Reading: r, Report: comfort.Assess(r.TempC, r.RH)}, nil
}

// baselineState is the snapshot reported before anything was persisted.
func baselineState(now time.Time) models.AirconState {
	return models.AirconState{
		ID:           1, // DB schema enforces single-row state with id=1
		Power:        false,
		SetpointC:    defaultSetpointC,
		Mode:         control.ModeCool,
		FanMode:      control.FanAuto,
		OptionalMode: control.OptionalModeOff,
		UpdatedAt:    now,
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
