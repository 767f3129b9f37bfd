package service

import (
	"context"
	"sync"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/device"
	"aircon_control/internal/logger"
	"aircon_control/internal/metrics"
	"aircon_control/internal/models"
	"aircon_control/internal/repository"
)

// Authorization manages API users and bearer tokens.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// AutoControl runs the discomfort-index controller.
type AutoControl interface {
	Decide(req control.Request) control.Decision
	Run(ctx context.Context, r models.SensorReading) (control.Decision, error)
	StopAuto(ctx context.Context) error
}

// Aircon exposes manual control of the unit.
type Aircon interface {
	Apply(ctx context.Context, cmd control.Command) error
	PowerOff(ctx context.Context) error
}

// Monitoring exposes read-only device state and comfort figures.
type Monitoring interface {
	GetState(ctx context.Context) (models.AirconState, error)
	Comfort(ctx context.Context) (ComfortSnapshot, error)
}

// Readings exposes stored sensor readings.
type Readings interface {
	Latest(ctx context.Context) (models.SensorReading, bool, error)
	List(ctx context.Context, f ReadingFilter) ([]models.SensorReading, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ControlEvent, error)
}

// Session counts down the active auto-control command.
// Stop via context cancellation in main() for graceful shutdown.
type Session interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service bundles every service the handlers use.
type Service struct {
	AutoControl
	Aircon
	Monitoring
	Readings
	EventLog
	Session
	Authorization
}

// Config carries the settings services need from config.Config.
type Config struct {
	Params     control.Params
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires repositories and the device into concrete services.
// m and log may be nil.
func NewService(repos *repository.Repository, dev device.Controller, cfg Config, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	// serialises read-modify-write of the single aircon_state row
	stateMu := &sync.Mutex{}

	return &Service{
		AutoControl:   NewAutoControlService(repos.StateRepo, repos.EventRepo, repos.ReadingRepo, dev, cfg.Params, stateMu, m, log),
		Aircon:        NewAirconService(repos.StateRepo, repos.EventRepo, dev, stateMu, m),
		Monitoring:    NewMonitoringService(repos.StateRepo, repos.ReadingRepo),
		Readings:      NewReadingsService(repos.ReadingRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Session:       NewSessionService(repos.StateRepo, repos.EventRepo, stateMu, log),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey, cfg.TokenTTL),
	}
}
