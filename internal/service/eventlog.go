package service

import (
	"context"

	"aircon_control/internal/models"
	"aircon_control/internal/repository"
)

// EventLogService reads the control log.
type EventLogService struct {
	eventRepo repository.EventRepo
}

// NewEventLogService builds the control log reader.
func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns matching events oldest first. Filter errors wrap ErrInvalidFilter.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ControlEvent, error) {
	f, err := f.normalize()
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, f.From, f.To, f.Type, f.Limit)
}
