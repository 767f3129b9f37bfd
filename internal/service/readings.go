package service

import (
	"context"

	"aircon_control/internal/models"
	"aircon_control/internal/repository"
)

// ReadingsService reads stored sensor readings.
type ReadingsService struct {
	readingRepo repository.ReadingRepo
}

// NewReadingsService builds the readings reader.
func NewReadingsService(readingRepo repository.ReadingRepo) *ReadingsService {
	return &ReadingsService{readingRepo: readingRepo}
}

func (s *ReadingsService) Latest(ctx context.Context) (models.SensorReading, bool, error) {
	return s.readingRepo.Latest(ctx)
}

// List returns readings oldest first. Filter errors wrap ErrInvalidFilter.
func (s *ReadingsService) List(ctx context.Context, f ReadingFilter) ([]models.SensorReading, error) {
	f, err := f.normalize()
	if err != nil {
		return nil, err
	}
	return s.readingRepo.List(ctx, f.From, f.To, f.Limit)
}
