package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aircon_control/internal/models"
)

func TestReadingsService_List_NormalisesBounds(t *testing.T) {
	t.Parallel()

	repo := &memReadingRepo{readings: []models.SensorReading{{ID: 1}}}
	svc := NewReadingsService(repo)

	from := time.Date(2025, 8, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))
	out, err := svc.List(context.Background(), ReadingFilter{From: from, Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(out))
	}
	if repo.gotFrom.Location() != time.UTC || !repo.gotFrom.Equal(from) {
		t.Fatalf("from not normalised: %v", repo.gotFrom)
	}
	if !repo.gotTo.IsZero() || repo.gotLimit != 50 {
		t.Fatalf("unexpected to/limit: %v %d", repo.gotTo, repo.gotLimit)
	}
}

func TestReadingsService_List_InvalidRange(t *testing.T) {
	t.Parallel()

	svc := NewReadingsService(&memReadingRepo{})
	_, err := svc.List(context.Background(), ReadingFilter{
		From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestReadingsService_Latest(t *testing.T) {
	t.Parallel()

	svc := NewReadingsService(&memReadingRepo{readings: []models.SensorReading{{ID: 4, TempC: 27}}})
	r, ok, err := svc.Latest(context.Background())
	if err != nil || !ok || r.ID != 4 {
		t.Fatalf("unexpected latest: %+v ok=%v err=%v", r, ok, err)
	}
}

func TestReadingsService_List_RejectsOversizedLimit(t *testing.T) {
	t.Parallel()

	repo := &memReadingRepo{}
	svc := NewReadingsService(repo)
	if _, err := svc.List(context.Background(), ReadingFilter{Limit: MaxListLimit + 1}); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}
