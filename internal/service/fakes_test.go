package service

import (
	"context"
	"sync"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/models"
)

// memStateRepo keeps the single state row in memory.
type memStateRepo struct {
	mu      sync.Mutex
	state   models.AirconState
	loadErr error
	saveErr error
	saves   []models.AirconState
}

func (r *memStateRepo) Load(context.Context) (models.AirconState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.loadErr
}

func (r *memStateRepo) Save(_ context.Context, st models.AirconState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.state = st
	r.saves = append(r.saves, st)
	return nil
}

// memEventRepo records appended events.
type memEventRepo struct {
	mu     sync.Mutex
	events []models.ControlEvent
}

func (r *memEventRepo) Append(_ context.Context, e models.ControlEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(context.Context, time.Time, time.Time, string, int) ([]models.ControlEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ControlEvent(nil), r.events...), nil
}

func (r *memEventRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// memReadingRepo stores readings in insertion order.
type memReadingRepo struct {
	readings  []models.SensorReading
	appendErr error
	latestErr error

	gotFrom, gotTo time.Time
	gotLimit       int
}

func (r *memReadingRepo) Append(_ context.Context, rd models.SensorReading) (int64, error) {
	if r.appendErr != nil {
		return 0, r.appendErr
	}
	rd.ID = int64(len(r.readings) + 1)
	r.readings = append(r.readings, rd)
	return rd.ID, nil
}

func (r *memReadingRepo) Latest(context.Context) (models.SensorReading, bool, error) {
	if r.latestErr != nil {
		return models.SensorReading{}, false, r.latestErr
	}
	if len(r.readings) == 0 {
		return models.SensorReading{}, false, nil
	}
	return r.readings[len(r.readings)-1], true, nil
}

func (r *memReadingRepo) List(_ context.Context, from, to time.Time, limit int) ([]models.SensorReading, error) {
	r.gotFrom, r.gotTo, r.gotLimit = from, to, limit
	return r.readings, nil
}

// fakeDevice records commands; status comes from status/statusErr.
type fakeDevice struct {
	applied   []control.Command
	applyErr  error
	status    control.DeviceState
	statusErr error
}

func (d *fakeDevice) Apply(_ context.Context, cmd control.Command) error {
	if d.applyErr != nil {
		return d.applyErr
	}
	d.applied = append(d.applied, cmd)
	return nil
}

func (d *fakeDevice) Status(context.Context) (control.DeviceState, error) {
	return d.status, d.statusErr
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
