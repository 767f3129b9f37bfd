package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aircon_control/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL = `INSERT INTO sensor_readings (sensor_id, temp_c, rh, recorded_at) VALUES (?, ?, ?, ?)`
	selectReadingCol = `SELECT id, sensor_id, temp_c, rh, recorded_at FROM sensor_readings`
	latestReadingSQL = selectReadingCol + ` ORDER BY recorded_at DESC, id DESC LIMIT 1`
)

// Append stores a reading and returns its row ID. A zero RecordedAt is
// stamped with the current time.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.SensorReading) (int64, error) {
	ts := rd.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.db.ExecContext(ctx, insertReadingSQL, rd.SensorID, rd.TempC, rd.RH, sqliteTime(ts))
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for reading: %w", err)
	}
	return id, nil
}

// Latest returns the most recent reading; ok is false when there is none.
func (r *ReadingSQLite) Latest(ctx context.Context) (models.SensorReading, bool, error) {
	var rd models.SensorReading
	err := r.db.QueryRowContext(ctx, latestReadingSQL).
		Scan(&rd.ID, &rd.SensorID, &rd.TempC, &rd.RH, &rd.RecordedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SensorReading{}, false, nil
		}
		return models.SensorReading{}, false, fmt.Errorf("select latest reading: %w", err)
	}
	rd.RecordedAt = rd.RecordedAt.UTC()
	return rd, true, nil
}

// List returns readings within [from, to], oldest first, capped at limit
// (the default when limit <= 0).
func (r *ReadingSQLite) List(ctx context.Context, from, to time.Time, limit int) ([]models.SensorReading, error) {
	var w where
	w.timeRange("recorded_at", from, to)

	q := selectReadingCol + w.sql() + " ORDER BY recorded_at ASC, id ASC LIMIT ?"
	args := append(w.args, clampLimit(limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select readings: %w", err)
	}
	defer rows.Close()

	var out []models.SensorReading
	for rows.Next() {
		var rd models.SensorReading
		if err := rows.Scan(&rd.ID, &rd.SensorID, &rd.TempC, &rd.RH, &rd.RecordedAt); err != nil {
			return nil, err
		}
		rd.RecordedAt = rd.RecordedAt.UTC()
		out = append(out, rd)
	}
	return out, rows.Err()
}
