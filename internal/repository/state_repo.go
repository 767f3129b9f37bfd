package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	airconStateRowID = 1

	upsertStateSQL = `
		INSERT INTO aircon_state (id, power, setpoint_c, mode, fan_mode, optional_mode, auto_active, remaining_s, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			power=excluded.power,
			setpoint_c=excluded.setpoint_c,
			mode=excluded.mode,
			fan_mode=excluded.fan_mode,
			optional_mode=excluded.optional_mode,
			auto_active=excluded.auto_active,
			remaining_s=excluded.remaining_s,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, power, setpoint_c, mode, fan_mode, optional_mode, auto_active, remaining_s, updated_at
		FROM aircon_state WHERE id=?
	`
)

// Save upserts the aircon_state row (id always 1). A zero UpdatedAt is
// stamped with the current time; timestamps are stored in UTC.
func (r *StateSQLite) Save(ctx context.Context, state models.AirconState) error {
	ts := state.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		airconStateRowID,
		state.Power,
		state.SetpointC,
		string(state.Mode),
		string(state.FanMode),
		state.OptionalMode,
		state.AutoActive,
		state.RemainingSeconds,
		ts,
	)
	return err
}

// Load returns the single aircon_state row, or a zero state (ID 0) when
// nothing has been saved yet.
func (r *StateSQLite) Load(ctx context.Context) (models.AirconState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, airconStateRowID)

	var (
		s       models.AirconState
		mode    string
		fanMode string
	)
	if err := row.Scan(
		&s.ID,
		&s.Power,
		&s.SetpointC,
		&mode,
		&fanMode,
		&s.OptionalMode,
		&s.AutoActive,
		&s.RemainingSeconds,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AirconState{}, nil
		}
		return models.AirconState{}, err
	}
	s.Mode = control.Mode(mode)
	s.FanMode = control.FanMode(fanMode)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
