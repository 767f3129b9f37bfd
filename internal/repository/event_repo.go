package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aircon_control/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const (
	insertEventSQL = `INSERT INTO control_events (id, occurred_at, type, message, meta) VALUES (?, ?, ?, ?, ?)`
	selectEventCol = `SELECT id, occurred_at, type, message, meta FROM control_events`
)

// Append inserts an event, filling EventID and OccurredAt when empty. Type
// is stored trimmed and upper-cased; unencodable metadata is dropped.
func (r *EventSQLite) Append(ctx context.Context, e models.ControlEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	var meta sql.NullString
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			meta = sql.NullString{String: string(b), Valid: true}
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		sqliteTime(e.OccurredAt),
		normalizeType(e.Type),
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.EventID, err)
	}
	return nil
}

// List returns events within [from, to] (zero bounds are open), of type typ
// when non-empty, oldest first and at most limit of them.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.ControlEvent, error) {
	var w where
	w.timeRange("occurred_at", from, to)
	if typ = normalizeType(typ); typ != "" {
		w.add("type = ?", typ)
	}

	q := selectEventCol + w.sql() + " ORDER BY occurred_at ASC, rowid ASC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, q, append(w.args, clampLimit(limit))...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ControlEvent, 0, 64)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func scanEvent(rows *sql.Rows) (models.ControlEvent, error) {
	var (
		ev   models.ControlEvent
		meta sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
		return models.ControlEvent{}, fmt.Errorf("scan event: %w", err)
	}
	ev.OccurredAt = ev.OccurredAt.UTC()

	if meta.Valid && meta.String != "" {
		var v any
		if err := json.Unmarshal([]byte(meta.String), &v); err == nil {
			ev.Metadata = v
		} else {
			ev.Metadata = meta.String // keep raw if malformed
		}
	}
	return ev, nil
}

func normalizeType(typ string) string {
	return strings.ToUpper(strings.TrimSpace(typ))
}
