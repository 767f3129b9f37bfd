package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"aircon_control/internal/models"
	"aircon_control/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewEventSQLite(conn)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(),
			models.EventManualControl, "setpoint 24",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.ControlEvent{
		Type:        "  manual_control ",
		Description: "setpoint 24",
		Metadata:    map[string]any{"setpoint": 24},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewEventSQLite(conn)

	mock.ExpectExec("INSERT INTO control_events").
		WillReturnError(errors.New("down"))

	err = repo.Append(ctx(t), models.ControlEvent{
		Type:        models.EventError,
		Description: "x",
		Metadata:    map[string]string{"k": "v"},
	})
	if err == nil || !strings.Contains(err.Error(), "insert event") || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewEventSQLite(conn)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"di": 81.38})

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", now, "AUTO_START", "m1", string(js)).
		AddRow("2", now.Add(time.Hour), "AUTO_SKIP", "m2", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, message, meta FROM control_events ORDER BY occurred_at ASC, rowid ASC LIMIT ?`)).
		WithArgs(defaultListLimit).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].EventID != "1" || got[1].EventID != "2" {
		t.Fatalf("unexpected ids: %v, %v", got[0].EventID, got[1].EventID)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewEventSQLite(conn)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	typ := " auto_stop "

	query := `SELECT id, occurred_at, type, message, meta FROM control_events WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC, rowid ASC LIMIT ?`

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("2", from, "AUTO_STOP", "b", nil).
		AddRow("3", to, "AUTO_STOP", "c", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-01-01 11:00:00", "2025-01-01 12:00:00", "AUTO_STOP", 50).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, typ, 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewEventSQLite(conn)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("x", 123, "AUTO_START", "msg", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, message, meta FROM control_events ORDER BY occurred_at ASC, rowid ASC LIMIT ?`)).
		WithArgs(defaultListLimit).
		WillReturnRows(rows)

	_, err = repo.List(ctx(t), time.Time{}, time.Time{}, "", -1)
	if err == nil || !strings.Contains(err.Error(), "scan event") {
		t.Fatalf("expected scan error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_KeepsGivenIDAndFormatsTimestamp(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewEventSQLite(conn)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))

	mock.ExpectExec("INSERT INTO control_events").
		WithArgs("evt-1", "2025-06-01 00:00:00", models.EventPowerOff, "off", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.ControlEvent{
		EventID:     "evt-1",
		OccurredAt:  at,
		Type:        models.EventPowerOff,
		Description: "off",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

// Bounds and stored values share one text layout, so an event stamped at
// exactly `from` is included and sub-second `to` still covers its second.
func TestEventSQLite_RangeBoundariesOnSQLite(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	repo := NewEventSQLite(conn)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, typ := range []string{models.EventAutoStart, models.EventAutoStop, models.EventManualControl} {
		if err := repo.Append(ctx(t), models.ControlEvent{
			OccurredAt:  base.Add(time.Duration(i) * time.Minute),
			Type:        typ,
			Description: typ,
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := repo.List(ctx(t), base, base.Add(time.Minute+500*time.Millisecond), "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Type != models.EventAutoStart || got[1].Type != models.EventAutoStop {
		t.Fatalf("unexpected events: %+v", got)
	}
	if !got[0].OccurredAt.Equal(base) {
		t.Fatalf("occurred_at round trip: %v", got[0].OccurredAt)
	}

	got, err = repo.List(ctx(t), time.Time{}, time.Time{}, "manual_control", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("type filter: %v %+v", err, got)
	}

	got, err = repo.List(ctx(t), time.Time{}, time.Time{}, "", 1)
	if err != nil || len(got) != 1 || got[0].Type != models.EventAutoStart {
		t.Fatalf("limit: %v %+v", err, got)
	}
}
