package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// connPragmas run once per connection; with a single open connection that
// means once per process.
var connPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// InitDB opens the SQLite file at path, creating it when missing, applies
// connPragmas and makes sure every table exists.
func InitDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}
	if err := prepare(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func prepare(conn *sql.DB) error {
	// sqlite has one writer; a single connection keeps pragmas and the
	// state row lock consistent
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, p := range connPragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := ensureSchema(conn); err != nil {
		return err
	}
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

const sqliteDriverName = "sqlite"

const schemaAirconState = `
CREATE TABLE IF NOT EXISTS aircon_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    power BOOLEAN NOT NULL,
    setpoint_c REAL NOT NULL,
    mode TEXT NOT NULL,
    fan_mode TEXT NOT NULL,
    optional_mode TEXT NOT NULL,
    auto_active BOOLEAN NOT NULL,
    remaining_s INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaControlEvents = `
CREATE TABLE IF NOT EXISTS control_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sensor_id TEXT NOT NULL,
    temp_c REAL NOT NULL,
    rh REAL NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);
`

const indexSensorReadingsRecordedAt = `
CREATE INDEX IF NOT EXISTS idx_sensor_readings_recorded_at ON sensor_readings (recorded_at);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL COLLATE NOCASE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

var schema = []struct {
	name string
	ddl  string
}{
	{"aircon_state", schemaAirconState},
	{"control_events", schemaControlEvents},
	{"sensor_readings", schemaSensorReadings},
	{"idx_sensor_readings_recorded_at", indexSensorReadingsRecordedAt},
	{"users", schemaUsers},
}

func ensureSchema(conn *sql.DB) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range schema {
		if _, err := tx.Exec(st.ddl); err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
