package repository

import (
	"context"
	"database/sql"
	"time"

	"aircon_control/internal/models"
)

// Authorization stores API users. Usernames are unique case-insensitively.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (models.User, bool, error)
}

type StateRepo interface {
	Save(ctx context.Context, s models.AirconState) error
	Load(ctx context.Context) (models.AirconState, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ControlEvent) error
	List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.ControlEvent, error)
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.SensorReading) (int64, error)
	Latest(ctx context.Context) (models.SensorReading, bool, error)
	List(ctx context.Context, from, to time.Time, limit int) ([]models.SensorReading, error)
}

type Repository struct {
	StateRepo   StateRepo
	EventRepo   EventRepo
	ReadingRepo ReadingRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo:   NewStateSQLite(db),
		EventRepo:   NewEventSQLite(db),
		ReadingRepo: NewReadingSQLite(db),
		Auth:        NewUserSQLite(db),
	}
}
