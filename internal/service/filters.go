package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aircon_control/internal/models"
)

// ErrInvalidFilter is returned for an inverted range or unknown event type.
var ErrInvalidFilter = errors.New("invalid filter")

// MaxListLimit bounds Limit on both filters.
const MaxListLimit = 5000

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "" or one of the models.Event* types, any case
	Limit int       // <= 0 means the repository default
}

// ReadingFilter selects stored sensor readings.
type ReadingFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

func (f LogFilter) normalize() (LogFilter, error) {
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return LogFilter{}, err
	}
	limit, err := checkLimit(f.Limit)
	if err != nil {
		return LogFilter{}, err
	}
	typ := strings.ToUpper(strings.TrimSpace(f.Type))
	if typ != "" && !models.IsEventType(typ) {
		return LogFilter{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidFilter, f.Type)
	}
	return LogFilter{From: from, To: to, Type: typ, Limit: limit}, nil
}

func (f ReadingFilter) normalize() (ReadingFilter, error) {
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return ReadingFilter{}, err
	}
	limit, err := checkLimit(f.Limit)
	if err != nil {
		return ReadingFilter{}, err
	}
	return ReadingFilter{From: from, To: to, Limit: limit}, nil
}

// normalizeRange converts non-zero bounds to UTC and rejects from > to.
func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	if !from.IsZero() {
		from = from.UTC()
	}
	if !to.IsZero() {
		to = to.UTC()
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must be <= to", ErrInvalidFilter)
	}
	return from, to, nil
}

func checkLimit(limit int) (int, error) {
	if limit > MaxListLimit {
		return 0, fmt.Errorf("%w: limit above %d", ErrInvalidFilter, MaxListLimit)
	}
	if limit < 0 {
		return 0, nil
	}
	return limit, nil
}
