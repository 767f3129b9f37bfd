package repository

import (
	"strings"
	"time"
)

// sqliteTimestampLayout is SQLite's CURRENT_TIMESTAMP text form. Stored
// timestamps and range bounds share it so text comparison orders by time.
const sqliteTimestampLayout = "2006-01-02 15:04:05"

const (
	defaultListLimit = 500
	maxListLimit     = 5000
)

func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimestampLayout)
}

// clampLimit maps limit <= 0 to the default and caps the rest.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

// where accumulates AND-ed conditions and their arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

// timeRange adds inclusive bounds on col; zero bounds are open.
func (w *where) timeRange(col string, from, to time.Time) {
	if !from.IsZero() {
		w.add(col+" >= ?", sqliteTime(from))
	}
	if !to.IsZero() {
		w.add(col+" <= ?", sqliteTime(to))
	}
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
