package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"weekview/internal/adapters/storage"
	domain "weekview/internal/domain/calendar"
)

// timeLayout is fixed width and always UTC, so stored values sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts or updates a calendar event.
// PRE: e is a valid Event (Validate() returns nil)
// POST: event is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_event (id, title, description, location, color, all_day, start_time, end_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, location=excluded.location,
		   color=excluded.color, all_day=excluded.all_day,
		   start_time=excluded.start_time, end_time=excluded.end_time`,
		e.ID, e.Title, e.Description, e.Location, e.Color, e.AllDay,
		formatTime(e.Start), formatTime(e.End), formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save event %s: %w", e.ID, err)
	}
	return nil
}

// GetByID retrieves a calendar event by ID.
// PRE: id is non-empty
// POST: returns the event or sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, location, color, all_day, start_time, end_time, created_at
		 FROM calendar_event WHERE id = ?`, id,
	)
	return scanEvent(row)
}

// ListByRange returns events overlapping the half-open range [from, to).
// PRE: from is before to
// POST: returns events sorted by start_time ascending, then id
func (s *SQLiteStore) ListByRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, location, color, all_day, start_time, end_time, created_at
		 FROM calendar_event
		 WHERE start_time < ? AND end_time > ?
		 ORDER BY start_time ASC, id ASC`, formatTime(to), formatTime(from),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Delete removes a calendar event by ID.
// PRE: id is non-empty
// POST: event is removed, or sql.ErrNoRows if it did not exist
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_event WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(sc scanner) (domain.Event, error) {
	var e domain.Event
	var startStr, endStr, createdStr string
	if err := sc.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.Color, &e.AllDay,
		&startStr, &endStr, &createdStr); err != nil {
		return e, err
	}
	e.Start = parseTime(startStr)
	e.End = parseTime(endStr)
	e.CreatedAt = parseTime(createdStr)
	return e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads a stored timestamp. Unparseable values yield the zero time and a warning.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err == nil {
		return t
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		slog.Warn("invalid_stored_time", "value", s, "error", err.Error())
		return time.Time{}
	}
	return t
}
