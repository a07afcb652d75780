package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/notifcenter/internal/db"
	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

// ErrNotFound is returned by GetByID for an unknown entry.
var ErrNotFound = errors.New("activity entry not found")

// Fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists activity entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record implements notifications.Recorder.
func (s *Store) Record(ctx context.Context, ev notifications.ActionEvent) error {
	return s.Log(ctx, entryFromEvent(ev))
}

// Log inserts an entry. If entry.ID is empty a UUID is generated, and a zero
// Timestamp is replaced with the current time.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_entries (
			id, timestamp, action, notification_id, affected, success, message, kind
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(timeLayout),
		string(entry.Action),
		entry.NotificationID,
		entry.Affected,
		entry.Success,
		entry.Message,
		string(entry.Kind),
	)
	if err != nil {
		return fmt.Errorf("inserting activity entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, action, notification_id, affected, success, message, kind
		FROM activity_entries WHERE id = ?`, id)

	e, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// ListFilter controls which entries List returns.
type ListFilter struct {
	Action         notifications.Action
	NotificationID string
	Since          *time.Time
	Limit          int
	Offset         int
}

// List returns entries matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.NotificationID != "" {
		clauses = append(clauses, "notification_id = ?")
		args = append(args, filter.NotificationID)
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := "SELECT id, timestamp, action, notification_id, affected, success, message, kind FROM activity_entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	// SQLite only accepts OFFSET after LIMIT; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, max(filter.Offset, 0))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM activity_entries WHERE timestamp < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old activity entries: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e            Entry
		ts           string
		action, kind string
	)

	err := sc.Scan(&e.ID, &ts, &action, &e.NotificationID, &e.Affected, &e.Success, &e.Message, &kind)
	if err != nil {
		return nil, err
	}

	e.Action = notifications.Action(action)
	e.Kind = notifications.ErrorKind(kind)
	if e.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
		return nil, fmt.Errorf("parsing activity timestamp %q: %w", ts, err)
	}
	return &e, nil
}
