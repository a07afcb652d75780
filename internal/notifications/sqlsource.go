package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/notifcenter/internal/db"
)

// SQLSource is a Source backed by the notifications table, scoped to one user.
type SQLSource struct {
	db     *db.DB
	userID string
}

// NewSQLSource creates a SQLSource for userID.
func NewSQLSource(database *db.DB, userID string) *SQLSource {
	return &SQLSource{db: database, userID: userID}
}

// Insert adds notifications in order. Records owned by another user are
// stored under this source's user.
func (s *SQLSource) Insert(ctx context.Context, list []Notification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	for _, n := range list {
		meta := n.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %s: %w", n.ID, err)
		}

		var readAt, actionURL, actionText sql.NullString
		if n.ReadAt != nil {
			readAt = sql.NullString{String: formatTime(*n.ReadAt), Valid: true}
		}
		if n.ActionURL != "" {
			actionURL = sql.NullString{String: n.ActionURL, Valid: true}
		}
		if n.ActionText != "" {
			actionText = sql.NullString{String: n.ActionText, Valid: true}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO notifications (id, user_id, type, priority, status, title, content,
				created_at, updated_at, read_at, action_url, action_text, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, s.userID, string(n.Type), string(n.Priority), string(n.Status), n.Title, n.Content,
			formatTime(n.CreatedAt), formatTime(n.UpdatedAt), readAt, actionURL, actionText, string(metaJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting notification %s: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

// List returns the user's notifications in insertion order.
func (s *SQLSource) List(ctx context.Context) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, priority, status, title, content,
			created_at, updated_at, read_at, action_url, action_text, metadata
		FROM notifications WHERE user_id = ? ORDER BY seq`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkRead sets status=read on an unread notification. read_at keeps any earlier value.
func (s *SQLSource) MarkRead(ctx context.Context, id string, at time.Time) error {
	ts := formatTime(at)
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET status = 'read', read_at = COALESCE(read_at, ?), updated_at = ?
		WHERE user_id = ? AND id = ? AND status = 'unread'`, ts, ts, s.userID, id)
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user read.
func (s *SQLSource) MarkAllRead(ctx context.Context, at time.Time) error {
	ts := formatTime(at)
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET status = 'read', read_at = COALESCE(read_at, ?), updated_at = ?
		WHERE user_id = ? AND status = 'unread'`, ts, ts, s.userID)
	if err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// Delete removes a notification.
func (s *SQLSource) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE user_id = ? AND id = ?", s.userID, id)
	if err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func scanNotification(rows *sql.Rows) (Notification, error) {
	var (
		n                             Notification
		ntype, priority, status       string
		createdAt, updatedAt          string
		readAt, actionURL, actionText sql.NullString
		metaJSON                      string
	)

	err := rows.Scan(&n.ID, &n.UserID, &ntype, &priority, &status, &n.Title, &n.Content,
		&createdAt, &updatedAt, &readAt, &actionURL, &actionText, &metaJSON)
	if err != nil {
		return Notification{}, err
	}

	n.Type = Type(ntype)
	n.Priority = Priority(priority)
	n.Status = Status(status)
	if n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Notification{}, fmt.Errorf("parsing created_at of %s: %w", n.ID, err)
	}
	if n.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Notification{}, fmt.Errorf("parsing updated_at of %s: %w", n.ID, err)
	}
	if readAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, readAt.String)
		if err != nil {
			return Notification{}, fmt.Errorf("parsing read_at of %s: %w", n.ID, err)
		}
		n.ReadAt = &t
	}
	n.ActionURL = actionURL.String
	n.ActionText = actionText.String

	if err := json.Unmarshal([]byte(metaJSON), &n.Metadata); err != nil {
		return Notification{}, fmt.Errorf("parsing metadata of %s: %w", n.ID, err)
	}
	if len(n.Metadata) == 0 {
		n.Metadata = nil
	}
	return n, nil
}
