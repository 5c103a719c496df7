package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// ActivityRepository provides data access methods for the user_log table.
type ActivityRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewActivityRepository creates a new ActivityRepository with the provided database connection.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// WithTx returns a new ActivityRepository scoped to the provided transaction.
func (r *ActivityRepository) WithTx(tx *sql.Tx) *ActivityRepository {
	return &ActivityRepository{db: r.db, tx: tx}
}

// InsertLog appends one audit entry.
func (r *ActivityRepository) InsertLog(ctx context.Context, l model.ActivityLog) error {
	query := `INSERT INTO user_log (id, uid, action, detail, timestamp) VALUES (?, ?, ?, ?, ?)`

	_, err := pick(r.db, r.tx).ExecContext(ctx, query,
		l.ID,
		l.UID,
		l.Action,
		nullString(l.Detail),
		FormatTime(l.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user_log: %w", err)
	}

	return nil
}

// ListLogs returns the user's most recent entries, newest first.
// When filters.Actions is non-empty only those actions are returned.
func (r *ActivityRepository) ListLogs(ctx context.Context, uid string, filters model.ActivityFilters) ([]model.ActivityLog, error) {
	query := `
		SELECT id, uid, action, detail, timestamp
		FROM user_log
		WHERE uid = ?
	`
	args := []any{uid}

	if len(filters.Actions) > 0 {
		query += " AND action IN (?" + strings.Repeat(", ?", len(filters.Actions)-1) + ")"
		for _, a := range filters.Actions {
			args = append(args, a)
		}
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, filters.Limit)

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user_log table: %w", err)
	}
	defer rows.Close()

	logs := []model.ActivityLog{}
	for rows.Next() {
		var l model.ActivityLog
		var detail sql.NullString
		var timestampStr string

		if err := rows.Scan(&l.ID, &l.UID, &l.Action, &detail, &timestampStr); err != nil {
			return nil, fmt.Errorf("failed to scan user_log table results: %w", err)
		}
		if l.Timestamp, err = ParseTime(timestampStr); err != nil {
			return nil, err
		}
		l.Detail = detail.String

		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user_log table: %w", err)
	}

	return logs, nil
}

// DeleteLogsBefore removes entries older than before and returns how many were removed.
func (r *ActivityRepository) DeleteLogsBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM user_log WHERE timestamp < ?`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query, FormatTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete user_log entries: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n, nil
}
