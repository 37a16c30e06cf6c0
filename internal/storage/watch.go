package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WatchSession is a live game advertised to spectators.
type WatchSession struct {
	ID        string
	UserID    string
	Username  string
	Mode      string
	Score     int
	State     string // JSON-encoded game state, empty until the first update
	StartedAt time.Time
	UpdatedAt time.Time
}

// StartWatch opens a live session for user.
func (s *Store) StartWatch(ctx context.Context, user User, mode string) (WatchSession, error) {
	now := s.timestamp()
	w := WatchSession{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Username: user.Username,
		Mode:     mode,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watch_sessions (id, user_id, username, mode, started_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Username, w.Mode, now, now,
	)
	if err != nil {
		return WatchSession{}, fmt.Errorf("storage: cannot start watch session: %w", err)
	}
	w.StartedAt = parseTime(now)
	w.UpdatedAt = w.StartedAt
	return w, nil
}

// UpdateWatch stores the latest state of a session owned by userID.
// Returns ErrNotFound when the session does not exist or belongs to
// someone else.
func (s *Store) UpdateWatch(ctx context.Context, id, userID string, score int, state string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE watch_sessions SET score = ?, state_json = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		score, state, s.timestamp(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update watch session: %w", err)
	}
	return rowsAffected(res)
}

// EndWatch removes a session owned by userID.
func (s *Store) EndWatch(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM watch_sessions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("storage: cannot end watch session: %w", err)
	}
	return rowsAffected(res)
}

// ActiveWatches lists sessions updated within maxIdle, most recently
// started first. Older sessions are pruned as abandoned.
func (s *Store) ActiveWatches(ctx context.Context, maxIdle time.Duration) ([]WatchSession, error) {
	cutoff := s.now().Add(-maxIdle).UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM watch_sessions WHERE updated_at < ?`, cutoff); err != nil {
		return nil, fmt.Errorf("storage: cannot prune watch sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, username, mode, score, state_json, started_at, updated_at
		 FROM watch_sessions
		 ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query watch sessions: %w", err)
	}
	defer rows.Close()

	var sessions []WatchSession
	for rows.Next() {
		var w WatchSession
		var started, updated any
		if err := rows.Scan(&w.ID, &w.UserID, &w.Username, &w.Mode, &w.Score, &w.State, &started, &updated); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		w.StartedAt = parseTime(started)
		w.UpdatedAt = parseTime(updated)
		sessions = append(sessions, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}
