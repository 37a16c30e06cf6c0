package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ScoreEntry is one recorded game result.
type ScoreEntry struct {
	ID        int64
	UserID    string
	Username  string
	Score     int
	Mode      string
	CreatedAt time.Time
}

// SaveScore records a finished game for the given user.
func (s *Store) SaveScore(ctx context.Context, user User, score int, mode string) (ScoreEntry, error) {
	created := s.timestamp()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (user_id, username, score, mode, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, score, mode, created,
	)
	if err != nil {
		return ScoreEntry{}, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return ScoreEntry{}, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return ScoreEntry{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		Score:     score,
		Mode:      mode,
		CreatedAt: parseTime(created),
	}, nil
}

// TopScores returns up to limit scores ordered by score descending, oldest
// first among equal scores. An empty mode matches every mode.
func (s *Store) TopScores(ctx context.Context, mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, username, score, mode, created_at
		 FROM scores
		 WHERE ? = '' OR mode = ?
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Score, &e.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the best score of a user in mode, or 0 if none exists.
func (s *Store) HighScore(ctx context.Context, userID, mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM scores WHERE user_id = ? AND mode = ?`,
		userID, mode,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}
