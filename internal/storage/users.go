package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is an account row. Local profiles have no email or password.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

const userColumns = `id, username, email, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var createdAt any
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return User{}, err
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// CreateUser registers a new account.
// Returns ErrUsernameTaken or ErrEmailTaken on conflicts.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (User, error) {
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	created := s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, created,
	)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return User{}, conflict
		}
		return User{}, fmt.Errorf("storage: cannot create user: %w", err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

// EnsureUser returns the account named username, creating a passwordless
// local profile when none exists.
func (s *Store) EnsureUser(ctx context.Context, username string) (User, error) {
	u, err := s.UserByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	u, err = s.CreateUser(ctx, username, "", "")
	if errors.Is(err, ErrUsernameTaken) {
		// Another session created it first.
		return s.UserByUsername(ctx, username)
	}
	return u, err
}

// UserByUsername looks up an account by its username.
func (s *Store) UserByUsername(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return s.lookupUser(row)
}

func (s *Store) lookupUser(row *sql.Row) (User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot query user: %w", err)
	}
	return u, nil
}

// CreateToken stores a bearer token for userID.
func (s *Store) CreateToken(ctx context.Context, userID, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tokens (token, user_id, created_at) VALUES (?, ?, ?)`,
		token, userID, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create token: %w", err)
	}
	return nil
}

// UserByToken resolves a bearer token to its account.
func (s *Store) UserByToken(ctx context.Context, token string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		 FROM tokens t JOIN users u ON u.id = t.user_id
		 WHERE t.token = ?`, token)
	return s.lookupUser(row)
}

// DeleteToken revokes a bearer token. Unknown tokens are not an error.
func (s *Store) DeleteToken(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("storage: cannot delete token: %w", err)
	}
	return nil
}
