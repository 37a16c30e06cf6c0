// Package leaderboard defines the boundary to the account and score
// service: the types exchanged with it and the interfaces the game loops
// call. Local and remote implementations live behind the same interfaces.
package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// ErrUnauthenticated is returned by calls that need a signed-in user.
var ErrUnauthenticated = errors.New("leaderboard: not authenticated")

// DefaultLimit and MaxLimit bound leaderboard queries.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// User is a registered account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry is one leaderboard row.
type Entry struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Score    int        `json:"score"`
	Mode     snake.Mode `json:"gameMode"`
	Date     time.Time  `json:"date"`
}

// ActivePlayer is a live session advertised to spectators.
type ActivePlayer struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Username      string          `json:"username"`
	Score         int             `json:"score"`
	Mode          snake.Mode      `json:"gameMode"`
	State         snake.GameState `json:"gameState"`
	StartedAt     time.Time       `json:"startedAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// Reporter records final scores.
type Reporter interface {
	// ReportScore records score for the signed-in user.
	// Fails with ErrUnauthenticated when nobody is signed in.
	ReportScore(ctx context.Context, score int, mode snake.Mode) (Entry, error)
}

// Publisher advertises a running game so others can watch it.
type Publisher interface {
	StartSession(ctx context.Context, mode snake.Mode) (string, error)
	UpdateSession(ctx context.Context, id string, state snake.GameState) error
	EndSession(ctx context.Context, id string, finalScore int, mode snake.Mode) error
}

// Service is the full collaborator used by the front ends.
type Service interface {
	Reporter
	Publisher

	// Leaderboard returns at most limit entries ordered by score
	// descending.
	Leaderboard(ctx context.Context, limit int, filter Filter) ([]Entry, error)
	// ActivePlayers lists live sessions.
	ActivePlayers(ctx context.Context) ([]ActivePlayer, error)
	// Authenticated reports whether score reports would be accepted.
	Authenticated() bool
	// Username returns the signed-in name, or "" when signed out.
	Username() string
}

// Authenticator manages the signed-in account of a remote service.
type Authenticator interface {
	Signup(ctx context.Context, username, email, password string) (User, error)
	Login(ctx context.Context, username, password string) (User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (User, error)
}

// ClampLimit applies the default and maximum leaderboard sizes.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
