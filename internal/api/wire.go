// Package api is the HTTP client for a remote leaderboard server, together
// with the JSON shapes shared with internal/server.
package api

import (
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

// BasePath prefixes every endpoint.
const BasePath = "/api/v1"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token string           `json:"token"`
	User  leaderboard.User `json:"user"`
}

// LeaderboardResponse is returned by GET /leaderboard.
type LeaderboardResponse struct {
	Entries []leaderboard.Entry `json:"entries"`
}

// ScoreRequest is the body of POST /leaderboard.
type ScoreRequest struct {
	Score int        `json:"score"`
	Mode  snake.Mode `json:"game_mode"`
}

// ActivePlayersResponse is returned by GET /watch/active.
type ActivePlayersResponse struct {
	Players []leaderboard.ActivePlayer `json:"players"`
}

// StartWatchRequest is the body of POST /watch/start.
type StartWatchRequest struct {
	Mode snake.Mode `json:"gameMode"`
}

// StartWatchResponse is returned by POST /watch/start.
type StartWatchResponse struct {
	SessionID string `json:"sessionId"`
}

// UpdateWatchRequest is the body of PUT /watch/update/{id}.
type UpdateWatchRequest struct {
	State snake.GameState `json:"gameState"`
}

// EndWatchRequest is the body of POST /watch/end/{id}.
type EndWatchRequest struct {
	FinalScore int        `json:"finalScore"`
	Mode       snake.Mode `json:"gameMode"`
}

// EndWatchResponse is returned by POST /watch/end/{id}. The entry is
// absent because scores are recorded through POST /leaderboard only.
type EndWatchResponse struct {
	LeaderboardEntry *leaderboard.Entry `json:"leaderboardEntry,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
