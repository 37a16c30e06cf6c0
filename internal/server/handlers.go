package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/snake-arena/internal/api"
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, api.ErrorResponse{Detail: detail})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "err", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func userView(u storage.User) leaderboard.User {
	return leaderboard.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// issueToken creates a bearer token for u and writes the auth response.
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, u storage.User, status int) {
	token := uuid.NewString()
	if err := s.store.CreateToken(r.Context(), u.ID, token); err != nil {
		s.internalError(w, "cannot create token", err)
		return
	}
	writeJSON(w, status, api.AuthResponse{Token: token, User: userView(u)})
}

func validateSignup(req api.SignupRequest) string {
	if n := utf8.RuneCountInString(req.Username); n < 3 || n > 32 {
		return "Username must be between 3 and 32 characters"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Invalid email address"
	}
	if len(req.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateSignup(req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.internalError(w, "cannot hash password", err)
		return
	}

	u, err := s.store.CreateUser(r.Context(), req.Username, req.Email, string(hash))
	switch {
	case errors.Is(err, storage.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	case errors.Is(err, storage.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	case err != nil:
		s.internalError(w, "cannot create user", err)
		return
	}

	s.logger.Info("user registered", "username", u.Username)
	s.issueToken(w, r, u, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := s.store.UserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.internalError(w, "cannot look up user", err)
		return
	}
	// Local profiles have no password and cannot sign in over HTTP.
	if err != nil || u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	s.issueToken(w, r, u, http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ storage.User) {
	if err := s.store.DeleteToken(r.Context(), tokenFrom(r.Context())); err != nil {
		s.internalError(w, "cannot delete token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, u storage.User) {
	writeJSON(w, http.StatusOK, userView(u))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := leaderboard.DefaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		limit = leaderboard.ClampLimit(n)
	}

	filter, err := leaderboard.ParseFilter(q.Get("gameMode"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "gameMode must be pass-through or walls")
		return
	}
	mode := ""
	if m, ok := filter.Mode(); ok {
		mode = m.String()
	}

	recs, err := s.store.TopScores(r.Context(), mode, limit)
	if err != nil {
		s.internalError(w, "cannot load leaderboard", err)
		return
	}
	entries := make([]leaderboard.Entry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, leaderboard.EntryFromRecord(rec))
	}
	writeJSON(w, http.StatusOK, api.LeaderboardResponse{Entries: entries})
}

// scoreBody mirrors api.ScoreRequest with a raw mode so an unknown mode
// is reported as a validation error rather than a decoding error.
type scoreBody struct {
	Score *int   `json:"score"`
	Mode  string `json:"game_mode"`
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request, u storage.User) {
	var body scoreBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Score == nil || *body.Score < 0 {
		writeError(w, http.StatusUnprocessableEntity, "score must be a non-negative integer")
		return
	}
	mode, err := snake.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "game_mode must be pass-through or walls")
		return
	}

	rec, err := s.store.SaveScore(r.Context(), u, *body.Score, mode.String())
	if err != nil {
		s.internalError(w, "cannot save score", err)
		return
	}
	s.logger.Info("score recorded", "username", u.Username, "score", rec.Score, "mode", rec.Mode)
	writeJSON(w, http.StatusCreated, leaderboard.EntryFromRecord(rec))
}

func (s *Server) handleActivePlayers(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ActiveWatches(r.Context(), s.maxIdle)
	if err != nil {
		s.internalError(w, "cannot load active players", err)
		return
	}
	players := make([]leaderboard.ActivePlayer, 0, len(recs))
	for _, rec := range recs {
		p, err := leaderboard.PlayerFromRecord(rec)
		if err != nil {
			s.logger.Warn("skipping unreadable watch session", "id", rec.ID, "err", err)
			continue
		}
		players = append(players, p)
	}
	writeJSON(w, http.StatusOK, api.ActivePlayersResponse{Players: players})
}

func (s *Server) handleStartWatch(w http.ResponseWriter, r *http.Request, u storage.User) {
	var body struct {
		Mode string `json:"gameMode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	mode, err := snake.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "gameMode must be pass-through or walls")
		return
	}

	ws, err := s.store.StartWatch(r.Context(), u, mode.String())
	if err != nil {
		s.internalError(w, "cannot start watch session", err)
		return
	}
	writeJSON(w, http.StatusCreated, api.StartWatchResponse{SessionID: ws.ID})
}

func (s *Server) handleUpdateWatch(w http.ResponseWriter, r *http.Request, u storage.User) {
	id := mux.Vars(r)["id"]

	var req api.UpdateWatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := snake.Validate(req.State); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid game state")
		return
	}
	data, err := json.Marshal(req.State)
	if err != nil {
		s.internalError(w, "cannot encode game state", err)
		return
	}

	err = s.store.UpdateWatch(r.Context(), id, u.ID, req.State.Score, string(data))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Game session not found")
		return
	}
	if err != nil {
		s.internalError(w, "cannot update watch session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Game state updated"})
}

func (s *Server) handleEndWatch(w http.ResponseWriter, r *http.Request, u storage.User) {
	id := mux.Vars(r)["id"]

	err := s.store.EndWatch(r.Context(), id, u.ID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Game session not found")
		return
	}
	if err != nil {
		s.internalError(w, "cannot end watch session", err)
		return
	}
	writeJSON(w, http.StatusOK, api.EndWatchResponse{})
}
