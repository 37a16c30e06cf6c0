package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

// DefaultMaxIdle is how long a live session may go without an update
// before it is treated as abandoned.
const DefaultMaxIdle = time.Minute

// Local is a Service backed directly by a SQLite store. It is bound to a
// single profile: the OS user for offline play or the SSH user for a
// hosted session.
type Local struct {
	store   *storage.Store
	user    storage.User
	maxIdle time.Duration
}

var _ Service = (*Local)(nil)

// NewLocal binds store to the profile named username, creating it if
// needed. An empty username gives an anonymous handle that can read the
// leaderboard but not report scores.
func NewLocal(ctx context.Context, store *storage.Store, username string) (*Local, error) {
	l := &Local{store: store, maxIdle: DefaultMaxIdle}
	if username == "" {
		return l, nil
	}
	u, err := store.EnsureUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot load profile %q: %w", username, err)
	}
	l.user = u
	return l, nil
}

// SetMaxIdle changes how long a live session may go without an update
// before it stops being listed. Non-positive values keep the default.
func (l *Local) SetMaxIdle(d time.Duration) {
	if d > 0 {
		l.maxIdle = d
	}
}

// Authenticated reports whether a profile is bound.
func (l *Local) Authenticated() bool {
	return l.user.ID != ""
}

// Username returns the bound profile name.
func (l *Local) Username() string {
	return l.user.Username
}

// ReportScore records score for the bound profile.
func (l *Local) ReportScore(ctx context.Context, score int, mode snake.Mode) (Entry, error) {
	if !l.Authenticated() {
		return Entry{}, ErrUnauthenticated
	}
	rec, err := l.store.SaveScore(ctx, l.user, score, mode.String())
	if err != nil {
		return Entry{}, err
	}
	return EntryFromRecord(rec), nil
}

// Best returns the bound profile's best score in mode, or 0.
func (l *Local) Best(ctx context.Context, mode snake.Mode) (int, error) {
	if !l.Authenticated() {
		return 0, nil
	}
	return l.store.HighScore(ctx, l.user.ID, mode.String())
}

// Leaderboard returns the top scores matching filter.
func (l *Local) Leaderboard(ctx context.Context, limit int, filter Filter) ([]Entry, error) {
	mode := ""
	if m, ok := filter.Mode(); ok {
		mode = m.String()
	}
	recs, err := l.store.TopScores(ctx, mode, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, EntryFromRecord(r))
	}
	return entries, nil
}

// ActivePlayers lists live sessions with a usable state.
func (l *Local) ActivePlayers(ctx context.Context) ([]ActivePlayer, error) {
	recs, err := l.store.ActiveWatches(ctx, l.maxIdle)
	if err != nil {
		return nil, err
	}
	players := make([]ActivePlayer, 0, len(recs))
	for _, r := range recs {
		p, err := PlayerFromRecord(r)
		if err != nil {
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

// StartSession advertises a new live game for the bound profile.
func (l *Local) StartSession(ctx context.Context, mode snake.Mode) (string, error) {
	if !l.Authenticated() {
		return "", ErrUnauthenticated
	}
	w, err := l.store.StartWatch(ctx, l.user, mode.String())
	if err != nil {
		return "", err
	}
	return w.ID, nil
}

// UpdateSession stores the latest state of a live game.
func (l *Local) UpdateSession(ctx context.Context, id string, state snake.GameState) error {
	if !l.Authenticated() {
		return ErrUnauthenticated
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("leaderboard: cannot encode state: %w", err)
	}
	return l.store.UpdateWatch(ctx, id, l.user.ID, state.Score, string(data))
}

// EndSession withdraws a live game. The final score is recorded through
// ReportScore, not here.
func (l *Local) EndSession(ctx context.Context, id string, _ int, _ snake.Mode) error {
	if !l.Authenticated() {
		return ErrUnauthenticated
	}
	return l.store.EndWatch(ctx, id, l.user.ID)
}

// EntryFromRecord converts a stored score into a leaderboard entry.
// Unknown modes fall back to the default mode.
func EntryFromRecord(r storage.ScoreEntry) Entry {
	mode, _ := snake.ParseMode(r.Mode)
	return Entry{
		ID:       strconv.FormatInt(r.ID, 10),
		Username: r.Username,
		Score:    r.Score,
		Mode:     mode,
		Date:     r.CreatedAt,
	}
}

// PlayerFromRecord converts a stored watch session into an ActivePlayer.
// A session that has not published a state yet gets an empty state.
func PlayerFromRecord(r storage.WatchSession) (ActivePlayer, error) {
	mode, err := snake.ParseMode(r.Mode)
	if err != nil {
		return ActivePlayer{}, err
	}
	p := ActivePlayer{
		ID:            r.ID,
		UserID:        r.UserID,
		Username:      r.Username,
		Score:         r.Score,
		Mode:          mode,
		StartedAt:     r.StartedAt,
		LastUpdatedAt: r.UpdatedAt,
	}
	if r.State != "" {
		if err := json.Unmarshal([]byte(r.State), &p.State); err != nil {
			return ActivePlayer{}, fmt.Errorf("leaderboard: bad state for session %s: %w", r.ID, err)
		}
	}
	return p, nil
}
