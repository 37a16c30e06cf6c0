package session

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

// Submit sends a final score to the leaderboard. Failures are logged and
// swallowed: the finished game stays as it is whatever the outcome. It
// returns the recorded entry and whether the report was accepted.
func Submit(ctx context.Context, r leaderboard.Reporter, rep Report, logger *log.Logger) (leaderboard.Entry, bool) {
	entry, err := r.ReportScore(ctx, rep.Score, rep.Mode)
	switch {
	case errors.Is(err, leaderboard.ErrUnauthenticated):
		logger.Warn("score not recorded, not signed in", "score", rep.Score, "mode", rep.Mode)
		return leaderboard.Entry{}, false
	case err != nil:
		logger.Error("score report failed", "score", rep.Score, "mode", rep.Mode, "err", err)
		return leaderboard.Entry{}, false
	}
	logger.Info("score recorded", "score", entry.Score, "mode", entry.Mode, "id", entry.ID)
	return entry, true
}
