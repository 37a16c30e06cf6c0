package tui

import (
	"context"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
	"github.com/vovakirdan/snake-arena/internal/logging"
)

// callTimeout bounds every leaderboard call made from the UI.
const callTimeout = 10 * time.Second

// Env is everything a screen needs from outside the UI.
type Env struct {
	Service leaderboard.Service
	// Auth is set when the service has accounts the user can manage from
	// the UI. Local profiles leave it nil.
	Auth   leaderboard.Authenticator
	Config config.Config
	Logger *log.Logger
	// Screenshots is the directory for ctrl+s captures. Empty disables them.
	Screenshots string
	// Seed feeds the game random sources. Zero picks a time-based seed.
	Seed int64
	// Context is cancelled when the owning connection goes away.
	Context context.Context
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return logging.Discard()
	}
	return e.Logger
}

func (e Env) rng() *rand.Rand {
	seed := e.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func (e Env) ctx() context.Context {
	if e.Context == nil {
		return context.Background()
	}
	return e.Context
}

// call runs fn off the UI goroutine with a bounded context and delivers
// its message.
func (e Env) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	parent := e.ctx()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, callTimeout)
		defer cancel()
		return fn(ctx)
	}
}
