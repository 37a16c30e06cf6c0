package tui

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "tui.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// testEnv returns an env bound to a local profile named user. An empty
// user gives an anonymous profile.
func testEnv(t *testing.T, store *storage.Store, user string) Env {
	t.Helper()
	svc, err := leaderboard.NewLocal(context.Background(), store, user)
	if err != nil {
		t.Fatalf("NewLocal() failed: %v", err)
	}
	return Env{
		Service: svc,
		Config:  config.Default(),
		Seed:    1,
	}
}

// send delivers msg to a model and returns the updated model.
func send[M tea.Model](t *testing.T, m M, msg tea.Msg) (M, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(M)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}
