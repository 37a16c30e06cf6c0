package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// fakeClock advances by one second on every call.
func fakeClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.EnsureUser(ctx, "alice"); err != nil {
		t.Fatalf("EnsureUser() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()
	if _, err := store.UserByUsername(ctx, "alice"); err != nil {
		t.Errorf("UserByUsername() after reopen: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandHome("~/.snake/snake.db")
	if err != nil {
		t.Fatalf("ExpandHome() error: %v", err)
	}
	if want := filepath.Join(home, ".snake", "snake.db"); got != want {
		t.Errorf("ExpandHome() = %q, expected %q", got, want)
	}
	if got, _ := ExpandHome("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("absolute path changed to %q", got)
	}
}

func TestCreateUserConflicts(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	_, err := store.CreateUser(ctx, "alice", "other@example.com", "hash")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username error = %v, expected ErrUsernameTaken", err)
	}

	_, err = store.CreateUser(ctx, "bob", "alice@example.com", "hash")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, expected ErrEmailTaken", err)
	}

	// Local profiles have no email and must not collide with each other.
	if _, err := store.EnsureUser(ctx, "carol"); err != nil {
		t.Errorf("EnsureUser(carol) failed: %v", err)
	}
	if _, err := store.EnsureUser(ctx, "dave"); err != nil {
		t.Errorf("EnsureUser(dave) failed: %v", err)
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first, err := store.EnsureUser(ctx, "alice")
	if err != nil {
		t.Fatalf("EnsureUser() failed: %v", err)
	}
	second, err := store.EnsureUser(ctx, "alice")
	if err != nil {
		t.Fatalf("EnsureUser() failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("IDs differ: %s vs %s", first.ID, second.ID)
	}
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	u, err := store.CreateUser(ctx, "alice", "a@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if err := store.CreateToken(ctx, u.ID, "tok-1"); err != nil {
		t.Fatalf("CreateToken() failed: %v", err)
	}

	got, err := store.UserByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("UserByToken() failed: %v", err)
	}
	if got.ID != u.ID || got.Email != "a@example.com" {
		t.Errorf("UserByToken() = %+v", got)
	}

	if err := store.DeleteToken(ctx, "tok-1"); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if _, err := store.UserByToken(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoked token error = %v, expected ErrNotFound", err)
	}
}

func TestTopScores(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	store.now = fakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	alice, _ := store.EnsureUser(ctx, "alice")
	bob, _ := store.EnsureUser(ctx, "bob")

	saves := []struct {
		user  User
		score int
		mode  string
	}{
		{alice, 50, "walls"},
		{bob, 200, "pass-through"},
		{alice, 120, "pass-through"},
		{bob, 50, "walls"},
		{alice, 10, "walls"},
	}
	for _, s := range saves {
		if _, err := store.SaveScore(ctx, s.user, s.score, s.mode); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	all, err := store.TopScores(ctx, "", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d scores, expected 5", len(all))
	}
	wantScores := []int{200, 120, 50, 50, 10}
	for i, e := range all {
		if e.Score != wantScores[i] {
			t.Errorf("all[%d].Score = %d, expected %d", i, e.Score, wantScores[i])
		}
	}
	// Ties keep the older entry first.
	if all[2].Username != "alice" || all[3].Username != "bob" {
		t.Errorf("tie order = %s, %s; expected alice, bob", all[2].Username, all[3].Username)
	}

	walls, err := store.TopScores(ctx, "walls", 2)
	if err != nil {
		t.Fatalf("TopScores(walls) failed: %v", err)
	}
	if len(walls) != 2 {
		t.Fatalf("got %d walls scores, expected 2", len(walls))
	}
	for _, e := range walls {
		if e.Mode != "walls" {
			t.Errorf("unexpected mode %q in walls filter", e.Mode)
		}
	}

	best, err := store.HighScore(ctx, alice.ID, "walls")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if best != 50 {
		t.Errorf("HighScore() = %d, expected 50", best)
	}
	if best, _ := store.HighScore(ctx, bob.ID, "missing"); best != 0 {
		t.Errorf("HighScore() without scores = %d, expected 0", best)
	}
}

func TestWatchSessions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	store.now = fakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	alice, _ := store.EnsureUser(ctx, "alice")
	bob, _ := store.EnsureUser(ctx, "bob")

	w, err := store.StartWatch(ctx, alice, "walls")
	if err != nil {
		t.Fatalf("StartWatch() failed: %v", err)
	}

	if err := store.UpdateWatch(ctx, w.ID, alice.ID, 30, `{"score":30}`); err != nil {
		t.Fatalf("UpdateWatch() failed: %v", err)
	}
	if err := store.UpdateWatch(ctx, w.ID, bob.ID, 99, `{}`); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign UpdateWatch() error = %v, expected ErrNotFound", err)
	}

	active, err := store.ActiveWatches(ctx, time.Hour)
	if err != nil {
		t.Fatalf("ActiveWatches() failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d sessions, expected 1", len(active))
	}
	if active[0].Score != 30 || active[0].State != `{"score":30}` || active[0].Username != "alice" {
		t.Errorf("session = %+v", active[0])
	}

	if err := store.EndWatch(ctx, w.ID, alice.ID); err != nil {
		t.Fatalf("EndWatch() failed: %v", err)
	}
	if err := store.EndWatch(ctx, w.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second EndWatch() error = %v, expected ErrNotFound", err)
	}
}

func TestActiveWatchesPrunesIdle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	store.now = func() time.Time { return current }

	alice, _ := store.EnsureUser(ctx, "alice")
	if _, err := store.StartWatch(ctx, alice, "walls"); err != nil {
		t.Fatalf("StartWatch() failed: %v", err)
	}

	current = base.Add(2 * time.Minute)
	active, err := store.ActiveWatches(ctx, time.Minute)
	if err != nil {
		t.Fatalf("ActiveWatches() failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("got %d sessions, expected idle session to be pruned", len(active))
	}
}
