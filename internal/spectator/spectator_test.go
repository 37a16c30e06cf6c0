package spectator

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

// fixedSource always requests the same direction.
type fixedSource snake.Direction

func (f fixedSource) Next(string, snake.GameState) snake.Direction {
	return snake.Direction(f)
}

func newRNG() *rand.Rand { return rand.New(rand.NewSource(7)) }

func activePlayer(id string, mode snake.Mode, state snake.GameState) leaderboard.ActivePlayer {
	return leaderboard.ActivePlayer{ID: id, Username: "user-" + id, Mode: mode, State: state, Score: state.Score}
}

func wallBound() snake.GameState {
	return snake.GameState{
		Snake:     []snake.Position{{X: 19, Y: 2}, {X: 18, Y: 2}},
		Food:      snake.Position{X: 0, Y: 0},
		Direction: snake.DirRight,
		Score:     40,
	}
}

func TestLoopRestartsOnGameOver(t *testing.T) {
	l := NewLoop(fixedSource(snake.DirNone), newRNG())
	l.Sync([]leaderboard.ActivePlayer{activePlayer("a", snake.ModeWalled, wallBound())})

	l.Step()

	p, ok := l.Player("a")
	if !ok {
		t.Fatal("player missing")
	}
	if p.State.GameOver {
		t.Fatal("spectated game must restart instead of staying over")
	}
	if p.Restarts != 1 {
		t.Errorf("Restarts = %d, expected 1", p.Restarts)
	}
	if p.State.Score != 0 || len(p.State.Snake) != 3 {
		t.Errorf("restarted state = %+v", p.State)
	}
}

func TestLoopPlayersAreIndependent(t *testing.T) {
	l := NewLoop(fixedSource(snake.DirNone), newRNG())
	safe := snake.GameState{
		Snake:     []snake.Position{{X: 5, Y: 5}, {X: 4, Y: 5}},
		Food:      snake.Position{X: 0, Y: 19},
		Direction: snake.DirRight,
		Score:     20,
	}
	l.Sync([]leaderboard.ActivePlayer{
		activePlayer("a", snake.ModeWalled, wallBound()),
		activePlayer("b", snake.ModeWalled, safe),
	})

	l.Step()

	b, _ := l.Player("b")
	if b.State.Head() != (snake.Position{X: 6, Y: 5}) || b.State.Score != 20 || b.Restarts != 0 {
		t.Errorf("player b was affected by player a: %+v", b)
	}
}

func TestLoopUsesSource(t *testing.T) {
	l := NewLoop(fixedSource(snake.DirDown), newRNG())
	l.Sync([]leaderboard.ActivePlayer{activePlayer("a", snake.ModeWrap, snake.GameState{
		Snake:     []snake.Position{{X: 5, Y: 5}, {X: 4, Y: 5}},
		Food:      snake.Position{X: 0, Y: 19},
		Direction: snake.DirRight,
	})})

	l.Step()

	p, _ := l.Player("a")
	if p.State.Direction != snake.DirDown || p.State.Head() != (snake.Position{X: 5, Y: 6}) {
		t.Errorf("state = %+v, expected a turn down", p.State)
	}
}

func TestLoopSync(t *testing.T) {
	l := NewLoop(fixedSource(snake.DirNone), newRNG())
	l.Sync([]leaderboard.ActivePlayer{
		activePlayer("a", snake.ModeWrap, snake.GameState{}),
		activePlayer("b", snake.ModeWrap, snake.GameState{}),
	})
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", l.Len())
	}

	// Empty published states are replaced by fresh games.
	a, _ := l.Player("a")
	if len(a.State.Snake) != 3 || a.State.GameOver {
		t.Errorf("seeded state = %+v", a.State)
	}

	l.Step()
	l.Step()
	simulated, _ := l.Player("a")

	// A refresh keeps the local simulation of players still listed and
	// drops the others.
	l.Sync([]leaderboard.ActivePlayer{
		{ID: "a", Username: "renamed", Mode: snake.ModeWrap},
		activePlayer("c", snake.ModeWalled, snake.GameState{}),
	})

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", l.Len())
	}
	if _, ok := l.Player("b"); ok {
		t.Error("player b should have been dropped")
	}
	a, _ = l.Player("a")
	if a.Username != "renamed" {
		t.Errorf("Username = %q, expected metadata refresh", a.Username)
	}
	if a.State.Head() != simulated.State.Head() {
		t.Error("refresh must not reset a player's simulation")
	}

	players := l.Players()
	if players[0].ID != "a" || players[1].ID != "c" {
		t.Errorf("order = %s, %s", players[0].ID, players[1].ID)
	}
}

func TestLoopSyncDoesNotAlias(t *testing.T) {
	l := NewLoop(fixedSource(snake.DirNone), newRNG())
	state := snake.GameState{
		Snake:     []snake.Position{{X: 5, Y: 5}, {X: 4, Y: 5}},
		Food:      snake.Position{X: 0, Y: 19},
		Direction: snake.DirRight,
	}
	l.Sync([]leaderboard.ActivePlayer{activePlayer("a", snake.ModeWrap, state)})

	state.Snake[0] = snake.Position{X: 9, Y: 9}

	p, _ := l.Player("a")
	if p.State.Head() != (snake.Position{X: 5, Y: 5}) {
		t.Error("seeded state must not share memory with the fetched list")
	}
}

func TestRandomSource(t *testing.T) {
	src := NewRandomSource(rand.New(rand.NewSource(3)), DefaultInputChance)

	turns := 0
	const n = 10000
	for range n {
		d := src.Next("x", snake.GameState{})
		if d == snake.DirNone {
			continue
		}
		if !d.Valid() {
			t.Fatalf("invalid direction %v", d)
		}
		turns++
	}

	// Expect about 10% with a generous margin.
	if turns < n/20 || turns > n/5 {
		t.Errorf("turns = %d of %d, expected about %d", turns, n, n/10)
	}

	never := NewRandomSource(rand.New(rand.NewSource(3)), 0)
	for range 100 {
		if never.Next("x", snake.GameState{}) != snake.DirNone {
			t.Fatal("zero chance must never turn")
		}
	}
}
