package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
	"github.com/vovakirdan/snake-arena/internal/session"
)

// tick delivers a tick stamped for the model's current generation.
func tick(t *testing.T, m GameModel) (GameModel, tea.Cmd) {
	t.Helper()
	return send(t, m, TickMsg{stamp: stamp{owner: m.owner, gen: m.session.Generation()}})
}

func startedGame(t *testing.T, env Env, mode snake.Mode) GameModel {
	t.Helper()
	m := NewGameModel(env, mode, 80, 30)
	m, cmd := send(t, m, keyType(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("starting a game must schedule a tick")
	}
	if got := m.Session().Status(); got != session.StatusRunning {
		t.Fatalf("status = %v, expected running", got)
	}
	return m
}

func TestGameWaitsForEnter(t *testing.T) {
	env := testEnv(t, openStore(t), "alice")
	m := NewGameModel(env, snake.ModeWrap, 80, 30)

	if got := m.Session().Status(); got != session.StatusNotStarted {
		t.Fatalf("status = %v, expected not started", got)
	}
	m, _ = tick(t, m)
	if m.Session().Ticks() != 0 {
		t.Error("tick before start must not advance the game")
	}
	if !strings.Contains(m.View(), "Press Enter to start") {
		t.Error("view must prompt for Enter before the game starts")
	}
}

func TestGameSteerAndTick(t *testing.T) {
	env := testEnv(t, openStore(t), "alice")
	m := startedGame(t, env, snake.ModeWrap)

	m, _ = send(t, m, keyRune('s'))
	if got := m.Session().Pending(); got != snake.DirDown {
		t.Fatalf("Pending = %v, expected down", got)
	}

	m, cmd := tick(t, m)
	if cmd == nil {
		t.Error("a running game must schedule the next tick")
	}
	state := m.Session().State()
	if state.Direction != snake.DirDown || state.Head() != (snake.Position{X: 10, Y: 11}) {
		t.Errorf("after steering down: direction %v head %v", state.Direction, state.Head())
	}
	if m.Session().Pending() != snake.DirNone {
		t.Error("the steering request must be consumed by the tick")
	}
}

func TestGameIgnoresStaleTicks(t *testing.T) {
	env := testEnv(t, openStore(t), "alice")
	m := startedGame(t, env, snake.ModeWrap)
	old := TickMsg{stamp: stamp{owner: m.owner, gen: m.session.Generation()}}

	m, _ = send(t, m, keyRune('p'))
	if got := m.Session().Status(); got != session.StatusPaused {
		t.Fatalf("status = %v, expected paused", got)
	}
	m, _ = send(t, m, old)
	if m.Session().Ticks() != 0 {
		t.Error("a tick scheduled before the pause must be ignored")
	}

	m, cmd := send(t, m, keyRune('p'))
	if cmd == nil {
		t.Fatal("resuming must schedule a tick")
	}
	m, _ = send(t, m, old)
	if m.Session().Ticks() != 0 {
		t.Error("a tick from the previous generation must be ignored after resume")
	}
	m, _ = tick(t, m)
	if m.Session().Ticks() != 1 {
		t.Errorf("Ticks = %d, expected 1", m.Session().Ticks())
	}

	other := NewGameModel(env, snake.ModeWrap, 80, 30)
	m, _ = send(t, m, TickMsg{stamp: stamp{owner: other.owner, gen: m.session.Generation()}})
	if m.Session().Ticks() != 1 {
		t.Error("a tick from another screen must be ignored")
	}
}

func TestGameWalledRunEnds(t *testing.T) {
	env := testEnv(t, openStore(t), "alice")
	m := startedGame(t, env, snake.ModeWalled)

	// Heading right from x=10, the tenth step leaves the grid.
	for i := range 10 {
		if m.Session().Status() != session.StatusRunning {
			t.Fatalf("game ended early at tick %d", i)
		}
		m, _ = tick(t, m)
	}

	if got := m.Session().Status(); got != session.StatusOver {
		t.Fatalf("status = %v, expected over", got)
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("view must announce the game over")
	}

	m, _ = send(t, m, keyType(tea.KeyEnter))
	if got := m.Session().Status(); got != session.StatusRunning {
		t.Errorf("status after restart = %v, expected running", got)
	}
	if m.Session().State().Score != 0 {
		t.Error("restart must reset the score")
	}
}

func TestGameEscPausesThenLeaves(t *testing.T) {
	env := testEnv(t, openStore(t), "alice")
	m := startedGame(t, env, snake.ModeWrap)

	m, _ = send(t, m, keyType(tea.KeyEsc))
	if m.BackToMenu() {
		t.Fatal("esc on a running game must pause, not leave")
	}
	if m.Session().Status() != session.StatusPaused {
		t.Fatalf("status = %v, expected paused", m.Session().Status())
	}

	m, _ = send(t, m, keyType(tea.KeyEsc))
	if !m.BackToMenu() {
		t.Error("esc on a paused game must go back to the menu")
	}
}

func TestGamePublishesLiveSession(t *testing.T) {
	ctx := context.Background()
	env := testEnv(t, openStore(t), "alice")
	m := startedGame(t, env, snake.ModeWrap)

	msg := m.startLive()()
	m, _ = send(t, m, msg)
	if m.LiveID() == "" {
		t.Fatal("live session id not recorded")
	}

	m, _ = tick(t, m)
	if out := m.updateLive(m.Session().State())(); out != nil {
		t.Fatalf("updateLive() = %#v", out)
	}

	players, err := env.Service.ActivePlayers(ctx)
	if err != nil {
		t.Fatalf("ActivePlayers() failed: %v", err)
	}
	if len(players) != 1 || players[0].ID != m.LiveID() || players[0].Username != "alice" {
		t.Fatalf("players = %+v", players)
	}
	if players[0].State.Head() != m.Session().State().Head() {
		t.Errorf("published head %v, expected %v", players[0].State.Head(), m.Session().State().Head())
	}

	m, cmd := send(t, m, keyRune('q'))
	if !m.IsQuitting() {
		t.Fatal("q must quit")
	}
	if cmd == nil {
		t.Fatal("quitting must close the live session")
	}
	if out := cmd(); out != nil {
		t.Fatalf("end cmd = %#v", out)
	}

	players, err = env.Service.ActivePlayers(ctx)
	if err != nil {
		t.Fatalf("ActivePlayers() failed: %v", err)
	}
	if len(players) != 0 {
		t.Errorf("players after quit = %+v", players)
	}
}

func TestGameLateLiveStartIsClosed(t *testing.T) {
	ctx := context.Background()
	env := testEnv(t, openStore(t), "alice")
	m := startedGame(t, env, snake.ModeWrap)

	late := m.startLive()()

	// The player restarts after dying before the reply arrives.
	m.session.Restart()
	m.round++

	m, cmd := send(t, m, late)
	if m.LiveID() != "" {
		t.Fatal("a reply for an abandoned game must not be adopted")
	}
	if cmd == nil {
		t.Fatal("the abandoned live session must be closed")
	}
	cmd()

	players, err := env.Service.ActivePlayers(ctx)
	if err != nil {
		t.Fatalf("ActivePlayers() failed: %v", err)
	}
	if len(players) != 0 {
		t.Errorf("players = %+v", players)
	}
}

func TestGameAnonymousDoesNotPublish(t *testing.T) {
	env := testEnv(t, openStore(t), "")
	m := startedGame(t, env, snake.ModeWrap)

	if m.startLive() != nil {
		t.Error("an anonymous player must not publish a live session")
	}
}

func TestGameSubmitRecordsScore(t *testing.T) {
	ctx := context.Background()
	env := testEnv(t, openStore(t), "alice")
	m := startedGame(t, env, snake.ModeWalled)

	msg := m.submit(session.Report{Score: 30, Mode: snake.ModeWalled})()
	sub, ok := msg.(submittedMsg)
	if !ok || !sub.ok {
		t.Fatalf("submit() = %#v", msg)
	}
	m, cmd := send(t, m, sub)
	if cmd == nil {
		t.Error("a recorded score must refresh the top score")
	}

	top := m.loadTop()()
	m, _ = send(t, m, top)
	if m.top != 30 || m.best != 30 {
		t.Errorf("top/best = %d/%d, expected 30/30", m.top, m.best)
	}

	entries, err := env.Service.Leaderboard(ctx, 10, leaderboard.ForMode(snake.ModeWalled))
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Username != "alice" || entries[0].Score != 30 {
		t.Errorf("entries = %+v", entries)
	}
	if !strings.Contains(m.notice(30), "Score recorded") {
		t.Errorf("notice = %q", m.notice(30))
	}
}

func TestGameViewTooSmall(t *testing.T) {
	env := testEnv(t, openStore(t), "alice")
	m := NewGameModel(env, snake.ModeWrap, 20, 10)

	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("a tiny terminal must show the size hint")
	}
}
