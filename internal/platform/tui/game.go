package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
	"github.com/vovakirdan/snake-arena/internal/session"
)

// Minimum terminal size for the game and watch screens.
const (
	minScreenW = snake.BoardWidth
	minScreenH = snake.BoardHeight + 4
)

// liveStartedMsg carries the id of a published watch session.
type liveStartedMsg struct {
	owner uint64
	round int
	id    string
	err   error
}

// liveErrMsg reports a failed publish call.
type liveErrMsg struct {
	op  string
	err error
}

// submittedMsg reports the outcome of a score submission.
type submittedMsg struct {
	owner uint64
	entry leaderboard.Entry
	ok    bool
}

// topScoreMsg carries the best scores for the current mode.
type topScoreMsg struct {
	owner uint64
	score int
	// best is the player's own best, when the service tracks it.
	best int
	err  error
}

// bestScorer is implemented by services that know the player's own best.
type bestScorer interface {
	Best(ctx context.Context, mode snake.Mode) (int, error)
}

// GameModel drives one interactive snake game. It owns a session.Session
// and feeds it timer ticks and steering keys.
type GameModel struct {
	env       Env
	owner     uint64
	session   *session.Session
	screen    *core.Screen
	keyMapper *KeyMapper
	width     int
	height    int

	// round increments on every start so a slow publish reply for an
	// abandoned game can be recognized.
	round  int
	liveID string

	top        int
	best       int
	lastEntry  *leaderboard.Entry
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game screen for mode. The game waits for the
// player to press Enter.
func NewGameModel(env Env, mode snake.Mode, width, height int) GameModel {
	return GameModel{
		env:       env,
		owner:     nextOwner(),
		session:   session.New(mode, env.Service, env.rng()),
		screen:    core.NewScreen(width, height),
		keyMapper: NewKeyMapper(),
		width:     width,
		height:    height,
	}
}

// Init loads the best score for the mode.
func (m GameModel) Init() tea.Cmd {
	return m.loadTop()
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick(msg)
	case liveStartedMsg:
		return m.handleLiveStarted(msg)
	case liveErrMsg:
		m.env.logger().Warn("live update failed", "op", msg.op, "error", msg.err)
	case submittedMsg:
		if msg.owner == m.owner && msg.ok {
			entry := msg.entry
			m.lastEntry = &entry
			return m, m.loadTop()
		}
	case topScoreMsg:
		if msg.owner != m.owner {
			return m, nil
		}
		if msg.err != nil {
			m.env.logger().Debug("top score unavailable", "error", msg.err)
			return m, nil
		}
		m.top = msg.score
		m.best = msg.best
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, dir := m.keyMapper.MapKeyToGameAction(msg)

	switch action {
	case GameActionQuit:
		m.quitting = true
		end := m.endLive()
		return m, end

	case GameActionBack:
		if m.session.Running() {
			// Esc pauses first so a stray key does not throw a game away.
			m.session.Pause()
			return m, nil
		}
		m.backToMenu = true
		end := m.endLive()
		return m, end

	case GameActionSteer:
		m.session.Steer(dir)

	case GameActionPause:
		if m.session.TogglePause() && m.session.Running() {
			return m, m.nextTick()
		}

	case GameActionRestart:
		if m.session.Running() {
			return m, nil
		}
		end := m.endLive()
		m.session.Restart()
		m.round++
		m.lastEntry = nil
		return m, tea.Batch(end, m.startLive(), m.nextTick())

	case GameActionScreenshot:
		m.saveScreenshot()
	}

	return m, nil
}

func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.screen = core.NewScreen(msg.Width, msg.Height)
	return m, nil
}

func (m GameModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.owner != m.owner || msg.gen != m.session.Generation() {
		return m, nil
	}

	res := m.session.Tick()
	if !res.Advanced {
		return m, nil
	}

	if res.Ended {
		snap := res.State.Snapshot()
		m.env.logger().Info("game over",
			"mode", m.session.Mode(),
			"score", snap.Score,
			"length", snap.Length,
			"ticks", m.session.Ticks(),
		)
		end := m.endLive()
		cmds := []tea.Cmd{end}
		if res.Report != nil {
			cmds = append(cmds, m.submit(*res.Report))
		}
		return m, tea.Batch(cmds...)
	}

	var publish tea.Cmd
	if every := m.env.Config.Game.PublishEvery; m.liveID != "" && every > 0 && m.session.Ticks()%uint64(every) == 0 {
		publish = m.updateLive(res.State)
	}
	return m, tea.Batch(publish, m.nextTick())
}

func (m GameModel) handleLiveStarted(msg liveStartedMsg) (tea.Model, tea.Cmd) {
	if msg.owner != m.owner {
		return m, nil
	}
	if msg.err != nil {
		m.env.logger().Warn("live session not started", "error", msg.err)
		return m, nil
	}
	if msg.round != m.round || !m.session.Running() && m.session.Status() != session.StatusPaused {
		// The game it was started for is already gone.
		return m, m.endLiveID(msg.id, m.session.State().Score)
	}
	m.liveID = msg.id
	return m, nil
}

func (m GameModel) nextTick() tea.Cmd {
	interval := m.env.Config.Game.TickInterval
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	return tickCmd(interval, stamp{owner: m.owner, gen: m.session.Generation()})
}

func (m GameModel) publishing() bool {
	return m.env.Config.Game.PublishEvery > 0 && m.env.Service.Authenticated()
}

func (m GameModel) startLive() tea.Cmd {
	if !m.publishing() {
		return nil
	}
	svc, mode := m.env.Service, m.session.Mode()
	owner, round := m.owner, m.round
	return m.env.call(func(ctx context.Context) tea.Msg {
		id, err := svc.StartSession(ctx, mode)
		return liveStartedMsg{owner: owner, round: round, id: id, err: err}
	})
}

func (m GameModel) updateLive(state snake.GameState) tea.Cmd {
	svc, id := m.env.Service, m.liveID
	state = state.Clone()
	return m.env.call(func(ctx context.Context) tea.Msg {
		if err := svc.UpdateSession(ctx, id, state); err != nil {
			return liveErrMsg{op: "update", err: err}
		}
		return nil
	})
}

// endLive closes the published session, if any.
func (m *GameModel) endLive() tea.Cmd {
	if m.liveID == "" {
		return nil
	}
	id := m.liveID
	m.liveID = ""
	return m.endLiveID(id, m.session.State().Score)
}

func (m GameModel) endLiveID(id string, score int) tea.Cmd {
	svc, mode := m.env.Service, m.session.Mode()
	return m.env.call(func(ctx context.Context) tea.Msg {
		if err := svc.EndSession(ctx, id, score, mode); err != nil {
			return liveErrMsg{op: "end", err: err}
		}
		return nil
	})
}

func (m GameModel) submit(rep session.Report) tea.Cmd {
	svc, logger, owner := m.env.Service, m.env.logger(), m.owner
	return m.env.call(func(ctx context.Context) tea.Msg {
		entry, ok := session.Submit(ctx, svc, rep, logger)
		return submittedMsg{owner: owner, entry: entry, ok: ok}
	})
}

func (m GameModel) loadTop() tea.Cmd {
	svc, mode, owner := m.env.Service, m.session.Mode(), m.owner
	return m.env.call(func(ctx context.Context) tea.Msg {
		entries, err := svc.Leaderboard(ctx, 1, leaderboard.ForMode(mode))
		msg := topScoreMsg{owner: owner, err: err}
		if err != nil {
			return msg
		}
		if len(entries) > 0 {
			msg.score = entries[0].Score
		}
		if b, ok := svc.(bestScorer); ok {
			msg.best, msg.err = b.Best(ctx, mode)
		}
		return msg
	})
}

// saveScreenshot writes the current screen as plain text.
func (m *GameModel) saveScreenshot() {
	dir := m.env.Screenshots
	if dir == "" {
		return
	}
	m.draw()

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("snake_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// draw renders the game into the screen buffer.
func (m *GameModel) draw() {
	s := m.screen
	s.Clear()

	state := m.session.State()
	mode := m.session.Mode()

	header := fmt.Sprintf("%s   Score: %d   Top: %d", mode.Label(), state.Score, max(m.top, state.Score))
	if name := m.env.Service.Username(); name != "" {
		if _, ok := m.env.Service.(bestScorer); ok {
			header += fmt.Sprintf("   Best: %d", m.best)
		}
		header += "   " + name
	}
	s.DrawTextCentered(0, header, core.ColorBrightCyan)

	x := core.Clamp((s.Width()-snake.BoardWidth)/2, 0, s.Width())
	status := m.session.Status()
	snake.Render(s, state, x, 1, snake.BoardStyle{
		Walled: mode == snake.ModeWalled,
		Dim:    status == session.StatusPaused || status == session.StatusOver,
	})

	line := snake.BoardHeight + 1
	switch status {
	case session.StatusNotStarted:
		s.DrawTextCentered(line, "Press Enter to start", core.ColorBrightYellow)
	case session.StatusPaused:
		s.DrawTextCentered(line, "PAUSED", core.ColorBrightYellow)
	case session.StatusOver:
		s.DrawTextCentered(line, fmt.Sprintf("GAME OVER  -  score %d", state.Score), core.ColorBrightRed)
		s.DrawTextCentered(line+1, m.notice(state.Score), core.ColorGray)
	}

	s.DrawTextCentered(s.Height()-1, m.controls(status), core.ColorGray)
}

func (m GameModel) notice(score int) string {
	switch {
	case m.lastEntry != nil:
		return fmt.Sprintf("Score recorded for %s", m.lastEntry.Username)
	case score > 0 && !m.env.Service.Authenticated():
		return "Sign in to record your score"
	default:
		return ""
	}
}

func (m GameModel) controls(status session.Status) string {
	switch status {
	case session.StatusRunning:
		return "Arrows/WASD: Steer  |  P: Pause  |  Esc: Pause  |  Q: Quit"
	case session.StatusPaused:
		return "P: Resume  |  Esc: Menu  |  Q: Quit"
	default:
		return "Enter: Play  |  Esc: Menu  |  Q: Quit"
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width < minScreenW || m.height < minScreenH {
		return centerText(fmt.Sprintf("Terminal too small: need %dx%d", minScreenW, minScreenH), m.width)
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Session exposes the underlying game loop.
func (m GameModel) Session() *session.Session {
	return m.session
}

// LiveID returns the id of the published watch session, or "".
func (m GameModel) LiveID() string {
	return m.liveID
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
