package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
	"github.com/vovakirdan/snake-arena/internal/spectator"
)

// rosterMsg carries a fresh active-player list.
type rosterMsg struct {
	owner   uint64
	players []leaderboard.ActivePlayer
	err     error
	// periodic is set for timer-driven fetches, which schedule the next
	// refresh when they land.
	periodic bool
}

// WatchModel shows live games. Each listed player is simulated locally by
// a spectator.Loop between roster refreshes.
type WatchModel struct {
	env       Env
	owner     uint64
	loop      *spectator.Loop
	screen    *core.Screen
	keyMapper *KeyMapper
	width     int
	height    int

	// focus is the id of the player shown on the board.
	focus    string
	loaded   bool
	lastErr  error
	quitting bool
	back     bool
}

// NewWatchModel creates the watch screen.
func NewWatchModel(env Env, width, height int) WatchModel {
	rng := env.rng()
	chance := env.Config.Watch.InputChance
	if chance <= 0 {
		chance = spectator.DefaultInputChance
	}
	return WatchModel{
		env:       env,
		owner:     nextOwner(),
		loop:      spectator.NewLoop(spectator.NewRandomSource(rng, chance), rng),
		screen:    core.NewScreen(width, height),
		keyMapper: NewKeyMapper(),
		width:     width,
		height:    height,
	}
}

// Init fetches the roster and starts the simulation timer.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(true), watchTickCmd(m.tickInterval(), m.stamp()))
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen = core.NewScreen(msg.Width, msg.Height)

	case watchTickMsg:
		if msg.stamp != m.stamp() {
			return m, nil
		}
		m.loop.Step()
		return m, watchTickCmd(m.tickInterval(), m.stamp())

	case refreshMsg:
		if msg.stamp != m.stamp() {
			return m, nil
		}
		return m, m.fetch(true)

	case rosterMsg:
		if msg.owner != m.owner {
			return m, nil
		}
		return m.handleRoster(msg)
	}
	return m, nil
}

func (m WatchModel) handleRoster(msg rosterMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if msg.periodic {
		next = refreshCmd(m.refreshInterval(), m.stamp())
	}
	m.loaded = true
	m.lastErr = msg.err
	if msg.err != nil {
		m.env.logger().Warn("active players unavailable", "error", msg.err)
		return m, next
	}

	m.loop.Sync(msg.players)
	if _, ok := m.loop.Player(m.focus); !ok {
		m.focus = ""
		if players := m.loop.Players(); len(players) > 0 {
			m.focus = players[0].ID
		}
	}
	return m, next
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
	case MenuActionBack:
		m.back = true
	case MenuActionRight, MenuActionDown:
		m.cycle(1)
	case MenuActionLeft, MenuActionUp:
		m.cycle(-1)
	case MenuActionSelect:
		return m, m.fetch(false)
	}
	return m, nil
}

// cycle moves the focus by delta players, wrapping around.
func (m *WatchModel) cycle(delta int) {
	players := m.loop.Players()
	if len(players) == 0 {
		return
	}
	idx := 0
	for i, p := range players {
		if p.ID == m.focus {
			idx = i
		}
	}
	idx = ((idx+delta)%len(players) + len(players)) % len(players)
	m.focus = players[idx].ID
}

// stamp tags the timers of this screen. The watch loop never changes
// generation, so the owner alone tells timers apart.
func (m WatchModel) stamp() stamp {
	return stamp{owner: m.owner}
}

func (m WatchModel) fetch(periodic bool) tea.Cmd {
	svc, owner := m.env.Service, m.owner
	return m.env.call(func(ctx context.Context) tea.Msg {
		players, err := svc.ActivePlayers(ctx)
		return rosterMsg{owner: owner, players: players, err: err, periodic: periodic}
	})
}

func (m WatchModel) tickInterval() time.Duration {
	if d := m.env.Config.Watch.TickInterval; d > 0 {
		return d
	}
	return 200 * time.Millisecond
}

func (m WatchModel) refreshInterval() time.Duration {
	if d := m.env.Config.Watch.RefreshInterval; d > 0 {
		return d
	}
	return 3 * time.Second
}

func (m *WatchModel) draw() {
	s := m.screen
	s.Clear()

	players := m.loop.Players()
	focused, ok := m.loop.Player(m.focus)
	if !ok {
		s.DrawTextCentered(0, "LIVE GAMES", core.ColorBrightCyan)
		msg := "Looking for players..."
		switch {
		case m.lastErr != nil:
			msg = "Live games are unavailable right now"
		case m.loaded:
			msg = "No one is playing right now"
		}
		s.DrawTextCentered(s.Height()/2, msg, core.ColorGray)
		s.DrawTextCentered(s.Height()-1, "Enter: Refresh  |  Esc: Back  |  Q: Quit", core.ColorGray)
		return
	}

	pos := 0
	for i, p := range players {
		if p.ID == focused.ID {
			pos = i + 1
		}
	}
	header := fmt.Sprintf("LIVE %d/%d   %s   %s   Score: %d",
		pos, len(players), focused.Username, focused.Mode.Label(), focused.State.Score)
	s.DrawTextCentered(0, header, core.ColorBrightCyan)

	x := core.Clamp((s.Width()-snake.BoardWidth)/2, 0, s.Width())
	snake.Render(s, focused.State, x, 1, snake.BoardStyle{Walled: focused.Mode == snake.ModeWalled})
	m.drawRoster(players, focused.ID, x+snake.BoardWidth+2)

	if focused.Restarts > 0 {
		s.DrawTextCentered(snake.BoardHeight+1, fmt.Sprintf("restarted %d times", focused.Restarts), core.ColorGray)
	}
	s.DrawTextCentered(s.Height()-1, "Left/Right: Switch player  |  Esc: Back  |  Q: Quit", core.ColorGray)
}

// drawRoster lists the players to the right of the board when it fits.
func (m *WatchModel) drawRoster(players []spectator.Player, focus string, x int) {
	const nameW = 12
	if x+nameW+6 > m.screen.Width() {
		return
	}
	for i, p := range players {
		y := 1 + i
		if y >= snake.BoardHeight {
			break
		}
		name := []rune(p.Username)
		if len(name) > nameW {
			name = name[:nameW]
		}
		line := fmt.Sprintf("%-*s %5d", nameW, string(name), p.State.Score)
		if p.ID == focus {
			m.screen.DrawTextColor(x, y, line, core.ColorBrightYellow)
			continue
		}
		m.screen.DrawText(x, y, line)
	}
}

// View renders the watch screen.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width < minScreenW || m.height < minScreenH {
		return centerText(fmt.Sprintf("Terminal too small: need %dx%d", minScreenW, minScreenH), m.width)
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Focus returns the id of the player on the board, or "".
func (m WatchModel) Focus() string {
	return m.focus
}

// Loop exposes the spectator simulation.
func (m WatchModel) Loop() *spectator.Loop {
	return m.loop
}

// IsQuitting returns true if user wants to quit.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m WatchModel) WantsBack() bool {
	return m.back
}
