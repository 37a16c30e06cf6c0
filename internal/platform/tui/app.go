package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

// Screen identifies a top-level screen.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenMode
	ScreenGame
	ScreenWatch
	ScreenScores
	ScreenAccount
)

// Start selects the first screen of an app.
type Start struct {
	Screen Screen
	// Mode is the game mode for ScreenGame. Nil shows the mode picker.
	Mode *snake.Mode
	// Filter is the first scoreboard tab for ScreenScores.
	Filter leaderboard.Filter
}

// AppModel manages the full flow: menu, mode picker, game, watch,
// scoreboard and account screens. It is the top-level model for both
// local terminals and SSH sessions.
type AppModel struct {
	env    Env
	screen Screen
	width  int
	height int

	menu    MenuModel
	mode    ModeModel
	game    GameModel
	watch   WatchModel
	scores  ScoreboardModel
	account AccountModel

	quitting bool
}

// NewApp creates the app on the start screen.
func NewApp(env Env, start Start, width, height int) AppModel {
	m := AppModel{env: env, width: width, height: height}
	m.menu = m.newMenu()

	switch start.Screen {
	case ScreenGame:
		if start.Mode != nil {
			m.screen = ScreenGame
			m.game = NewGameModel(env, *start.Mode, width, height)
			break
		}
		m.screen = ScreenMode
		m.mode = NewModeModel(width, height, env.Config.Mode())
	case ScreenMode:
		m.screen = ScreenMode
		m.mode = NewModeModel(width, height, env.Config.Mode())
	case ScreenWatch:
		m.screen = ScreenWatch
		m.watch = NewWatchModel(env, width, height)
	case ScreenScores:
		m.screen = ScreenScores
		m.scores = NewScoreboardModel(env, start.Filter, width, height)
	case ScreenAccount:
		if env.Auth != nil {
			m.screen = ScreenAccount
			m.account = NewAccountModel(env, width, height)
		}
	}
	return m
}

func (m AppModel) newMenu() MenuModel {
	return NewMenuModel(m.width, m.height, m.env.Service.Username(), m.env.Auth != nil)
}

// Init initializes the first screen.
func (m AppModel) Init() tea.Cmd {
	switch m.screen {
	case ScreenGame:
		return m.game.Init()
	case ScreenWatch:
		return m.watch.Init()
	case ScreenScores:
		return m.scores.Init()
	case ScreenAccount:
		return m.account.Init()
	case ScreenMode:
		return m.mode.Init()
	default:
		return m.menu.Init()
	}
}

// Update routes messages to the active screen and handles transitions.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case ScreenMode:
		return m.updateMode(msg)
	case ScreenGame:
		return m.updateGame(msg)
	case ScreenWatch:
		return m.updateWatch(msg)
	case ScreenScores:
		return m.updateScores(msg)
	case ScreenAccount:
		return m.updateAccount(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		return m.quit(cmd)
	}

	switch m.menu.Selected() {
	case MenuPlay:
		m.screen = ScreenMode
		m.mode = NewModeModel(m.width, m.height, m.env.Config.Mode())
		return m, m.mode.Init()
	case MenuWatch:
		m.screen = ScreenWatch
		m.watch = NewWatchModel(m.env, m.width, m.height)
		return m, m.watch.Init()
	case MenuScores:
		m.screen = ScreenScores
		m.scores = NewScoreboardModel(m.env, leaderboard.All, m.width, m.height)
		return m, m.scores.Init()
	case MenuAccount:
		m.screen = ScreenAccount
		m.account = NewAccountModel(m.env, m.width, m.height)
		return m, m.account.Init()
	}
	return m, cmd
}

func (m AppModel) updateMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.mode.Update(msg)
	if mode, ok := next.(ModeModel); ok {
		m.mode = mode
	}

	switch {
	case m.mode.IsQuitting():
		return m.quit(cmd)
	case m.mode.WantsBack():
		return m.toMenu(cmd)
	case m.mode.Selected() != nil:
		m.screen = ScreenGame
		m.game = NewGameModel(m.env, *m.mode.Selected(), m.width, m.height)
		return m, m.game.Init()
	}
	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = game
	}

	switch {
	case m.game.IsQuitting():
		return m.quit(cmd)
	case m.game.BackToMenu():
		return m.toMenu(cmd)
	}
	return m, cmd
}

func (m AppModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.watch.Update(msg)
	if watch, ok := next.(WatchModel); ok {
		m.watch = watch
	}

	switch {
	case m.watch.IsQuitting():
		return m.quit(cmd)
	case m.watch.WantsBack():
		return m.toMenu(cmd)
	}
	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	switch {
	case m.scores.IsQuitting():
		return m.quit(cmd)
	case m.scores.IsGoingBack():
		return m.toMenu(cmd)
	}
	return m, cmd
}

func (m AppModel) updateAccount(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.account.Update(msg)
	if account, ok := next.(AccountModel); ok {
		m.account = account
	}

	switch {
	case m.account.IsQuitting():
		return m.quit(cmd)
	case m.account.WantsBack():
		return m.toMenu(cmd)
	}
	return m, cmd
}

// toMenu returns to a fresh main menu, still running cmd from the screen
// being left.
func (m AppModel) toMenu(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.screen = ScreenMenu
	m.menu = m.newMenu()
	return m, tea.Batch(cmd, m.menu.Init())
}

// quit finishes cmd before stopping the program so a live session is
// closed on the way out.
func (m AppModel) quit(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.quitting = true
	if cmd == nil {
		return m, tea.Quit
	}
	return m, tea.Sequence(cmd, tea.Quit)
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case ScreenMode:
		return m.mode.View()
	case ScreenGame:
		return m.game.View()
	case ScreenWatch:
		return m.watch.View()
	case ScreenScores:
		return m.scores.View()
	case ScreenAccount:
		return m.account.View()
	default:
		return m.menu.View()
	}
}

// Screen returns the active screen.
func (m AppModel) Screen() Screen {
	return m.screen
}

// Run starts the app on the local terminal.
func Run(env Env, start Start, width, height int) error {
	p := tea.NewProgram(
		NewApp(env, start, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
