package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

// Scoreboard layout constants
const (
	tableMinWidth = 50
	maxScores     = leaderboard.MaxLimit
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Refresh  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// scoreboardFilters are the tabs of the scoreboard, in order.
var scoreboardFilters = []leaderboard.Filter{
	leaderboard.All,
	leaderboard.ForMode(snake.ModeWrap),
	leaderboard.ForMode(snake.ModeWalled),
}

// scoresMsg carries a loaded leaderboard page.
type scoresMsg struct {
	owner   uint64
	filter  leaderboard.Filter
	entries []leaderboard.Entry
	err     error
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	env       Env
	owner     uint64
	tab       int
	entries   []leaderboard.Entry
	loading   bool
	err       error
	table     table.Model
	withMode  bool
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard showing initial first.
func NewScoreboardModel(env Env, initial leaderboard.Filter, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := ScoreboardModel{
		env:     env,
		owner:   nextOwner(),
		keys:    DefaultScoreboardKeyMap(),
		help:    h,
		width:   width,
		height:  height,
		loading: true,
	}
	for i, f := range scoreboardFilters {
		if f == initial {
			m.tab = i
		}
	}
	m.table = m.createTable()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Mode", Width: 13},
		{Title: "Date", Width: 14},
	}

	// Drop the mode column on a filtered tab or a narrow terminal.
	m.withMode = m.filter() == leaderboard.All && m.width >= tableMinWidth+20
	if !m.withMode {
		columns = append(columns[:3], columns[4])
	}

	height := m.height - 9
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m ScoreboardModel) filter() leaderboard.Filter {
	return scoreboardFilters[m.tab]
}

// load fetches the current tab.
func (m ScoreboardModel) load() tea.Cmd {
	svc, owner, filter := m.env.Service, m.owner, m.filter()
	return m.env.call(func(ctx context.Context) tea.Msg {
		entries, err := svc.Leaderboard(ctx, maxScores, filter)
		return scoresMsg{owner: owner, filter: filter, entries: entries, err: err}
	})
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		row := table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Username,
			fmt.Sprintf("%d", e.Score),
		}
		if m.withMode {
			row = append(row, e.Mode.Label())
		}
		rows[i] = append(row, e.Date.Local().Format("Jan 02 15:04"))
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init loads the first tab.
func (m ScoreboardModel) Init() tea.Cmd {
	return m.load()
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextMode):
			return m.switchTab(1)

		case key.Matches(msg, m.keys.PrevMode):
			return m.switchTab(-1)

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.load()

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case scoresMsg:
		// A reply for a tab the user already left is dropped.
		if msg.owner != m.owner || msg.filter != m.filter() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.env.logger().Warn("leaderboard unavailable", "filter", msg.filter, "error", msg.err)
			m.entries = nil
		} else {
			m.entries = msg.entries
		}
		m.updateTableRows()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) switchTab(delta int) (tea.Model, tea.Cmd) {
	n := len(scoreboardFilters)
	m.tab = ((m.tab+delta)%n + n) % n
	m.entries = nil
	m.err = nil
	m.loading = true
	m.table = m.createTable()
	m.updateTableRows()
	return m, m.load()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(centerText(titleStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n\n")

	tabs := make([]string, len(scoreboardFilters))
	for i, f := range scoreboardFilters {
		if i == m.tab {
			tabs[i] = selectedStyle.Padding(0, 1).Render(f.Label())
		} else {
			tabs[i] = dimStyle.Render(" " + f.Label() + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or a placeholder message.
func (m ScoreboardModel) renderTableContent() string {
	placeholder := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return placeholder.Foreground(lipgloss.Color("9")).Render("Could not load scores.\n" + m.err.Error())
	case m.loading && len(m.entries) == 0:
		return placeholder.Render("Loading...")
	case len(m.entries) == 0:
		return placeholder.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// Entries returns the rows currently shown.
func (m ScoreboardModel) Entries() []leaderboard.Entry {
	return m.entries
}

// Filter returns the active tab.
func (m ScoreboardModel) Filter() leaderboard.Filter {
	return m.filter()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
