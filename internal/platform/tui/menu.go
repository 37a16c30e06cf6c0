package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MenuChoice is an entry of the main menu.
type MenuChoice int

const (
	MenuNone MenuChoice = iota
	MenuPlay
	MenuWatch
	MenuScores
	MenuAccount
	MenuQuit
)

// MenuItem is one selectable line of the main menu.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	user      string
	keyMapper *KeyMapper
	selected  MenuChoice
	quitting  bool
}

// NewMenuModel creates the main menu. The account entry is offered only
// when withAccount is set. user is shown in the header when not empty.
func NewMenuModel(width, height int, user string, withAccount bool) MenuModel {
	items := []MenuItem{
		{Choice: MenuPlay, Title: "Play"},
		{Choice: MenuWatch, Title: "Watch live games"},
		{Choice: MenuScores, Title: "Leaderboard"},
	}
	if withAccount {
		items = append(items, MenuItem{Choice: MenuAccount, Title: "Account"})
	}
	items = append(items, MenuItem{Choice: MenuQuit, Title: "Quit"})

	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		user:      user,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		choice := m.items[m.cursor].Choice
		if choice == MenuQuit {
			m.quitting = true
			break
		}
		m.selected = choice
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  S N A K E  "), m.width))
	b.WriteString("\n\n")

	subtitle := "Playing offline"
	if m.user != "" {
		subtitle = "Signed in as " + m.user
	}
	b.WriteString(centerText(dimStyle.Render(subtitle), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = "> " + item.Title
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen entry, or MenuNone while still choosing.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}
