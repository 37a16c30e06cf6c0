package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

var modeHints = map[snake.Mode]string{
	snake.ModeWrap:   "leave one edge, enter at the opposite one",
	snake.ModeWalled: "touching an edge ends the game",
}

// ModeModel lets the user choose the boundary mode before a game.
type ModeModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selected  *snake.Mode
	quitting  bool
	back      bool
}

// NewModeModel creates the picker with initial highlighted.
func NewModeModel(width, height int, initial snake.Mode) ModeModel {
	cursor := 0
	for i, mode := range snake.Modes {
		if mode == initial {
			cursor = i
		}
	}
	return ModeModel{
		cursor:    cursor,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m ModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m ModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
	case MenuActionBack:
		m.back = true
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(snake.Modes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		mode := snake.Modes[m.cursor]
		m.selected = &mode
	}
	return m, nil
}

// View renders the mode selection.
func (m ModeModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S N A K E"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select game mode:", m.width))
	b.WriteString("\n\n")

	for i, mode := range snake.Modes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-13s", cursor, mode.Label()), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(modeHints[snake.Modes[m.cursor]]), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))

	return b.String()
}

// Selected returns the chosen mode, or nil if still choosing.
func (m ModeModel) Selected() *snake.Mode {
	return m.selected
}

// IsQuitting returns true if user wants to quit.
func (m ModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m ModeModel) WantsBack() bool {
	return m.back
}
