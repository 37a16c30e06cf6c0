package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// KeyMapper translates Bubble Tea key messages to menu and game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// GameAction is an action on the game screen.
type GameAction int

const (
	GameActionNone GameAction = iota
	GameActionSteer
	GameActionPause
	GameActionRestart
	GameActionBack
	GameActionQuit
	GameActionScreenshot
)

// MapKeyToGameAction maps a key on the game screen. The direction is set
// only for GameActionSteer.
func (km *KeyMapper) MapKeyToGameAction(msg tea.KeyMsg) (GameAction, snake.Direction) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return GameActionQuit, snake.DirNone
	case "p", " ", "space":
		return GameActionPause, snake.DirNone
	case "r", "enter":
		return GameActionRestart, snake.DirNone
	case "b", "esc":
		return GameActionBack, snake.DirNone
	case "ctrl+s":
		return GameActionScreenshot, snake.DirNone
	}

	if d := snake.DirectionForKey(key); d != snake.DirNone {
		return GameActionSteer, d
	}
	return GameActionNone, snake.DirNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key message to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h", "shift+tab":
		return MenuActionLeft
	case "d", "right", "l", "tab":
		return MenuActionRight
	case "enter", " ", "space":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
