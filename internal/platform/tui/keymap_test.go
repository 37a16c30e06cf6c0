package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestMapKeyToGameAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		key    tea.KeyMsg
		action GameAction
		dir    snake.Direction
	}{
		{"arrow up", keyType(tea.KeyUp), GameActionSteer, snake.DirUp},
		{"arrow down", keyType(tea.KeyDown), GameActionSteer, snake.DirDown},
		{"arrow left", keyType(tea.KeyLeft), GameActionSteer, snake.DirLeft},
		{"arrow right", keyType(tea.KeyRight), GameActionSteer, snake.DirRight},
		{"w", keyRune('w'), GameActionSteer, snake.DirUp},
		{"a", keyRune('a'), GameActionSteer, snake.DirLeft},
		{"s", keyRune('s'), GameActionSteer, snake.DirDown},
		{"d", keyRune('d'), GameActionSteer, snake.DirRight},
		{"p", keyRune('p'), GameActionPause, snake.DirNone},
		{"space", keyRune(' '), GameActionPause, snake.DirNone},
		{"r", keyRune('r'), GameActionRestart, snake.DirNone},
		{"enter", keyType(tea.KeyEnter), GameActionRestart, snake.DirNone},
		{"esc", keyType(tea.KeyEsc), GameActionBack, snake.DirNone},
		{"q", keyRune('q'), GameActionQuit, snake.DirNone},
		{"ctrl+c", keyType(tea.KeyCtrlC), GameActionQuit, snake.DirNone},
		{"ctrl+s", keyType(tea.KeyCtrlS), GameActionScreenshot, snake.DirNone},
		{"unbound", keyRune('x'), GameActionNone, snake.DirNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, dir := km.MapKeyToGameAction(tt.key)
			if action != tt.action || dir != tt.dir {
				t.Errorf("MapKeyToGameAction(%q) = %v, %v; expected %v, %v",
					tt.key.String(), action, dir, tt.action, tt.dir)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key  tea.KeyMsg
		want MenuAction
	}{
		{keyType(tea.KeyUp), MenuActionUp},
		{keyRune('k'), MenuActionUp},
		{keyType(tea.KeyDown), MenuActionDown},
		{keyRune('j'), MenuActionDown},
		{keyType(tea.KeyTab), MenuActionRight},
		{keyType(tea.KeyShiftTab), MenuActionLeft},
		{keyType(tea.KeyEnter), MenuActionSelect},
		{keyType(tea.KeyEsc), MenuActionBack},
		{keyRune('b'), MenuActionBack},
		{keyRune('q'), MenuActionQuit},
		{keyRune('z'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.key); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.key.String(), got, tt.want)
		}
	}
}
