// Package tui provides the Bubble Tea front end for snake: menus, the game
// and watch screens, the scoreboard, account forms and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// modelSeq hands out owner ids so timers started by one screen never drive
// a later screen of the same kind.
var modelSeq atomic.Uint64

func nextOwner() uint64 {
	return modelSeq.Add(1)
}

// stamp identifies the screen and the generation a timer was started for.
type stamp struct {
	owner uint64
	gen   uint64
}

// TickMsg advances a running game by one step.
type TickMsg struct {
	stamp
	At time.Time
}

// watchTickMsg advances every spectated game by one step.
type watchTickMsg struct {
	stamp
}

// refreshMsg asks the watch screen to reload the active player list.
type refreshMsg struct {
	stamp
}

// tickCmd schedules the next game tick.
func tickCmd(interval time.Duration, s stamp) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{stamp: s, At: t}
	})
}

func watchTickCmd(interval time.Duration, s stamp) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return watchTickMsg{stamp: s}
	})
}

func refreshCmd(interval time.Duration, s stamp) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshMsg{stamp: s}
	})
}
