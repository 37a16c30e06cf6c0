// Package session drives one player's game: it owns the current state,
// buffers keyboard steering between ticks, and hands out the final score
// report exactly once.
//
// A Session is not safe for concurrent use. The front end owns it and
// calls it from its update loop.
package session

import (
	"math/rand"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// Status is the lifecycle stage of a Session.
type Status int

const (
	StatusNotStarted Status = iota
	StatusRunning
	StatusPaused
	StatusOver
)

// String returns a display name for the status.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "Ready"
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// Identity tells the session whether the owning user may report scores.
type Identity interface {
	Authenticated() bool
}

// Report is the outcome to send to the leaderboard.
type Report struct {
	Score int
	Mode  snake.Mode
}

// Result describes what one Tick did.
type Result struct {
	State snake.GameState
	// Advanced is true when the engine ran this tick.
	Advanced bool
	// Ended is true on the tick that reached the terminal state.
	Ended bool
	// Report is set on the ending tick when the score is worth recording
	// and the user is signed in. It is never set twice for one game.
	Report *Report
}

// Session is a single player's game loop state.
type Session struct {
	mode     snake.Mode
	identity Identity
	rng      *rand.Rand

	state      snake.GameState
	status     Status
	pending    snake.Direction
	reported   bool
	generation uint64
	ticks      uint64
}

// New creates a session in the NotStarted state. identity may be nil for
// an anonymous player.
func New(mode snake.Mode, identity Identity, rng *rand.Rand) *Session {
	return &Session{
		mode:     mode,
		identity: identity,
		rng:      rng,
		state:    snake.NewGame(rng),
	}
}

// Start begins a fresh game. It may be called from any status and is also
// the restart operation.
func (s *Session) Start() {
	s.state = snake.NewGame(s.rng)
	s.status = StatusRunning
	s.pending = snake.DirNone
	s.reported = false
	s.ticks = 0
	s.generation++
}

// Restart abandons the current game and starts a new one.
func (s *Session) Restart() { s.Start() }

// Pause stops tick delivery. It reports whether the status changed.
func (s *Session) Pause() bool {
	if s.status != StatusRunning {
		return false
	}
	s.status = StatusPaused
	s.pending = snake.DirNone
	s.generation++
	return true
}

// Resume restarts tick delivery after Pause.
func (s *Session) Resume() bool {
	if s.status != StatusPaused {
		return false
	}
	s.status = StatusRunning
	s.generation++
	return true
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause() bool {
	if s.status == StatusPaused {
		return s.Resume()
	}
	return s.Pause()
}

// Steer buffers d as the direction for the next tick. Only the latest
// request is kept. Requests outside a running game are dropped.
func (s *Session) Steer(d snake.Direction) {
	if s.status != StatusRunning || !d.Valid() {
		return
	}
	s.pending = d
}

// Pending returns the buffered direction, or DirNone.
func (s *Session) Pending() snake.Direction {
	return s.pending
}

// Tick advances a running game by one step, consuming the buffered
// direction. In any other status it does nothing.
func (s *Session) Tick() Result {
	if s.status != StatusRunning {
		return Result{State: s.state}
	}

	requested := s.pending
	s.pending = snake.DirNone
	s.state = snake.Tick(s.state, requested, s.mode, s.rng)
	s.ticks++

	res := Result{State: s.state, Advanced: true}
	if !s.state.GameOver {
		return res
	}

	s.status = StatusOver
	s.generation++
	res.Ended = true
	if !s.reported && s.state.Score > 0 && s.authenticated() {
		s.reported = true
		res.Report = &Report{Score: s.state.Score, Mode: s.mode}
	}
	return res
}

func (s *Session) authenticated() bool {
	return s.identity != nil && s.identity.Authenticated()
}

// State returns the current game state.
func (s *Session) State() snake.GameState { return s.state }

// Status returns the lifecycle stage.
func (s *Session) Status() Status { return s.status }

// Mode returns the boundary mode fixed for this session.
func (s *Session) Mode() snake.Mode { return s.mode }

// Ticks returns the number of engine steps in the current game.
func (s *Session) Ticks() uint64 { return s.ticks }

// Generation changes every time tick delivery starts or stops. A timer
// armed under an older generation must be discarded.
func (s *Session) Generation() uint64 { return s.generation }

// Running reports whether ticks should be delivered.
func (s *Session) Running() bool { return s.status == StatusRunning }
