// Package snake implements the grid snake simulation.
//
// The engine is a pure function over GameState values: Tick never mutates
// its input and never performs I/O. Randomness is injected through a
// *rand.Rand so runs are reproducible from a seed.
package snake

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	// GridSize is the width and height of the square playfield.
	GridSize = 20
	// FoodReward is added to the score for each food eaten.
	FoodReward = 10
)

// Position is a cell on the grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoFood marks the food slot as empty. It only appears when the snake
// fills the whole board.
var NoFood = Position{X: -1, Y: -1}

// InBounds reports whether p lies inside the grid.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Step returns the neighbouring cell in direction d, without bounds handling.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Wrap folds p back onto the grid along both axes.
func (p Position) Wrap() Position {
	return Position{X: wrap(p.X), Y: wrap(p.Y)}
}

func wrap(v int) int {
	v %= GridSize
	if v < 0 {
		v += GridSize
	}
	return v
}

// GameState is the complete state of one play-through.
// Values are treated as immutable: each tick produces a new one.
type GameState struct {
	Snake     []Position `json:"snake"` // head first
	Food      Position   `json:"food"`
	Direction Direction  `json:"direction"`
	Score     int        `json:"score"`
	GameOver  bool       `json:"gameOver"`
}

// Head returns the first segment of the snake.
func (s GameState) Head() Position {
	if len(s.Snake) == 0 {
		return NoFood
	}
	return s.Snake[0]
}

// Clone returns a copy that shares no memory with s.
func (s GameState) Clone() GameState {
	c := s
	c.Snake = append([]Position(nil), s.Snake...)
	return c
}

// Occupies reports whether any segment of the snake is on p.
func (s GameState) Occupies(p Position) bool {
	return contains(s.Snake, p)
}

// NewGame returns the initial state: a three segment snake in the middle
// of the grid heading right, score zero and freshly placed food.
func NewGame(rng *rand.Rand) GameState {
	body := []Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
	// Three cells can never saturate the board.
	food, _ := PlaceFood(body, rng)
	return GameState{
		Snake:     body,
		Food:      food,
		Direction: DirRight,
	}
}

// Tick advances state by one step.
//
// requested is the direction asked for this tick, or DirNone to keep the
// current heading. A request for the exact opposite heading is ignored.
// A terminal state is returned unchanged.
func Tick(state GameState, requested Direction, mode Mode, rng *rand.Rand) GameState {
	if state.GameOver || len(state.Snake) == 0 {
		return state
	}

	dir := state.Direction
	if requested.Valid() && requested != state.Direction.Opposite() {
		dir = requested
	}

	head := state.Snake[0].Step(dir)
	switch mode {
	case ModeWalled:
		if !head.InBounds() {
			return terminated(state)
		}
	default:
		head = head.Wrap()
	}

	// The tail has not moved yet, so it still counts as body.
	if contains(state.Snake, head) {
		return terminated(state)
	}

	grown := make([]Position, 0, len(state.Snake)+1)
	grown = append(grown, head)
	grown = append(grown, state.Snake...)

	next := GameState{
		Food:      state.Food,
		Direction: dir,
		Score:     state.Score,
	}

	if head != state.Food {
		next.Snake = grown[:len(state.Snake)]
		return next
	}

	next.Snake = grown
	next.Score += FoodReward
	food, err := PlaceFood(grown, rng)
	if errors.Is(err, ErrBoardSaturated) {
		// Nothing left to eat: the board is won and play cannot continue.
		next.Food = NoFood
		next.GameOver = true
		return next
	}
	next.Food = food
	return next
}

// terminated returns state marked as over with nothing else changed.
func terminated(state GameState) GameState {
	state.GameOver = true
	return state
}

func contains(body []Position, p Position) bool {
	for _, seg := range body {
		if seg == p {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of a state received from
// outside the engine, such as a replicated spectator feed.
func Validate(state GameState) error {
	if len(state.Snake) == 0 {
		return errors.New("snake: empty body")
	}
	if !state.Direction.Valid() {
		return fmt.Errorf("snake: invalid direction %d", state.Direction)
	}
	if state.Score < 0 {
		return fmt.Errorf("snake: negative score %d", state.Score)
	}
	seen := make(map[Position]struct{}, len(state.Snake))
	for i, p := range state.Snake {
		if !p.InBounds() {
			return fmt.Errorf("snake: segment %d out of bounds at (%d,%d)", i, p.X, p.Y)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("snake: segment %d overlaps body at (%d,%d)", i, p.X, p.Y)
		}
		seen[p] = struct{}{}
		if i > 0 && !adjacent(state.Snake[i-1], p) {
			return fmt.Errorf("snake: segment %d not adjacent to segment %d", i, i-1)
		}
	}
	if state.Food != NoFood {
		if !state.Food.InBounds() {
			return fmt.Errorf("snake: food out of bounds at (%d,%d)", state.Food.X, state.Food.Y)
		}
		if _, hit := seen[state.Food]; hit {
			return errors.New("snake: food on body")
		}
	}
	return nil
}

// adjacent reports whether a and b are one axis-aligned step apart,
// counting a step across a wrapped edge.
func adjacent(a, b Position) bool {
	dx := absDiff(a.X, b.X)
	dy := absDiff(a.Y, b.Y)
	if dx == GridSize-1 {
		dx = 1
	}
	if dy == GridSize-1 {
		dy = 1
	}
	return dx+dy == 1
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
