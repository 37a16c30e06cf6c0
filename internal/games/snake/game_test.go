package snake

import (
	"math/rand"
	"reflect"
	"testing"
)

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestNewGame(t *testing.T) {
	s := NewGame(newRNG(1))

	want := []Position{{10, 10}, {9, 10}, {8, 10}}
	if !reflect.DeepEqual(s.Snake, want) {
		t.Errorf("Snake = %v, expected %v", s.Snake, want)
	}
	if s.Direction != DirRight {
		t.Errorf("Direction = %v, expected right", s.Direction)
	}
	if s.Score != 0 || s.GameOver {
		t.Errorf("Score/GameOver = %d/%v, expected 0/false", s.Score, s.GameOver)
	}
	if !s.Food.InBounds() || s.Occupies(s.Food) {
		t.Errorf("Food %v must be on the grid and off the snake", s.Food)
	}
	if err := Validate(s); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestTickEatsFood(t *testing.T) {
	s := GameState{
		Snake:     []Position{{10, 10}, {9, 10}},
		Food:      Position{11, 10},
		Direction: DirRight,
	}

	next := Tick(s, DirNone, ModeWalled, newRNG(7))

	if next.Score != 10 {
		t.Errorf("Score = %d, expected 10", next.Score)
	}
	want := []Position{{11, 10}, {10, 10}, {9, 10}}
	if !reflect.DeepEqual(next.Snake, want) {
		t.Errorf("Snake = %v, expected %v", next.Snake, want)
	}
	if next.Food == (Position{11, 10}) || next.Occupies(next.Food) {
		t.Errorf("new food %v must not be on the grown snake", next.Food)
	}
	if next.GameOver {
		t.Error("eating must not end the game")
	}
}

func TestTickWalledEdge(t *testing.T) {
	s := GameState{
		Snake:     []Position{{0, 10}, {1, 10}},
		Food:      Position{15, 15},
		Direction: DirLeft,
	}

	next := Tick(s, DirNone, ModeWalled, newRNG(1))

	if !next.GameOver {
		t.Fatal("expected game over when leaving the grid in walled mode")
	}
	if !reflect.DeepEqual(next.Snake, s.Snake) || next.Food != s.Food || next.Score != s.Score || next.Direction != s.Direction {
		t.Errorf("failed move must not be committed: got %+v from %+v", next, s)
	}
}

func TestTickWrapEdge(t *testing.T) {
	tests := []struct {
		name string
		head Position
		tail Position
		dir  Direction
		want Position
	}{
		{"left edge", Position{0, 10}, Position{1, 10}, DirLeft, Position{19, 10}},
		{"right edge", Position{19, 4}, Position{18, 4}, DirRight, Position{0, 4}},
		{"top edge", Position{3, 0}, Position{3, 1}, DirUp, Position{3, 19}},
		{"bottom edge", Position{3, 19}, Position{3, 18}, DirDown, Position{3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GameState{
				Snake:     []Position{tt.head, tt.tail},
				Food:      Position{15, 15},
				Direction: tt.dir,
			}
			next := Tick(s, DirNone, ModeWrap, newRNG(1))
			if next.GameOver {
				t.Fatal("wrap mode must not end the game at the edge")
			}
			if next.Head() != tt.want {
				t.Errorf("Head = %v, expected %v", next.Head(), tt.want)
			}
			if len(next.Snake) != 2 {
				t.Errorf("length = %d, expected 2", len(next.Snake))
			}
		})
	}
}

func TestTickSelfCollision(t *testing.T) {
	s := GameState{
		Snake:     []Position{{10, 10}, {11, 10}, {11, 9}, {10, 9}},
		Food:      Position{0, 0},
		Direction: DirUp,
	}

	next := Tick(s, DirNone, ModeWalled, newRNG(1))

	if !next.GameOver {
		t.Fatal("expected game over on self collision")
	}
	if !reflect.DeepEqual(next.Snake, s.Snake) || next.Score != s.Score {
		t.Error("collision must leave snake and score unchanged")
	}
}

func TestTickTailStillCounts(t *testing.T) {
	// Moving into the cell the tail occupies is a collision: the tail has
	// not vacated it yet.
	s := GameState{
		Snake:     []Position{{5, 5}, {6, 5}, {6, 6}, {5, 6}},
		Food:      Position{0, 0},
		Direction: DirLeft,
	}

	next := Tick(s, DirDown, ModeWrap, newRNG(1))

	if !next.GameOver {
		t.Error("expected game over when moving into the tail cell")
	}
}

func TestTickIgnoresReversal(t *testing.T) {
	tests := []struct {
		dir  Direction
		body []Position
	}{
		{DirRight, []Position{{10, 10}, {9, 10}, {8, 10}}},
		{DirLeft, []Position{{10, 10}, {11, 10}, {12, 10}}},
		{DirUp, []Position{{10, 10}, {10, 11}, {10, 12}}},
		{DirDown, []Position{{10, 10}, {10, 9}, {10, 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			s := GameState{Snake: tt.body, Food: Position{0, 0}, Direction: tt.dir}
			next := Tick(s, tt.dir.Opposite(), ModeWrap, newRNG(1))

			if next.Direction != tt.dir {
				t.Errorf("Direction = %v, expected %v", next.Direction, tt.dir)
			}
			if want := tt.body[0].Step(tt.dir); next.Head() != want {
				t.Errorf("Head = %v, expected %v", next.Head(), want)
			}
			if next.GameOver {
				t.Error("reversal request must not end the game")
			}
		})
	}
}

func TestTickTurns(t *testing.T) {
	s := GameState{
		Snake:     []Position{{10, 10}, {9, 10}, {8, 10}},
		Food:      Position{0, 0},
		Direction: DirRight,
	}

	next := Tick(s, DirUp, ModeWalled, newRNG(1))

	if next.Direction != DirUp {
		t.Errorf("Direction = %v, expected up", next.Direction)
	}
	want := []Position{{10, 9}, {10, 10}, {9, 10}}
	if !reflect.DeepEqual(next.Snake, want) {
		t.Errorf("Snake = %v, expected %v", next.Snake, want)
	}
}

func TestTickTerminalIsFixedPoint(t *testing.T) {
	s := GameState{
		Snake:     []Position{{0, 10}, {1, 10}},
		Food:      Position{15, 15},
		Direction: DirLeft,
		Score:     30,
		GameOver:  true,
	}

	for _, mode := range Modes {
		for _, dir := range append(Directions[:], DirNone) {
			next := Tick(s, dir, mode, newRNG(1))
			if !reflect.DeepEqual(next, s) {
				t.Errorf("Tick(%v, %v) changed a terminal state: %+v", dir, mode, next)
			}
		}
	}
}

func TestTickDoesNotMutateInput(t *testing.T) {
	s := GameState{
		Snake:     []Position{{10, 10}, {9, 10}},
		Food:      Position{11, 10},
		Direction: DirRight,
	}
	before := s.Clone()

	Tick(s, DirNone, ModeWrap, newRNG(3))
	Tick(s, DirDown, ModeWalled, newRNG(3))

	if !reflect.DeepEqual(s, before) {
		t.Errorf("input mutated: %+v, expected %+v", s, before)
	}
}

// TestTickProperties drives long random games and checks the invariants
// that must hold after every step.
func TestTickProperties(t *testing.T) {
	for _, mode := range Modes {
		rng := newRNG(99)
		s := NewGame(rng)
		for step := 0; step < 5000; step++ {
			req := DirNone
			if rng.Intn(4) == 0 {
				req = Directions[rng.Intn(4)]
			}
			next := Tick(s, req, mode, rng)

			if next.GameOver {
				if next.Score != s.Score || len(next.Snake) != len(s.Snake) {
					t.Fatalf("%v step %d: terminal tick changed score or length", mode, step)
				}
				s = NewGame(rng)
				continue
			}

			switch len(next.Snake) {
			case len(s.Snake):
				if next.Score != s.Score || next.Food != s.Food {
					t.Fatalf("%v step %d: non-eating tick changed score or food", mode, step)
				}
			case len(s.Snake) + 1:
				if next.Score != s.Score+FoodReward {
					t.Fatalf("%v step %d: eating tick scored %d", mode, step, next.Score-s.Score)
				}
			default:
				t.Fatalf("%v step %d: length %d -> %d", mode, step, len(s.Snake), len(next.Snake))
			}
			if next.Direction == s.Direction.Opposite() {
				t.Fatalf("%v step %d: reversed from %v to %v", mode, step, s.Direction, next.Direction)
			}
			if err := Validate(next); err != nil {
				t.Fatalf("%v step %d: %v", mode, step, err)
			}
			s = next
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		rng := newRNG(12345)
		s := NewGame(rng)
		for i := range 200 {
			req := DirNone
			switch i % 7 {
			case 3:
				req = DirDown
			case 5:
				req = DirRight
			}
			s = Tick(s, req, ModeWrap, rng)
			if s.GameOver {
				s = NewGame(rng)
			}
		}
		return s.Snapshot()
	}

	if a, b := run(), run(); a != b {
		t.Errorf("snapshots differ: %+v vs %+v", a, b)
	}
}

func TestTickFillsBoard(t *testing.T) {
	// Build a snake covering every cell but one, with food on that cell.
	var body []Position
	for y := range GridSize {
		if y%2 == 0 {
			for x := range GridSize {
				body = append(body, Position{x, y})
			}
		} else {
			for x := GridSize - 1; x >= 0; x-- {
				body = append(body, Position{x, y})
			}
		}
	}
	// Reverse so the head is the last cell of the serpentine.
	for i, j := 0, len(body)-1; i < j; i, j = i+1, j-1 {
		body[i], body[j] = body[j], body[i]
	}
	food := body[0]
	body = body[1:]

	s := GameState{Snake: body, Food: food, Direction: DirLeft}
	// The head is at (1, 19) on the bottom row heading left into (0, 19).
	next := Tick(s, DirNone, ModeWalled, newRNG(1))

	if !next.GameOver {
		t.Fatal("expected the game to end once the board is full")
	}
	if next.Food != NoFood {
		t.Errorf("Food = %v, expected NoFood", next.Food)
	}
	if len(next.Snake) != GridSize*GridSize || next.Score != FoodReward {
		t.Errorf("length/score = %d/%d", len(next.Snake), next.Score)
	}
}

func TestValidateRejectsBrokenStates(t *testing.T) {
	tests := []struct {
		name  string
		state GameState
	}{
		{"empty", GameState{Direction: DirUp}},
		{"no direction", GameState{Snake: []Position{{1, 1}}}},
		{"out of bounds", GameState{Snake: []Position{{20, 1}}, Direction: DirUp}},
		{"gap", GameState{Snake: []Position{{1, 1}, {3, 1}}, Direction: DirUp}},
		{"overlap", GameState{Snake: []Position{{1, 1}, {1, 2}, {1, 1}}, Direction: DirUp}},
		{"food on body", GameState{Snake: []Position{{1, 1}}, Food: Position{1, 1}, Direction: DirUp}},
		{"negative score", GameState{Snake: []Position{{1, 1}}, Score: -10, Direction: DirUp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.state); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
