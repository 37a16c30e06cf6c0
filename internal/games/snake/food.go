package snake

import (
	"errors"
	"math/rand"
)

// ErrBoardSaturated is returned when the snake covers every cell and no
// food can be placed.
var ErrBoardSaturated = errors.New("snake: board saturated")

// maxFoodAttempts bounds rejection sampling before falling back to
// enumerating the free cells.
const maxFoodAttempts = 4 * GridSize * GridSize

// PlaceFood returns a uniformly random cell not occupied by body.
// Cells are drawn from the whole grid and rejected while they hit the
// body. After maxFoodAttempts misses the free cells are enumerated and one
// is picked, so the call always terminates.
func PlaceFood(body []Position, rng *rand.Rand) (Position, error) {
	occupied := make(map[Position]struct{}, len(body))
	for _, p := range body {
		occupied[p] = struct{}{}
	}
	if len(occupied) >= GridSize*GridSize {
		return NoFood, ErrBoardSaturated
	}

	for range maxFoodAttempts {
		p := Position{X: rng.Intn(GridSize), Y: rng.Intn(GridSize)}
		if _, hit := occupied[p]; !hit {
			return p, nil
		}
	}

	free := make([]Position, 0, GridSize*GridSize-len(occupied))
	for y := range GridSize {
		for x := range GridSize {
			p := Position{X: x, Y: y}
			if _, hit := occupied[p]; !hit {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return NoFood, ErrBoardSaturated
	}
	return free[rng.Intn(len(free))], nil
}
