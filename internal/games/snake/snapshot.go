package snake

// Snapshot is a compact summary of a GameState, used for determinism
// checks and log lines.
type Snapshot struct {
	Score    int
	Length   int
	Head     Position
	Dir      Direction
	Food     Position
	GameOver bool
}

// Snapshot returns the summary of s.
func (s GameState) Snapshot() Snapshot {
	return Snapshot{
		Score:    s.Score,
		Length:   len(s.Snake),
		Head:     s.Head(),
		Dir:      s.Direction,
		Food:     s.Food,
		GameOver: s.GameOver,
	}
}
