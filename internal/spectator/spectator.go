// Package spectator runs local simulations of other players' games for
// the watch view. Each player's state is advanced independently on a
// shared cadence, with steering supplied by a DirectionSource.
//
// Like session.Session, a Loop has a single owner and no locking.
package spectator

import (
	"math/rand"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

// DefaultInputChance is the per-tick probability that RandomSource
// produces a turn.
const DefaultInputChance = 0.1

// DirectionSource supplies the requested direction for one player's next
// tick. A replication feed of real input can implement it in place of
// RandomSource.
type DirectionSource interface {
	Next(playerID string, state snake.GameState) snake.Direction
}

// RandomSource imitates a player by occasionally turning at random.
type RandomSource struct {
	rng    *rand.Rand
	chance float64
}

// NewRandomSource returns a source that turns with probability chance
// per tick, picking uniformly among the four directions.
func NewRandomSource(rng *rand.Rand, chance float64) *RandomSource {
	return &RandomSource{rng: rng, chance: chance}
}

// Next implements DirectionSource.
func (r *RandomSource) Next(string, snake.GameState) snake.Direction {
	if r.rng.Float64() >= r.chance {
		return snake.DirNone
	}
	return snake.Directions[r.rng.Intn(len(snake.Directions))]
}

// Player is one simulated remote game.
type Player struct {
	ID       string
	Username string
	Mode     snake.Mode
	State    snake.GameState
	// Restarts counts automatic restarts after game over.
	Restarts int
}

// Loop holds the simulated games.
type Loop struct {
	source  DirectionSource
	rng     *rand.Rand
	players []*Player
	byID    map[string]*Player
	ticks   uint64
}

// NewLoop creates an empty loop. rng is used for food placement and
// restarts.
func NewLoop(source DirectionSource, rng *rand.Rand) *Loop {
	return &Loop{
		source: source,
		rng:    rng,
		byID:   make(map[string]*Player),
	}
}

// Sync reconciles the roster with a fresh active-player list. New players
// start from their published state, or a new game when that state is
// unusable. Players no longer listed are dropped. Players already present
// keep their simulated state; only their metadata is refreshed.
func (l *Loop) Sync(active []leaderboard.ActivePlayer) {
	next := make([]*Player, 0, len(active))
	byID := make(map[string]*Player, len(active))

	for _, a := range active {
		if _, dup := byID[a.ID]; dup {
			continue
		}
		p, ok := l.byID[a.ID]
		if ok {
			p.Username = a.Username
		} else {
			p = &Player{
				ID:       a.ID,
				Username: a.Username,
				Mode:     a.Mode,
				State:    l.seed(a.State),
			}
		}
		next = append(next, p)
		byID[a.ID] = p
	}

	l.players = next
	l.byID = byID
}

func (l *Loop) seed(state snake.GameState) snake.GameState {
	if state.GameOver || snake.Validate(state) != nil || state.Food == snake.NoFood {
		return snake.NewGame(l.rng)
	}
	return state.Clone()
}

// Step advances every player by one tick. A player whose game ends is
// restarted immediately so the view never stalls.
func (l *Loop) Step() {
	l.ticks++
	for _, p := range l.players {
		dir := l.source.Next(p.ID, p.State)
		p.State = snake.Tick(p.State, dir, p.Mode, l.rng)
		if p.State.GameOver {
			p.State = snake.NewGame(l.rng)
			p.Restarts++
		}
	}
}

// Players returns a copy of the roster in list order.
func (l *Loop) Players() []Player {
	out := make([]Player, len(l.players))
	for i, p := range l.players {
		out[i] = *p
	}
	return out
}

// Player returns the player with the given ID.
func (l *Loop) Player(id string) (Player, bool) {
	p, ok := l.byID[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Len returns the number of players.
func (l *Loop) Len() int { return len(l.players) }

// Ticks returns how many times Step has run.
func (l *Loop) Ticks() uint64 { return l.ticks }
