package snake

import "fmt"

// Mode is the boundary policy for a session. It is chosen before play
// starts and stays fixed for the whole session.
type Mode uint8

const (
	// ModeWrap lets the head leave one edge and re-enter on the opposite one.
	ModeWrap Mode = iota
	// ModeWalled ends the game when the head would leave the grid.
	ModeWalled
)

// Modes lists every boundary mode in display order.
var Modes = []Mode{ModeWrap, ModeWalled}

// String returns the wire name used by the leaderboard API.
func (m Mode) String() string {
	switch m {
	case ModeWalled:
		return "walls"
	default:
		return "pass-through"
	}
}

// Label returns a human-readable name for menus and tables.
func (m Mode) Label() string {
	switch m {
	case ModeWalled:
		return "Walls"
	default:
		return "Pass-through"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode accepts both the wire names ("pass-through", "walls") and the
// short names ("wrap", "walled").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "pass-through", "wrap":
		return ModeWrap, nil
	case "walls", "walled":
		return ModeWalled, nil
	default:
		return ModeWrap, fmt.Errorf("snake: unknown mode %q", s)
	}
}
