package snake

import "fmt"

// Direction is the heading of the snake on the grid.
// The zero value DirNone means "no request" and is never a valid heading.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four headings in a fixed order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Opposite returns the reverse heading. DirNone has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Delta returns the unit step for the heading.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection converts a wire name into a Direction.
// The empty string parses to DirNone.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "":
		return DirNone, nil
	default:
		return DirNone, fmt.Errorf("snake: unknown direction %q", s)
	}
}

// DirectionForKey maps a key name to a requested direction.
// Arrow keys are accepted both as browser names (ArrowUp) and terminal
// names (up). WASD is lowercase only. Anything else yields DirNone.
func DirectionForKey(key string) Direction {
	switch key {
	case "ArrowUp", "up", "w":
		return DirUp
	case "ArrowDown", "down", "s":
		return DirDown
	case "ArrowLeft", "left", "a":
		return DirLeft
	case "ArrowRight", "right", "d":
		return DirRight
	default:
		return DirNone
	}
}
