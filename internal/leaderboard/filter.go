package leaderboard

import "github.com/vovakirdan/snake-arena/internal/games/snake"

// Filter selects leaderboard entries by boundary mode.
// The zero value matches every mode.
type Filter struct {
	mode     snake.Mode
	specific bool
}

// All matches entries of every mode.
var All = Filter{}

// ForMode matches entries of mode m only.
func ForMode(m snake.Mode) Filter {
	return Filter{mode: m, specific: true}
}

// ParseFilter accepts "all" or "" for every mode, or a mode name.
func ParseFilter(s string) (Filter, error) {
	if s == "" || s == "all" {
		return All, nil
	}
	m, err := snake.ParseMode(s)
	if err != nil {
		return All, err
	}
	return ForMode(m), nil
}

// Mode returns the selected mode and whether one is selected.
func (f Filter) Mode() (snake.Mode, bool) {
	return f.mode, f.specific
}

// Match reports whether an entry of mode m passes the filter.
func (f Filter) Match(m snake.Mode) bool {
	return !f.specific || f.mode == m
}

// String returns the query value: "all" or the mode's wire name.
func (f Filter) String() string {
	if !f.specific {
		return "all"
	}
	return f.mode.String()
}

// Label returns the tab title for the filter.
func (f Filter) Label() string {
	if !f.specific {
		return "All"
	}
	return f.mode.Label()
}
