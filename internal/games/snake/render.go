package snake

import "github.com/vovakirdan/snake-arena/internal/core"

// CellWidth is the number of terminal columns used per grid cell.
// Terminal glyphs are roughly twice as tall as wide.
const CellWidth = 2

// BoardWidth and BoardHeight are the framed board size in terminal cells.
const (
	BoardWidth  = GridSize*CellWidth + 2
	BoardHeight = GridSize + 2
)

// BoardStyle selects the frame used around the board.
type BoardStyle struct {
	// Walled draws a solid frame; otherwise a dotted one hints that the
	// edges wrap.
	Walled bool
	// Dim renders the snake in gray, used for paused and finished games.
	Dim bool
}

// Render draws state onto dst with its top-left frame corner at (x, y).
func Render(dst *core.Screen, state GameState, x, y int, style BoardStyle) {
	frame := core.NewRect(x, y, BoardWidth, BoardHeight)
	if style.Walled {
		dst.DrawBoxColor(frame, core.ColorWhite)
	} else {
		dst.DrawDottedBox(frame, core.ColorGray)
	}

	cell := func(p Position, r rune, c core.Color) {
		cx := x + 1 + p.X*CellWidth
		cy := y + 1 + p.Y
		for i := range CellWidth {
			dst.SetCell(cx+i, cy, r, c)
		}
	}

	if state.Food != NoFood {
		cell(state.Food, '●', core.ColorBrightRed)
		// A single dot reads better than a doubled one.
		dst.SetCell(x+1+state.Food.X*CellWidth+1, y+1+state.Food.Y, ' ', core.ColorDefault)
	}

	bodyColor, headColor := core.ColorGreen, core.ColorBrightGreen
	if style.Dim {
		bodyColor, headColor = core.ColorGray, core.ColorWhite
	}
	for i := len(state.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			cell(state.Snake[i], '█', headColor)
			continue
		}
		cell(state.Snake[i], '▓', bodyColor)
	}
}
