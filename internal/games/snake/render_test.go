package snake

import (
	"testing"

	"github.com/vovakirdan/snake-arena/internal/core"
)

func TestRender(t *testing.T) {
	s := GameState{
		Snake:     []Position{{2, 1}, {1, 1}},
		Food:      Position{5, 5},
		Direction: DirRight,
	}
	dst := core.NewScreen(BoardWidth, BoardHeight)

	Render(dst, s, 0, 0, BoardStyle{Walled: true})

	if dst.Get(0, 0) != '┌' {
		t.Errorf("corner = %q, expected solid frame", dst.Get(0, 0))
	}
	head := dst.GetCell(1+2*CellWidth, 2)
	if head.Rune != '█' || head.Color != core.ColorBrightGreen {
		t.Errorf("head cell = %+v", head)
	}
	body := dst.GetCell(1+1*CellWidth, 2)
	if body.Rune != '▓' {
		t.Errorf("body cell = %+v", body)
	}
	food := dst.GetCell(1+5*CellWidth, 6)
	if food.Rune != '●' || food.Color != core.ColorBrightRed {
		t.Errorf("food cell = %+v", food)
	}
}

func TestRenderWrapFrame(t *testing.T) {
	dst := core.NewScreen(BoardWidth, BoardHeight)
	Render(dst, GameState{Snake: []Position{{0, 0}}, Food: NoFood, Direction: DirUp}, 0, 0, BoardStyle{})

	if dst.Get(1, 0) != '┄' {
		t.Errorf("top edge = %q, expected dotted frame", dst.Get(1, 0))
	}
}
