package snakefall

import (
	"fmt"

	"github.com/vovakirdan/snakefall/internal/core"
)

const (
	hudHeight = 2
	cellWidth = 2 // Terminal cells are roughly twice as tall as wide
)

// Entity colors.
const (
	colorSettled  = core.ColorGray
	colorCreature = core.ColorGreen
	colorHead     = core.ColorBrightGreen
	colorFalling  = core.ColorWhite
	colorFruit    = core.ColorRed
	colorFrame    = core.ColorCyan
)

// Render draws the game to the screen. Every entity is one grid cell wide,
// drawn cellWidth columns wide at its cell position inside the board frame.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.grid == nil {
		return
	}

	board, ok := g.boardRect(dst)
	if !ok {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", board.W, board.Y+board.H))
		return
	}
	dst.DrawBox(board, colorFrame)
	originX, originY := board.X+1, board.Y+1

	for y := 0; y < g.grid.H; y++ {
		for x := 0; x < g.grid.W; x++ {
			if g.grid.Occupied(C(x, y)) {
				drawBlock(dst, originX, originY, C(x, y), '▓', colorSettled)
			}
		}
	}

	for _, fruit := range g.fruits {
		drawBlock(dst, originX, originY, fruit, '●', colorFruit)
	}

	if g.falling != nil {
		for _, b := range g.falling.Body {
			drawBlock(dst, originX, originY, b, '█', colorFalling)
		}
	}

	if g.creature != nil && !g.creature.Disabled {
		// Tail first so the head wins on shared cells.
		for i := len(g.creature.Body) - 1; i >= 0; i-- {
			color := colorCreature
			if i == 0 {
				color = colorHead
			}
			drawBlock(dst, originX, originY, g.creature.Body[i], '█', color)
		}
	}

	switch {
	case g.phase == PhaseGameOver:
		line := "Press R to restart"
		if g.over != nil {
			line = fmt.Sprintf("%s at %s. R to restart", reasonText(g.over.Reason), g.over.Cell)
		}
		g.renderOverlay(dst, "Game Over", line)
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// boardRect returns the framed board area, centered under the HUD.
// Reports false if the screen cannot hold it.
func (g *Game) boardRect(dst *core.Screen) (core.Rect, bool) {
	w := g.grid.W*cellWidth + 2
	h := g.grid.H + 2
	x := (dst.Width() - w) / 2
	r := core.NewRect(max(x, 0), hudHeight, w, h)
	return r, dst.Width() >= w && dst.Height() >= hudHeight+h
}

func drawBlock(dst *core.Screen, originX, originY int, c Cell, r rune, color core.Color) {
	sx := originX + c.X*cellWidth
	sy := originY + c.Y
	for i := range cellWidth {
		dst.SetColored(sx+i, sy, r, color)
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	length := 0
	if g.creature != nil {
		length = g.creature.Length
	}
	hud := fmt.Sprintf(" %s - Length: %d  Rows: %d  Settled: %d", g.Title(), length, g.rowsCleared, g.settlements)
	if g.phase == PhaseFalling {
		hud += "  [falling]"
	}
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	textW := max(len([]rune(line1)), len([]rune(line2)))
	box := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(textW+4, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorYellow)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

func reasonText(r GameOverReason) string {
	switch r {
	case ReasonSelfOverlap:
		return "Bit yourself"
	case ReasonOutOfBounds:
		return "Left the board"
	case ReasonSettledOverlap:
		return "Hit the stack"
	default:
		return string(r)
	}
}
