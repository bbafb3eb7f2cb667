package snakefall

import (
	"fmt"
	"strings"
)

// Cell is a grid coordinate. X grows to the right, Y grows downward,
// so row 0 is the top of the board and row H-1 is the floor.
type Cell struct {
	X, Y int
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is the occupancy map of settled blocks.
// Cells are stored in row-major order: index = y*W + x.
// Every cell always has a value; dimensions never change after creation.
type Grid struct {
	W     int
	H     int
	cells []bool
}

// NewGrid creates an empty w×h grid.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:     w,
		H:     h,
		cells: make([]bool, w*h),
	}
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the cell lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Occupied reports whether a settled block sits at c.
// Out-of-bounds cells report false.
func (g *Grid) Occupied(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[g.index(c)]
}

// Set marks c occupied or free. Out-of-bounds cells are ignored.
func (g *Grid) Set(c Cell, occupied bool) {
	if g.InBounds(c) {
		g.cells[g.index(c)] = occupied
	}
}

// IsRowFull returns true if every cell of row y is occupied.
func (g *Grid) IsRowFull(y int) bool {
	if y < 0 || y >= g.H {
		return false
	}
	row := g.cells[y*g.W : (y+1)*g.W]
	for _, occupied := range row {
		if !occupied {
			return false
		}
	}
	return true
}

// FullRows returns the indices of all full rows, top to bottom.
func (g *Grid) FullRows() []int {
	var rows []int
	for y := 0; y < g.H; y++ {
		if g.IsRowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearAndCollapse removes every full row and drops the rows above it.
//
// Full rows are collected once up front and then handled top to bottom.
// Each one is cleared and everything above it shifts down by one, using the
// grid as already changed by earlier clears in the same call. Row 0 is empty
// after each shift. Returns the cleared row indices.
func (g *Grid) ClearAndCollapse() []int {
	full := g.FullRows()
	for _, y := range full {
		g.clearRow(y)
		for yy := y - 1; yy >= 0; yy-- {
			copy(g.cells[(yy+1)*g.W:(yy+2)*g.W], g.cells[yy*g.W:(yy+1)*g.W])
		}
		g.clearRow(0)
	}
	return full
}

func (g *Grid) clearRow(y int) {
	row := g.cells[y*g.W : (y+1)*g.W]
	for x := range row {
		row[x] = false
	}
}

// FreeCells returns all unoccupied cells in row-major order.
func (g *Grid) FreeCells() []Cell {
	var free []Cell
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if !g.cells[y*g.W+x] {
				free = append(free, C(x, y))
			}
		}
	}
	return free
}

// FilledCount returns the number of occupied cells.
func (g *Grid) FilledCount() int {
	n := 0
	for _, occupied := range g.cells {
		if occupied {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &Grid{W: g.W, H: g.H, cells: cells}
}

// String renders the grid as rows of '#' and '.'.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.W; x++ {
			if g.cells[y*g.W+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
