package snakefall

import "time"

// FallingBlocks is a detached copy of a creature's body dropping under
// gravity. All blocks fall together; the stack stops as soon as any block
// is resting on the floor or on a settled cell.
type FallingBlocks struct {
	Body      []Cell
	Length    int
	LastMove  time.Time
	HitGround bool
}

// FallingFromCreature snapshots the creature's current body.
func FallingFromCreature(c *Creature, now time.Time) *FallingBlocks {
	body := make([]Cell, len(c.Body))
	copy(body, c.Body)
	return &FallingBlocks{
		Body:     body,
		Length:   c.Length,
		LastMove: now,
	}
}

// Step drops every block by one row, or sets HitGround and leaves the
// blocks in place if any of them cannot move.
func (f *FallingBlocks) Step(grid *Grid) {
	for _, b := range f.Body {
		below := b.Add(0, 1)
		if b.Y >= grid.H-1 || !grid.InBounds(below) || grid.Occupied(below) {
			f.HitGround = true
			return
		}
	}
	for i := range f.Body {
		f.Body[i].Y++
	}
}

// Commit writes the blocks into the grid as settled cells.
func (f *FallingBlocks) Commit(grid *Grid) {
	for _, b := range f.Body {
		grid.Set(b, true)
	}
}
