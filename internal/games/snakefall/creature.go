package snakefall

import "time"

// maxQueuedDirections bounds the turn buffer after each step: the direction
// being applied plus one buffered turn.
const maxQueuedDirections = 2

// GameOverReason names the collision that ended a run.
type GameOverReason string

const (
	ReasonSelfOverlap    GameOverReason = "self_overlap"
	ReasonOutOfBounds    GameOverReason = "out_of_bounds"
	ReasonSettledOverlap GameOverReason = "settled_overlap"
)

// Creature is the player-controlled body.
type Creature struct {
	Body     []Cell      // Head at index 0
	Length   int         // Target length; Body never exceeds it after a step
	Queue    []Direction // Queue[0] is applied on the next step; never empty
	LastMove time.Time
	Disabled bool // True while its body is falling as blocks
}

// NewCreature creates a creature with every segment stacked on spawn.
// The stack unspools as it moves.
func NewCreature(spawn Cell, length int, dir Direction, now time.Time) *Creature {
	body := make([]Cell, length)
	for i := range body {
		body[i] = spawn
	}
	return &Creature{
		Body:     body,
		Length:   length,
		Queue:    []Direction{dir},
		LastMove: now,
	}
}

// Head returns the front segment.
func (c *Creature) Head() Cell {
	return c.Body[0]
}

// Heading returns the direction applied on the next step.
func (c *Creature) Heading() Direction {
	return c.Queue[0]
}

// Enqueue buffers a turn. The turn is checked against the most recently
// queued direction: repeating it or reversing it is rejected. Any number of
// turns may pile up between steps; advanceQueue trims them. Returns whether d
// was queued.
func (c *Creature) Enqueue(d Direction) bool {
	current := c.Queue[len(c.Queue)-1]
	if d == current || d == current.Opposite() {
		return false
	}
	c.Queue = append(c.Queue, d)
	return true
}

// advanceQueue drops the direction just applied if a turn is buffered, then
// keeps at most the next heading and one turn after it.
func (c *Creature) advanceQueue() {
	if len(c.Queue) > 1 {
		c.Queue = c.Queue[1:]
	}
	if len(c.Queue) > maxQueuedDirections {
		c.Queue = c.Queue[:maxQueuedDirections]
	}
}

// Collision checks the current head against the board. Bounds are checked
// before the grid is read.
func (c *Creature) Collision(grid *Grid) (GameOverReason, bool) {
	head := c.Head()
	if !grid.InBounds(head) {
		return ReasonOutOfBounds, true
	}
	if grid.Occupied(head) {
		return ReasonSettledOverlap, true
	}
	if c.selfOverlap() {
		return ReasonSelfOverlap, true
	}
	return "", false
}

// selfOverlap reports whether the head shares a cell with another segment.
// A body still fully stacked on one cell has not unspooled yet and is not
// an overlap.
func (c *Creature) selfOverlap() bool {
	head := c.Head()
	hits := 0
	stacked := true
	for _, seg := range c.Body {
		if seg == head {
			hits++
		} else {
			stacked = false
		}
	}
	return hits > 1 && !stacked
}

// Step moves the head one cell in Queue[0] and trims the tail down to Length.
func (c *Creature) Step() {
	dx, dy := c.Heading().Delta()
	head := c.Head().Add(dx, dy)

	c.Body = append(c.Body, Cell{})
	copy(c.Body[1:], c.Body)
	c.Body[0] = head

	if len(c.Body) > c.Length {
		c.Body = c.Body[:c.Length]
	}
}

// Respawn re-enables the creature at spawn heading down and grows its target
// length by one. The body keeps its segment count, so the extra segment only
// appears once the creature has moved.
func (c *Creature) Respawn(spawn Cell, now time.Time) {
	for i := range c.Body {
		c.Body[i] = spawn
	}
	c.Queue = []Direction{DirDown}
	c.Length++
	c.Disabled = false
	c.LastMove = now
}

// Occupies reports whether any segment sits on cell.
func (c *Creature) Occupies(cell Cell) bool {
	for _, seg := range c.Body {
		if seg == cell {
			return true
		}
	}
	return false
}
