package snakefall

import "math/rand"

// rejectionFactor scales the number of random draws tried before falling
// back to scanning for free cells.
const rejectionFactor = 4

// spawnFruit picks a uniformly random cell that is neither settled nor
// blocked. It redraws while the candidate is taken, up to W*H*rejectionFactor
// draws, then picks among the remaining free cells directly. Reports false
// only when no cell is left. A nil blocked func blocks nothing.
func spawnFruit(grid *Grid, rng *rand.Rand, blocked func(Cell) bool) (Cell, bool) {
	taken := func(c Cell) bool {
		return grid.Occupied(c) || (blocked != nil && blocked(c))
	}

	attempts := grid.W * grid.H * rejectionFactor
	for range attempts {
		c := C(rng.Intn(grid.W), rng.Intn(grid.H))
		if !taken(c) {
			return c, true
		}
	}

	var free []Cell
	for _, c := range grid.FreeCells() {
		if !taken(c) {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return Cell{}, false
	}
	return free[rng.Intn(len(free))], true
}
