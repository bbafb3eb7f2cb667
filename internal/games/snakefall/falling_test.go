package snakefall

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallingOnFloorStopsWithoutMoving(t *testing.T) {
	grid := NewGrid(4, 6)
	f := &FallingBlocks{Body: []Cell{C(2, 5)}, Length: 1}

	f.Step(grid)

	assert.True(t, f.HitGround)
	assert.Equal(t, []Cell{C(2, 5)}, f.Body)
}

func TestFallingMovesAllBlocksTogether(t *testing.T) {
	grid := NewGrid(4, 6)
	f := &FallingBlocks{Body: []Cell{C(1, 1), C(2, 1), C(2, 2)}}

	f.Step(grid)

	assert.False(t, f.HitGround)
	assert.Equal(t, []Cell{C(1, 2), C(2, 2), C(2, 3)}, f.Body)
}

func TestFallingStopsOnSettledCell(t *testing.T) {
	grid := mustGrid(t,
		"....",
		"....",
		"....",
		"..#.",
	)
	// Only (2,2) is blocked; (1,2) alone could keep falling.
	f := &FallingBlocks{Body: []Cell{C(1, 2), C(2, 2)}}

	f.Step(grid)

	assert.True(t, f.HitGround)
	assert.Equal(t, []Cell{C(1, 2), C(2, 2)}, f.Body)
}

func TestFallingStackedCellsLand(t *testing.T) {
	grid := NewGrid(3, 4)
	f := &FallingBlocks{Body: []Cell{C(1, 0), C(1, 0), C(1, 0)}}

	for range 10 {
		if f.HitGround {
			break
		}
		f.Step(grid)
	}

	require.True(t, f.HitGround)
	assert.Equal(t, []Cell{C(1, 3), C(1, 3), C(1, 3)}, f.Body)

	f.Commit(grid)
	assert.Equal(t, 1, grid.FilledCount())
	assert.True(t, grid.Occupied(C(1, 3)))
}

func TestFallingFromCreatureCopiesBody(t *testing.T) {
	c := NewCreature(C(3, 1), 3, DirRight, epoch)
	c.Step()

	f := FallingFromCreature(c, epoch)
	c.Step()

	assert.Equal(t, []Cell{C(4, 1), C(3, 1), C(3, 1)}, f.Body)
	assert.Equal(t, 3, f.Length)
	assert.False(t, f.HitGround)
}

func TestSpawnFruitFindsOnlyFreeCell(t *testing.T) {
	grid := mustGrid(t,
		"###",
		"###",
		"#.#",
	)

	for seed := range int64(20) {
		fruit, ok := spawnFruit(grid, rand.New(rand.NewSource(seed)), nil)
		require.True(t, ok)
		assert.Equal(t, C(1, 2), fruit, "seed %d", seed)
	}
}

func TestSpawnFruitAvoidsSettledCells(t *testing.T) {
	grid := mustGrid(t,
		"#.#.#",
		".#.#.",
		"#####",
	)
	rng := rand.New(rand.NewSource(7))

	for range 200 {
		fruit, ok := spawnFruit(grid, rng, nil)
		require.True(t, ok)
		assert.True(t, grid.InBounds(fruit))
		assert.False(t, grid.Occupied(fruit), "fruit on settled cell %v", fruit)
	}
}

func TestSpawnFruitFullGridTerminates(t *testing.T) {
	grid := mustGrid(t,
		"##",
		"##",
	)

	_, ok := spawnFruit(grid, rand.New(rand.NewSource(1)), nil)

	assert.False(t, ok)
}

func TestSpawnFruitSkipsBlockedCells(t *testing.T) {
	grid := mustGrid(t,
		"...",
		"###",
	)
	c := NewCreature(C(0, 0), 2, DirRight, epoch)
	c.Step()

	for seed := range int64(20) {
		fruit, ok := spawnFruit(grid, rand.New(rand.NewSource(seed)), c.Occupies)
		require.True(t, ok)
		assert.Equal(t, C(2, 0), fruit, "seed %d", seed)
	}

	c.Body = []Cell{C(2, 0), C(1, 0), C(0, 0)}
	_, ok := spawnFruit(grid, rand.New(rand.NewSource(1)), c.Occupies)
	assert.False(t, ok, "creature covers every free cell")
}
