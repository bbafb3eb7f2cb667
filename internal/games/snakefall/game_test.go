package snakefall

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/snakefall/internal/config"
	"github.com/vovakirdan/snakefall/internal/core"
	"github.com/vovakirdan/snakefall/internal/registry"
)

const (
	stepInterval = 333 * time.Millisecond
	fallInterval = 111 * time.Millisecond
)

func testConfig(w, h int) config.SnakefallConfig {
	cfg := config.DefaultConfig(config.VariantClassic)
	cfg.Grid = config.GridConfig{Width: w, Height: h}
	cfg.Respawn = config.Point{X: 2, Y: 0}
	return cfg
}

func newTestGame(t *testing.T, cfg config.SnakefallConfig) (*Game, *core.ManualClock) {
	t.Helper()
	require.NoError(t, cfg.Validate())

	clock := core.NewManualClock(epoch)
	g := New(config.VariantClassic, WithConfig(cfg), WithClock(clock))
	g.Reset(core.RuntimeConfig{Seed: 42})
	return g, clock
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestResetState(t *testing.T) {
	g, _ := newTestGame(t, testConfig(15, 15))

	assert.Equal(t, PhaseNormal, g.Phase())
	assert.Equal(t, []Cell{C(3, 1), C(3, 1), C(3, 1)}, g.Creature().Body)
	assert.Equal(t, DirRight, g.Creature().Heading())
	assert.Nil(t, g.Falling())
	assert.Zero(t, g.Grid().FilledCount())
	require.Len(t, g.Fruits(), 1)
	assert.True(t, g.Grid().InBounds(g.Fruits()[0]))
}

func TestCreatureMovesOnlyWhenIntervalElapsed(t *testing.T) {
	g, clock := newTestGame(t, testConfig(15, 15))
	g.fruits = []Cell{C(0, 14)}

	g.Step(frame())
	assert.Equal(t, C(3, 1), g.Creature().Head(), "no time has passed")

	clock.Advance(stepInterval - time.Millisecond)
	g.Step(frame())
	assert.Equal(t, C(3, 1), g.Creature().Head())

	clock.Advance(time.Millisecond)
	g.Step(frame())
	assert.Equal(t, []Cell{C(4, 1), C(3, 1), C(3, 1)}, g.Creature().Body)

	// A long stall still yields a single step.
	clock.Advance(3 * stepInterval)
	g.Step(frame())
	assert.Equal(t, C(5, 1), g.Creature().Head())
}

func TestBufferedTurnAppliesOnNextStep(t *testing.T) {
	g, clock := newTestGame(t, testConfig(15, 15))
	g.fruits = []Cell{C(0, 14)}

	// Up reverses the queued Down and is dropped; Left turns off Down.
	g.Step(frame(core.ActionDown, core.ActionUp, core.ActionLeft))
	assert.Equal(t, []Direction{DirRight, DirDown, DirLeft}, g.Creature().Queue)

	clock.Advance(stepInterval)
	g.Step(frame())
	assert.Equal(t, C(3, 2), g.Creature().Head())
	assert.Equal(t, []Direction{DirDown, DirLeft}, g.Creature().Queue)

	clock.Advance(stepInterval)
	g.Step(frame())
	assert.Equal(t, C(2, 2), g.Creature().Head())
	assert.Equal(t, []Direction{DirLeft}, g.Creature().Queue)
}

func TestTwoQuickTurnsApplyOnConsecutiveSteps(t *testing.T) {
	cfg := testConfig(15, 15)
	cfg.Creature.Spawn = config.Point{X: 5, Y: 5}
	g, clock := newTestGame(t, cfg)
	g.fruits = []Cell{C(0, 14)}

	clock.Advance(stepInterval)
	g.Step(frame())
	require.Equal(t, C(6, 5), g.Creature().Head())

	// Both turns arrive within a single step interval.
	g.Step(frame(core.ActionUp, core.ActionLeft))

	clock.Advance(stepInterval)
	g.Step(frame())
	assert.Equal(t, C(6, 4), g.Creature().Head())

	clock.Advance(stepInterval)
	g.Step(frame())
	assert.Equal(t, C(5, 4), g.Creature().Head())
	assert.Equal(t, DirLeft, g.Creature().Heading())
}

func TestNonDirectionalActionsIgnored(t *testing.T) {
	g, _ := newTestGame(t, testConfig(15, 15))
	g.fruits = []Cell{C(0, 14)}

	g.Step(frame(core.ActionQuit, core.ActionNone))

	assert.Equal(t, []Direction{DirRight}, g.Creature().Queue)
}

func TestEatingFruitStartsFalling(t *testing.T) {
	g, clock := newTestGame(t, testConfig(15, 15))
	g.fruits = []Cell{C(0, 14), C(5, 1)}

	clock.Advance(stepInterval)
	g.Step(frame())
	clock.Advance(stepInterval)
	g.Step(frame())
	require.Equal(t, C(5, 1), g.Creature().Head())
	body := append([]Cell(nil), g.Creature().Body...)

	g.Step(frame())

	assert.Equal(t, PhaseFalling, g.Phase())
	require.NotNil(t, g.Falling())
	assert.Equal(t, body, g.Falling().Body)
	assert.Equal(t, 3, g.Falling().Length)
	assert.True(t, g.Creature().Disabled)
	assert.Equal(t, []Cell{C(0, 14)}, g.Fruits())
}

func TestAccessorsReturnCopies(t *testing.T) {
	g, _ := newTestGame(t, testConfig(15, 15))
	g.fruits = []Cell{C(3, 1), C(0, 14)}

	held := g.Fruits()
	grid := g.Grid()
	grid.Set(C(0, 0), true)

	// The head sits on the first fruit, so this step eats it.
	g.Step(frame())

	require.Equal(t, PhaseFalling, g.Phase())
	assert.Equal(t, []Cell{C(3, 1), C(0, 14)}, held)
	assert.Equal(t, []Cell{C(0, 14)}, g.Fruits())
	assert.False(t, g.Grid().Occupied(C(0, 0)))
}

func TestSettlementCycle(t *testing.T) {
	g, clock := newTestGame(t, testConfig(5, 5))
	g.fruits = []Cell{C(3, 1)}

	g.Step(frame())
	require.Equal(t, PhaseFalling, g.Phase())

	for i := 0; i < 20 && g.Phase() == PhaseFalling; i++ {
		clock.Advance(fallInterval)
		g.Step(frame())
	}

	require.Equal(t, PhaseNormal, g.Phase())
	assert.Nil(t, g.Falling())
	assert.True(t, g.Grid().Occupied(C(3, 4)))
	assert.Equal(t, 1, g.Grid().FilledCount())
	assert.Equal(t, 1, g.State().Settlements)

	c := g.Creature()
	assert.False(t, c.Disabled)
	assert.Equal(t, 4, c.Length)
	assert.Equal(t, []Cell{C(2, 0), C(2, 0), C(2, 0)}, c.Body)
	assert.Equal(t, DirDown, c.Heading())

	require.Len(t, g.Fruits(), 1)
	assert.False(t, g.Grid().Occupied(g.Fruits()[0]))
	assert.False(t, c.Occupies(g.Fruits()[0]), "fruit spawned under the creature")

	// Growth shows up once the creature moves.
	g.fruits = []Cell{C(0, 0)}
	clock.Advance(stepInterval)
	g.Step(frame())
	assert.Equal(t, []Cell{C(2, 1), C(2, 0), C(2, 0), C(2, 0)}, c.Body)
}

func TestFallingUsesFasterCadence(t *testing.T) {
	g, clock := newTestGame(t, testConfig(5, 8))
	g.fruits = []Cell{C(3, 1)}
	g.Step(frame())

	clock.Advance(fallInterval - time.Millisecond)
	g.Step(frame())
	assert.Equal(t, C(3, 1), g.Falling().Body[0])

	clock.Advance(time.Millisecond)
	g.Step(frame())
	assert.Equal(t, C(3, 2), g.Falling().Body[0])
}

func TestSettledRowClears(t *testing.T) {
	cfg := testConfig(3, 4)
	cfg.Creature.Length = 1
	cfg.Creature.Spawn = config.Point{X: 2, Y: 1}
	cfg.Respawn = config.Point{X: 1, Y: 0}
	g, clock := newTestGame(t, cfg)

	g.grid.Set(C(0, 3), true)
	g.grid.Set(C(1, 3), true)
	g.fruits = []Cell{C(2, 1)}

	g.Step(frame())
	require.Equal(t, PhaseFalling, g.Phase())
	for i := 0; i < 20 && g.Phase() == PhaseFalling; i++ {
		clock.Advance(fallInterval)
		g.Step(frame())
	}
	require.Equal(t, PhaseNormal, g.Phase())
	require.True(t, g.Grid().IsRowFull(3))

	g.Step(frame())

	assert.Equal(t, 1, g.State().RowsCleared)
	assert.Zero(t, g.Grid().FilledCount())
}

func TestGameOverOutOfBounds(t *testing.T) {
	g, clock := newTestGame(t, testConfig(5, 5))
	g.fruits = []Cell{C(0, 4)}

	for range 3 {
		clock.Advance(stepInterval)
		g.Step(frame())
	}

	require.Equal(t, PhaseGameOver, g.Phase())
	require.NotNil(t, g.GameOver())
	assert.Equal(t, ReasonOutOfBounds, g.GameOver().Reason)
	assert.Equal(t, C(5, 1), g.GameOver().Cell)

	state := g.State()
	assert.True(t, state.GameOver)
	assert.Equal(t, string(ReasonOutOfBounds), state.Reason)
	assert.Equal(t, 3*stepInterval, state.Elapsed)

	// Terminal: nothing moves any more.
	clock.Advance(stepInterval)
	g.Step(frame(core.ActionUp))
	assert.Equal(t, C(5, 1), g.Creature().Head())
}

func TestGameOverSettledOverlap(t *testing.T) {
	g, clock := newTestGame(t, testConfig(8, 8))
	g.fruits = []Cell{C(0, 7)}
	g.grid.Set(C(5, 1), true)

	for range 3 {
		clock.Advance(stepInterval)
		g.Step(frame())
	}

	require.Equal(t, PhaseGameOver, g.Phase())
	assert.Equal(t, ReasonSettledOverlap, g.GameOver().Reason)
}

func TestGameOverSelfOverlap(t *testing.T) {
	cfg := testConfig(10, 10)
	cfg.Creature.Length = 5
	g, clock := newTestGame(t, cfg)
	g.fruits = []Cell{C(0, 9)}

	// Unspool fully, then turn down, left and up into the body.
	turns := [][]core.Action{nil, nil, nil, nil, {core.ActionDown}, {core.ActionLeft}, {core.ActionUp}, nil}
	for _, actions := range turns {
		g.Step(frame(actions...))
		clock.Advance(stepInterval)
		g.Step(frame())
		if g.Phase() == PhaseGameOver {
			break
		}
	}

	require.Equal(t, PhaseGameOver, g.Phase())
	assert.Equal(t, ReasonSelfOverlap, g.GameOver().Reason)
}

func TestRestartAfterGameOver(t *testing.T) {
	g, clock := newTestGame(t, testConfig(5, 5))
	g.fruits = []Cell{C(0, 4)}
	for range 3 {
		clock.Advance(stepInterval)
		g.Step(frame())
	}
	require.Equal(t, PhaseGameOver, g.Phase())

	g.Step(frame(core.ActionRestart))

	assert.Equal(t, PhaseNormal, g.Phase())
	assert.Nil(t, g.GameOver())
	assert.Equal(t, C(3, 1), g.Creature().Head())
	assert.False(t, g.State().GameOver)
}

func TestRestartIgnoredWhilePlaying(t *testing.T) {
	g, clock := newTestGame(t, testConfig(15, 15))
	g.fruits = []Cell{C(0, 14)}
	clock.Advance(stepInterval)
	g.Step(frame())

	g.Step(frame(core.ActionRestart))

	assert.Equal(t, C(4, 1), g.Creature().Head())
}

func TestPauseFreezesTimers(t *testing.T) {
	g, clock := newTestGame(t, testConfig(15, 15))
	g.fruits = []Cell{C(0, 14)}

	clock.Advance(stepInterval / 2)
	g.Step(frame(core.ActionPause))
	require.True(t, g.State().Paused)

	clock.Advance(10 * stepInterval)
	g.Step(frame())
	assert.Equal(t, C(3, 1), g.Creature().Head())

	g.Step(frame(core.ActionPause))
	assert.False(t, g.State().Paused)
	assert.Equal(t, C(3, 1), g.Creature().Head(), "resume must not fire a step")

	clock.Advance(stepInterval / 2)
	g.Step(frame())
	assert.Equal(t, C(4, 1), g.Creature().Head())
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		g, clock := newTestGame(t, testConfig(9, 9))
		inputs := map[int]core.Action{3: core.ActionDown, 9: core.ActionLeft, 15: core.ActionDown}
		for i := range 60 {
			f := core.NewInputFrame()
			if a, ok := inputs[i]; ok {
				f.Set(a)
			}
			g.Step(f)
			clock.Advance(fallInterval)
		}
		return g.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestRegisteredVariants(t *testing.T) {
	require.True(t, registry.Exists(config.VariantClassic))
	require.True(t, registry.Exists(config.VariantCompact))

	game, err := registry.Create(config.VariantCompact, registry.Settings{})
	require.NoError(t, err)
	assert.Equal(t, "Snakefall 9x9", game.Title())
	assert.Equal(t, config.VariantCompact, game.ID())

	cfg := testConfig(6, 7)
	game, err = registry.Create(config.VariantClassic, registry.Settings{Config: &cfg})
	require.NoError(t, err)
	assert.Equal(t, "Snakefall 6x7", game.Title())
}
