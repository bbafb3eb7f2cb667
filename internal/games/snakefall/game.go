// Package snakefall implements a Snake variant where eaten fruit turns the
// creature's body into falling blocks that settle and clear like a
// line-clear puzzle.
package snakefall

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakefall/internal/config"
	"github.com/vovakirdan/snakefall/internal/core"
	"github.com/vovakirdan/snakefall/internal/registry"
)

// Game owns all state for one run: the settled grid, the creature, the
// falling stack while one exists, and the active fruit.
type Game struct {
	variant string
	cfg     config.SnakefallConfig
	clock   core.Clock
	logger  *log.Logger
	rng     *rand.Rand
	tick    uint64

	grid     *Grid
	creature *Creature
	falling  *FallingBlocks // Non-nil iff phase is PhaseFalling
	fruits   []Cell
	phase    Phase
	over     *GameOver

	paused    bool
	pausedAt  time.Time
	startedAt time.Time
	endedAt   time.Time

	rowsCleared int
	settlements int
}

// Option configures a Game.
type Option func(*Game)

// WithConfig replaces the variant's default board configuration.
func WithConfig(cfg config.SnakefallConfig) Option {
	return func(g *Game) {
		g.cfg = cfg
	}
}

// WithClock sets the time source for the step timers.
func WithClock(c core.Clock) Option {
	return func(g *Game) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithLogger sets the logger for game events.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a game for a board variant. Call Reset before stepping.
func New(variant string, opts ...Option) *Game {
	g := &Game{
		variant: variant,
		cfg:     config.DefaultConfig(variant),
		clock:   core.SystemClock{},
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func init() {
	for _, variant := range []string{config.VariantClassic, config.VariantCompact} {
		registry.Register(variant, func(s registry.Settings) registry.Game {
			opts := []Option{WithLogger(s.Logger), WithClock(s.Clock)}
			if s.Config != nil {
				opts = append(opts, WithConfig(*s.Config))
			}
			return New(variant, opts...)
		})
	}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.variant
}

// Title returns the display name.
func (g *Game) Title() string {
	return fmt.Sprintf("Snakefall %dx%d", g.cfg.Grid.Width, g.cfg.Grid.Height)
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	now := g.clock.Now()
	dir, err := ParseDirection(g.cfg.Creature.Direction)
	if err != nil {
		dir = DirRight
	}

	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.grid = NewGrid(g.cfg.Grid.Width, g.cfg.Grid.Height)
	g.creature = NewCreature(cellOf(g.cfg.Creature.Spawn), g.cfg.Creature.Length, dir, now)
	g.falling = nil
	g.fruits = g.fruits[:0]
	g.phase = PhaseNormal
	g.over = nil
	g.paused = false
	g.startedAt = now
	g.endedAt = time.Time{}
	g.rowsCleared = 0
	g.settlements = 0

	for range g.cfg.Fruits {
		g.addFruit()
	}
	g.logger.Debug("game reset",
		"variant", g.variant,
		"grid", fmt.Sprintf("%dx%d", g.grid.W, g.grid.H),
		"seed", cfg.Seed,
	)
}

func cellOf(p config.Point) Cell {
	return C(p.X, p.Y)
}

// Step advances the game by one host tick.
//
// Row clearing runs first on every tick. The active phase then gets its
// turn: the creature eats, turns and moves while Normal, the stack drops or
// settles while Falling. Timed actions fire at most once per call.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++
	now := g.clock.Now()

	if input.Has(core.ActionRestart) && g.phase == PhaseGameOver {
		g.Reset(core.RuntimeConfig{Seed: g.rng.Int63()})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && g.phase != PhaseGameOver {
		g.togglePause(now)
	}

	if g.paused || g.phase == PhaseGameOver {
		return core.StepResult{State: g.State()}
	}

	g.clearRows()

	switch g.phase {
	case PhaseNormal:
		g.stepNormal(now, input)
	case PhaseFalling:
		g.stepFalling(now)
	case PhaseGameOver:
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) clearRows() {
	cleared := g.grid.ClearAndCollapse()
	if len(cleared) == 0 {
		return
	}
	g.rowsCleared += len(cleared)
	g.logger.Debug("rows cleared", "rows", cleared, "total", g.rowsCleared)
}

func (g *Game) stepNormal(now time.Time, input core.InputFrame) {
	c := g.creature
	if c.Disabled {
		return
	}

	// Every fruit under the head is eaten; the last one builds the stack.
	head := c.Head()
	kept := g.fruits[:0]
	for _, fruit := range g.fruits {
		if fruit == head {
			g.falling = FallingFromCreature(c, now)
			c.Disabled = true
			continue
		}
		kept = append(kept, fruit)
	}
	g.fruits = kept
	if c.Disabled {
		g.phase = PhaseFalling
		g.logger.Debug("fruit eaten", "head", head.String(), "blocks", len(g.falling.Body))
		return
	}

	for _, a := range input.Actions {
		if d, ok := actionDirection(a); ok {
			c.Enqueue(d)
		}
	}

	if now.Sub(c.LastMove) < g.cfg.Timing.StepInterval() {
		return
	}
	c.advanceQueue()
	if reason, hit := c.Collision(g.grid); hit {
		g.endGame(now, reason, c.Head())
		return
	}
	c.Step()
	c.LastMove = now
}

func (g *Game) stepFalling(now time.Time) {
	f := g.falling
	if f.HitGround {
		g.settle(now)
		return
	}
	if now.Sub(f.LastMove) >= g.cfg.Timing.FallInterval() {
		f.Step(g.grid)
		f.LastMove = now
	}
}

// settle commits the landed stack and hands control back to the creature.
func (g *Game) settle(now time.Time) {
	g.falling.Commit(g.grid)
	g.falling = nil
	g.settlements++

	g.creature.Respawn(cellOf(g.cfg.Respawn), now)
	g.addFruit()
	g.phase = PhaseNormal

	g.logger.Debug("blocks settled",
		"settlements", g.settlements,
		"length", g.creature.Length,
		"filled", g.grid.FilledCount(),
	)
}

func (g *Game) addFruit() {
	fruit, ok := spawnFruit(g.grid, g.rng, g.cellTaken)
	if !ok {
		g.logger.Warn("no free cell for fruit", "grid", fmt.Sprintf("%dx%d", g.grid.W, g.grid.H))
		return
	}
	g.fruits = append(g.fruits, fruit)
}

// cellTaken reports whether a fruit already sits on c or the creature covers it.
func (g *Game) cellTaken(c Cell) bool {
	if g.creature != nil && g.creature.Occupies(c) {
		return true
	}
	for _, fruit := range g.fruits {
		if fruit == c {
			return true
		}
	}
	return false
}

func (g *Game) endGame(now time.Time, reason GameOverReason, at Cell) {
	g.phase = PhaseGameOver
	g.over = &GameOver{Reason: reason, Cell: at}
	g.endedAt = now
	g.logger.Info("game over",
		"reason", reason,
		"cell", at.String(),
		"length", g.creature.Length,
		"rows", g.rowsCleared,
	)
}

func (g *Game) togglePause(now time.Time) {
	if !g.paused {
		g.paused = true
		g.pausedAt = now
		return
	}

	// Shift every timer by the pause so nothing fires the moment play resumes.
	d := now.Sub(g.pausedAt)
	g.paused = false
	g.startedAt = g.startedAt.Add(d)
	g.creature.LastMove = g.creature.LastMove.Add(d)
	if g.falling != nil {
		g.falling.LastMove = g.falling.LastMove.Add(d)
	}
}

// actionDirection maps a directional action to a heading.
func actionDirection(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	default:
		return DirRight, false
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := core.GameState{
		RowsCleared: g.rowsCleared,
		Settlements: g.settlements,
		GameOver:    g.phase == PhaseGameOver,
		Paused:      g.paused,
	}
	if g.creature != nil {
		s.Length = g.creature.Length
	}
	if g.over != nil {
		s.Reason = string(g.over.Reason)
	}
	switch {
	case g.phase == PhaseGameOver:
		s.Elapsed = g.endedAt.Sub(g.startedAt)
	case g.paused:
		s.Elapsed = g.pausedAt.Sub(g.startedAt)
	case !g.startedAt.IsZero():
		s.Elapsed = g.clock.Now().Sub(g.startedAt)
	}
	return s
}

// Phase returns the active phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// GameOver returns how the run ended, or nil while it is still going.
func (g *Game) GameOver() *GameOver {
	return g.over
}

// Grid returns a copy of the settled-block grid.
func (g *Game) Grid() *Grid {
	return g.grid.Clone()
}

// Creature returns the creature. Callers must not modify it.
func (g *Game) Creature() *Creature {
	return g.creature
}

// Falling returns the falling stack, or nil outside PhaseFalling.
func (g *Game) Falling() *FallingBlocks {
	return g.falling
}

// Fruits returns a copy of the active fruit positions.
func (g *Game) Fruits() []Cell {
	return append([]Cell(nil), g.fruits...)
}

// DebugState returns a string representation of the game state.
func (g *Game) DebugState() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d, Phase: %s, Rows: %d, Settlements: %d\n", g.tick, g.phase, g.rowsCleared, g.settlements)
	if g.creature != nil {
		fmt.Fprintf(&b, "Creature len: %d/%d, Heading: %s, Queue: %v\n",
			len(g.creature.Body), g.creature.Length, g.creature.Heading(), g.creature.Queue)
		fmt.Fprintf(&b, "Head: %s, Fruits: %v\n", g.creature.Head(), g.fruits)
	}
	if g.over != nil {
		fmt.Fprintf(&b, "GameOver: %s at %s\n", g.over.Reason, g.over.Cell)
	}
	if g.grid != nil {
		b.WriteString(g.grid.String())
		b.WriteByte('\n')
	}
	return b.String()
}
