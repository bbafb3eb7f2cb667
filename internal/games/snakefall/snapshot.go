package snakefall

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick        uint64
	Variant     string
	Phase       Phase
	Length      int
	Body        []Cell
	Heading     Direction
	Falling     []Cell // Nil outside PhaseFalling
	Fruits      []Cell
	Grid        string // Grid.String() form
	RowsCleared int
	Settlements int
	Reason      GameOverReason
	Paused      bool
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        g.tick,
		Variant:     g.variant,
		Phase:       g.phase,
		Fruits:      append([]Cell(nil), g.fruits...),
		RowsCleared: g.rowsCleared,
		Settlements: g.settlements,
		Paused:      g.paused,
	}
	if g.grid != nil {
		s.Grid = g.grid.String()
	}
	if g.creature != nil {
		s.Length = g.creature.Length
		s.Body = append([]Cell(nil), g.creature.Body...)
		s.Heading = g.creature.Heading()
	}
	if g.falling != nil {
		s.Falling = append([]Cell(nil), g.falling.Body...)
	}
	if g.over != nil {
		s.Reason = g.over.Reason
	}
	return s
}
