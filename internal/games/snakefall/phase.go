package snakefall

// Phase is the top-level play state. Exactly one is active at a time.
type Phase int

const (
	// PhaseNormal: the creature moves and can eat fruit.
	PhaseNormal Phase = iota
	// PhaseFalling: the creature's body is dropping as blocks.
	PhaseFalling
	// PhaseGameOver: a collision ended the run. Terminal until reset.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseFalling:
		return "falling"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameOver describes how a run ended.
type GameOver struct {
	Reason GameOverReason
	Cell   Cell // Head position that triggered the collision
}
