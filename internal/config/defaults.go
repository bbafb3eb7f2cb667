package config

import (
	_ "embed"
)

// Board variants with embedded defaults.
const (
	VariantClassic = "snakefall"
	VariantCompact = "snakefall_compact"
)

//go:embed defaults/snakefall.yaml
var defaultClassicYAML []byte

//go:embed defaults/snakefall_compact.yaml
var defaultCompactYAML []byte

// DefaultConfig returns the hardcoded configuration for a variant.
// Unknown variants get the classic board.
func DefaultConfig(variant string) SnakefallConfig {
	cfg := SnakefallConfig{
		Grid: GridConfig{Width: 15, Height: 15},
		Creature: CreatureConfig{
			Length:    3,
			Spawn:     Point{X: 3, Y: 1},
			Direction: "right",
		},
		Respawn: Point{X: 3, Y: 0},
		Timing: TimingConfig{
			StepMS:      333,
			FallDivisor: 3,
		},
		Fruits: 1,
	}
	if variant == VariantCompact {
		cfg.Grid = GridConfig{Width: 9, Height: 9}
		cfg.Respawn = Point{X: 4, Y: 0}
	}
	return cfg
}

// GetDefaultYAML returns the embedded default YAML for a variant.
func GetDefaultYAML(variant string) []byte {
	switch variant {
	case VariantClassic:
		return defaultClassicYAML
	case VariantCompact:
		return defaultCompactYAML
	default:
		return nil
	}
}
