// Package config provides YAML-based game configuration loading and
// speed presets for snakefall.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// SnakefallConfig contains all configuration for one snakefall board.
type SnakefallConfig struct {
	Grid     GridConfig     `yaml:"grid"`
	Creature CreatureConfig `yaml:"creature"`
	Respawn  Point          `yaml:"respawn"`
	Timing   TimingConfig   `yaml:"timing"`
	Fruits   int            `yaml:"fruits"`
}

// GridConfig defines the board size in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Point is a cell coordinate in a config file.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// CreatureConfig defines the creature at the start of a run.
type CreatureConfig struct {
	Length    int    `yaml:"length"`
	Spawn     Point  `yaml:"spawn"`
	Direction string `yaml:"direction"` // up, down, left or right
}

// TimingConfig defines the two step cadences.
type TimingConfig struct {
	StepMS      int `yaml:"step_ms"`      // Creature step interval
	FallDivisor int `yaml:"fall_divisor"` // Falling blocks move this many times faster
}

// StepInterval returns the creature step interval.
func (t TimingConfig) StepInterval() time.Duration {
	return time.Duration(t.StepMS) * time.Millisecond
}

// FallInterval returns the falling-block step interval.
func (t TimingConfig) FallInterval() time.Duration {
	if t.FallDivisor <= 0 {
		return t.StepInterval()
	}
	return t.StepInterval() / time.Duration(t.FallDivisor)
}

// Validate checks that the config describes a playable board.
func (c SnakefallConfig) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	}
	if !c.contains(c.Creature.Spawn) {
		return fmt.Errorf("%w: spawn (%d,%d) is outside the grid", ErrInvalid, c.Creature.Spawn.X, c.Creature.Spawn.Y)
	}
	if !c.contains(c.Respawn) {
		return fmt.Errorf("%w: respawn (%d,%d) is outside the grid", ErrInvalid, c.Respawn.X, c.Respawn.Y)
	}
	if c.Creature.Length < 1 {
		return fmt.Errorf("%w: creature length must be positive, got %d", ErrInvalid, c.Creature.Length)
	}
	switch c.Creature.Direction {
	case "up", "down", "left", "right":
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalid, c.Creature.Direction)
	}
	if c.Timing.StepMS <= 0 {
		return fmt.Errorf("%w: step_ms must be positive, got %d", ErrInvalid, c.Timing.StepMS)
	}
	if c.Timing.FallDivisor <= 0 {
		return fmt.Errorf("%w: fall_divisor must be positive, got %d", ErrInvalid, c.Timing.FallDivisor)
	}
	if c.Fruits < 1 {
		return fmt.Errorf("%w: fruits must be at least 1, got %d", ErrInvalid, c.Fruits)
	}
	return nil
}

func (c SnakefallConfig) contains(p Point) bool {
	return p.X >= 0 && p.X < c.Grid.Width && p.Y >= 0 && p.Y < c.Grid.Height
}

// SpeedPreset represents a named creature speed.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
)

// StepMSForPreset returns the creature step interval for a preset.
// Unknown presets return 0.
func StepMSForPreset(preset SpeedPreset) int {
	switch preset {
	case SpeedSlow:
		return 500
	case SpeedNormal:
		return 333
	case SpeedFast:
		return 200
	default:
		return 0
	}
}

// ApplySpeedPreset overrides the step interval. An empty preset keeps the
// configured value.
func ApplySpeedPreset(cfg *SnakefallConfig, preset SpeedPreset) error {
	if preset == "" {
		return nil
	}
	ms := StepMSForPreset(preset)
	if ms == 0 {
		return fmt.Errorf("%w: unknown speed preset %q", ErrInvalid, preset)
	}
	cfg.Timing.StepMS = ms
	return nil
}
