// Package config provides YAML-based game configuration loading and
// difficulty management for tui-tetris.
package config

import (
	"errors"
	"fmt"
)

// Pilot modes.
const (
	PilotManual = "manual"
	PilotAuto   = "auto"
)

// TetrisConfig contains all configuration for the game.
type TetrisConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Gravity    GravityConfig    `yaml:"gravity"`
	Pilot      PilotConfig      `yaml:"pilot"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the well geometry.
type BoardConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`      // playable rows
	BufferZone int `yaml:"buffer_zone"` // hidden rows above the playable area
}

// GravityConfig defines how often the piece falls one row, in frames.
type GravityConfig struct {
	TicksPerRow    int `yaml:"ticks_per_row"`
	MinTicksPerRow int `yaml:"min_ticks_per_row"`
}

// PilotConfig selects who plays.
type PilotConfig struct {
	Mode string `yaml:"mode"` // "manual" or "auto"
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to fall speed at max difficulty
}

// Validate reports configuration values the game cannot run with.
func (c TetrisConfig) Validate() error {
	var errs []error
	if c.Board.Width < 4 {
		errs = append(errs, fmt.Errorf("board.width must be at least 4, got %d", c.Board.Width))
	}
	if c.Board.Height < 4 {
		errs = append(errs, fmt.Errorf("board.height must be at least 4, got %d", c.Board.Height))
	}
	if c.Board.BufferZone < 0 {
		errs = append(errs, fmt.Errorf("board.buffer_zone must not be negative, got %d", c.Board.BufferZone))
	}
	if c.Gravity.TicksPerRow < 1 {
		errs = append(errs, fmt.Errorf("gravity.ticks_per_row must be positive, got %d", c.Gravity.TicksPerRow))
	}
	if c.Gravity.MinTicksPerRow < 1 || c.Gravity.MinTicksPerRow > c.Gravity.TicksPerRow {
		errs = append(errs, fmt.Errorf("gravity.min_ticks_per_row must be in [1, %d], got %d",
			c.Gravity.TicksPerRow, c.Gravity.MinTicksPerRow))
	}
	switch c.Pilot.Mode {
	case PilotManual, PilotAuto:
	default:
		errs = append(errs, fmt.Errorf("pilot.mode must be %q or %q, got %q", PilotManual, PilotAuto, c.Pilot.Mode))
	}
	return errors.Join(errs...)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (valid: easy, normal, hard, fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
