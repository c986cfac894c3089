package config

import "fmt"

// Preset represents a difficulty preset.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
	PresetZen    Preset = "zen" // no timeout
)

// Presets lists all presets in display order.
var Presets = []Preset{PresetEasy, PresetNormal, PresetHard, PresetZen}

// ParsePreset converts a string to a Preset.
func ParsePreset(s string) (Preset, error) {
	switch s {
	case "easy":
		return PresetEasy, nil
	case "normal", "":
		return PresetNormal, nil
	case "hard":
		return PresetHard, nil
	case "zen":
		return PresetZen, nil
	default:
		return PresetNormal, fmt.Errorf("invalid preset %q (valid: easy, normal, hard, zen)", s)
	}
}

// String implements fmt.Stringer.
func (p Preset) String() string {
	return string(p)
}

// Apply modifies the config based on the preset. Normal leaves it untouched.
func (p Preset) Apply(cfg *EngineConfig) {
	switch p {
	case PresetEasy:
		cfg.Physics.BaseSpeed = 8
		cfg.Paddle.Width = 140
		cfg.Timeout.Ticks = 3000
	case PresetHard:
		cfg.Physics.BaseSpeed = 13
		cfg.Paddle.Width = 70
		cfg.Timeout.Ticks = 1500
	case PresetZen:
		cfg.Timeout.Ticks = 0
	}
}
