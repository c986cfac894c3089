package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/calbreak/internal/effects"
	"github.com/vovakirdan/calbreak/internal/engine"
)

func TestEmbeddedMatchesDefaults(t *testing.T) {
	var embedded EngineConfig
	if err := decodeBytes(t, DefaultYAML(), &embedded); err != nil {
		t.Fatal(err)
	}
	if embedded != DefaultEngineConfig() {
		t.Errorf("embedded defaults differ from hardcoded:\n%+v\n%+v", embedded, DefaultEngineConfig())
	}
}

func TestDefaultsConvert(t *testing.T) {
	cfg := DefaultEngineConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if got := cfg.Engine(); got != engine.DefaultConfig() {
		t.Errorf("Engine() = %+v, want %+v", got, engine.DefaultConfig())
	}
	if got := cfg.EffectsSettings(); got != effects.DefaultConfig() {
		t.Errorf("EffectsSettings() = %+v, want %+v", got, effects.DefaultConfig())
	}
	if got := cfg.TickInterval(); got != 50*time.Millisecond {
		t.Errorf("TickInterval() = %v", got)
	}
}

func TestLoadCustomYAMLPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "physics:\n  base_speed: 20\ntimeout:\n  ticks: 10\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("LoadEngine: %v", err)
	}
	if cfg.Physics.BaseSpeed != 20 {
		t.Errorf("base_speed = %v, want 20", cfg.Physics.BaseSpeed)
	}
	if cfg.Timeout.Ticks != 10 {
		t.Errorf("timeout.ticks = %v, want 10", cfg.Timeout.Ticks)
	}
	if cfg.Paddle.Width != 100 {
		t.Errorf("unspecified paddle.width = %v, want default 100", cfg.Paddle.Width)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	data := "[ball]\nradius = 6.0\n\n[physics]\ntick_ms = 20\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("LoadEngine: %v", err)
	}
	if cfg.Ball.Radius != 6 {
		t.Errorf("radius = %v, want 6", cfg.Ball.Radius)
	}
	if cfg.TickInterval() != 20*time.Millisecond {
		t.Errorf("tick = %v, want 20ms", cfg.TickInterval())
	}
}

func TestLoadCustomInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  tick_ms: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadEngine(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if !strings.Contains(err.Error(), "physics.tick_ms") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestLoadCustomMissing(t *testing.T) {
	if _, err := LoadEngine(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error for missing custom path")
	}
}

func TestLoadCustomMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("ball: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEngine(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
		field  string
	}{
		{"radius", func(c *EngineConfig) { c.Ball.Radius = 0 }, "ball.radius"},
		{"paddle width", func(c *EngineConfig) { c.Paddle.Width = -1 }, "paddle.width"},
		{"cooldown", func(c *EngineConfig) { c.Paddle.CooldownTicks = -1 }, "paddle.cooldown_ticks"},
		{"cooldown shortened", func(c *EngineConfig) { c.Paddle.CooldownTicks = 6 }, "paddle.cooldown_ticks"},
		{"timeout", func(c *EngineConfig) { c.Timeout.Ticks = -5 }, "timeout.ticks"},
		{"particles", func(c *EngineConfig) { c.Effects.Particles = 0 }, "effects.particles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset  Preset
		speed   float64
		width   float64
		timeout int
	}{
		{PresetEasy, 8, 140, 3000},
		{PresetNormal, 10, 100, 2000},
		{PresetHard, 13, 70, 1500},
		{PresetZen, 10, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.preset.Apply(&cfg)
			if cfg.Physics.BaseSpeed != tt.speed || cfg.Paddle.Width != tt.width || cfg.Timeout.Ticks != tt.timeout {
				t.Errorf("got speed=%v width=%v timeout=%v", cfg.Physics.BaseSpeed, cfg.Paddle.Width, cfg.Timeout.Ticks)
			}
			if cfg.Paddle.CooldownTicks != 10 || cfg.Engine().PaddleCooldown != 10 {
				t.Errorf("cooldown = %d ticks, want the fixed 10", cfg.Paddle.CooldownTicks)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset produces invalid config: %v", err)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	for _, p := range Presets {
		got, err := ParsePreset(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePreset(%q) = %v, %v", p, got, err)
		}
	}
	if got, err := ParsePreset(""); err != nil || got != PresetNormal {
		t.Errorf("empty preset = %v, %v; want normal", got, err)
	}
	if _, err := ParsePreset("insane"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestEncodeRoundTripFormats(t *testing.T) {
	dir := t.TempDir()
	want := DefaultEngineConfig()
	PresetHard.Apply(&want)

	for _, name := range []string{"out.yaml", "out.toml"} {
		path := filepath.Join(dir, "nested", name)
		if err := WriteFile(path, want); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		got, err := LoadEngine(path)
		if err != nil {
			t.Fatalf("LoadEngine(%s): %v", name, err)
		}
		if got != want {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"yaml": FormatYAML, "YML": FormatYAML, "": FormatYAML, "toml": FormatTOML}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("json"); err == nil {
		t.Error("expected error for json")
	}
}

func decodeBytes(t *testing.T, data []byte, cfg *EngineConfig) error {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embedded.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	return decodeFile(path, cfg)
}
