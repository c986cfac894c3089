// Package config provides YAML (or TOML) engine configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/effects"
	"github.com/vovakirdan/calbreak/internal/engine"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// EngineConfig contains all tunables of a game.
type EngineConfig struct {
	Ball    BallConfig    `yaml:"ball" toml:"ball"`
	Paddle  PaddleConfig  `yaml:"paddle" toml:"paddle"`
	Physics PhysicsConfig `yaml:"physics" toml:"physics"`
	Play    PlayConfig    `yaml:"play" toml:"play"`
	Timeout TimeoutConfig `yaml:"timeout" toml:"timeout"`
	Effects EffectsConfig `yaml:"effects" toml:"effects"`
}

// BallConfig defines the ball.
type BallConfig struct {
	Radius    float64 `yaml:"radius" toml:"radius"`
	StartLift float64 `yaml:"start_lift" toml:"start_lift"` // start height above the play bottom
}

// PaddleConfig defines the paddle.
type PaddleConfig struct {
	Width         float64 `yaml:"width" toml:"width"`
	Height        float64 `yaml:"height" toml:"height"`
	Speed         float64 `yaml:"speed" toml:"speed"` // pixels per tick of held key
	BottomGap     float64 `yaml:"bottom_gap" toml:"bottom_gap"`
	CooldownTicks int     `yaml:"cooldown_ticks" toml:"cooldown_ticks"`
}

// Direction is a 2D direction in config files.
type Direction struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// PhysicsConfig defines movement and bounce parameters.
type PhysicsConfig struct {
	BaseSpeed      float64   `yaml:"base_speed" toml:"base_speed"`
	TickMS         int       `yaml:"tick_ms" toml:"tick_ms"`
	CornerReach    float64   `yaml:"corner_reach" toml:"corner_reach"`
	CornerSpeed    float64   `yaml:"corner_speed" toml:"corner_speed"`
	StartDirection Direction `yaml:"start_direction" toml:"start_direction"`
}

// PlayConfig defines the play area derived from the host layout.
type PlayConfig struct {
	BottomOffset   float64 `yaml:"bottom_offset" toml:"bottom_offset"`
	SafeZoneHeight float64 `yaml:"safe_zone_height" toml:"safe_zone_height"`
}

// TimeoutConfig bounds a game's length. Zero ticks disables the timeout.
type TimeoutConfig struct {
	Ticks int `yaml:"ticks" toml:"ticks"`
}

// EffectsConfig defines the visual feedback.
type EffectsConfig struct {
	HuePerTick     float64 `yaml:"hue_per_tick" toml:"hue_per_tick"`
	CollisionHue   float64 `yaml:"collision_hue" toml:"collision_hue"`
	ScaleUpMS      int     `yaml:"scale_up_ms" toml:"scale_up_ms"`
	ScaleDownMS    int     `yaml:"scale_down_ms" toml:"scale_down_ms"`
	BallMaxScale   float64 `yaml:"ball_max_scale" toml:"ball_max_scale"`
	PaddleMaxX     float64 `yaml:"paddle_max_x" toml:"paddle_max_x"`
	PaddleMaxY     float64 `yaml:"paddle_max_y" toml:"paddle_max_y"`
	Particles      int     `yaml:"particles" toml:"particles"`
	Trails         int     `yaml:"trails" toml:"trails"`
	ShakeMS        int     `yaml:"shake_ms" toml:"shake_ms"`
	ShakeMagnitude float64 `yaml:"shake_magnitude" toml:"shake_magnitude"`
	ShakeStep      float64 `yaml:"shake_step" toml:"shake_step"`
	ShakeSettle    float64 `yaml:"shake_settle" toml:"shake_settle"`
}

// TickInterval returns the nominal tick as a duration.
func (c EngineConfig) TickInterval() time.Duration {
	return time.Duration(c.Physics.TickMS) * time.Millisecond
}

// Engine converts the file representation to engine constants.
func (c EngineConfig) Engine() engine.Config {
	return engine.Config{
		Radius:          c.Ball.Radius,
		BaseSpeed:       c.Physics.BaseSpeed,
		PaddleSpeed:     c.Paddle.Speed,
		PaddleWidth:     c.Paddle.Width,
		PaddleHeight:    c.Paddle.Height,
		PaddleBottomGap: c.Paddle.BottomGap,
		BallStartLift:   c.Ball.StartLift,
		StartDirection:  core.V(c.Physics.StartDirection.X, c.Physics.StartDirection.Y),
		CornerReach:     c.Physics.CornerReach,
		CornerSpeed:     c.Physics.CornerSpeed,
		PaddleCooldown:  c.Paddle.CooldownTicks,
		TickInterval:    c.TickInterval(),
		TimeoutTicks:    c.Timeout.Ticks,
	}
}

// EffectsSettings converts the file representation to effect settings.
func (c EngineConfig) EffectsSettings() effects.Config {
	e := c.Effects
	return effects.Config{
		HuePerTick:     e.HuePerTick,
		CollisionHue:   e.CollisionHue,
		ScaleUp:        time.Duration(e.ScaleUpMS) * time.Millisecond,
		ScaleDown:      time.Duration(e.ScaleDownMS) * time.Millisecond,
		BallMaxScale:   e.BallMaxScale,
		PaddleMaxX:     e.PaddleMaxX,
		PaddleMaxY:     e.PaddleMaxY,
		Particles:      e.Particles,
		Trails:         e.Trails,
		ShakeDuration:  time.Duration(e.ShakeMS) * time.Millisecond,
		ShakeMagnitude: e.ShakeMagnitude,
		ShakeStep:      e.ShakeStep,
		ShakeSettle:    e.ShakeSettle,
	}
}

// Validate reports the first invalid value.
func (c EngineConfig) Validate() error {
	checks := []struct {
		ok   bool
		name string
		val  any
	}{
		{c.Ball.Radius > 0, "ball.radius", c.Ball.Radius},
		{c.Paddle.Width > 0, "paddle.width", c.Paddle.Width},
		{c.Paddle.Height > 0, "paddle.height", c.Paddle.Height},
		{c.Paddle.Speed >= 0, "paddle.speed", c.Paddle.Speed},
		{c.Paddle.CooldownTicks == engine.PaddleCooldownTicks, "paddle.cooldown_ticks", c.Paddle.CooldownTicks},
		{c.Physics.BaseSpeed >= 0, "physics.base_speed", c.Physics.BaseSpeed},
		{c.Physics.TickMS > 0, "physics.tick_ms", c.Physics.TickMS},
		{c.Physics.CornerReach > 0, "physics.corner_reach", c.Physics.CornerReach},
		{c.Physics.CornerSpeed > 0, "physics.corner_speed", c.Physics.CornerSpeed},
		{c.Play.BottomOffset >= 0, "play.bottom_offset", c.Play.BottomOffset},
		{c.Play.SafeZoneHeight >= 0, "play.safe_zone_height", c.Play.SafeZoneHeight},
		{c.Timeout.Ticks >= 0, "timeout.ticks", c.Timeout.Ticks},
		{c.Effects.Particles > 0, "effects.particles", c.Effects.Particles},
		{c.Effects.Trails > 0, "effects.trails", c.Effects.Trails},
		{c.Effects.ScaleUpMS >= 0 && c.Effects.ScaleDownMS >= 0, "effects.scale_*_ms", fmt.Sprintf("%d/%d", c.Effects.ScaleUpMS, c.Effects.ScaleDownMS)},
		{c.Effects.ShakeMS >= 0, "effects.shake_ms", c.Effects.ShakeMS},
	}

	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalid, chk.name, chk.val)
		}
	}
	return nil
}
