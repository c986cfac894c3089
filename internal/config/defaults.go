package config

import (
	_ "embed"
	"math"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Ball: BallConfig{
			Radius:    12.5,
			StartLift: 100,
		},
		Paddle: PaddleConfig{
			Width:         100,
			Height:        20,
			Speed:         12.5,
			BottomGap:     22,
			CooldownTicks: 10,
		},
		Physics: PhysicsConfig{
			BaseSpeed:      10,
			TickMS:         50,
			CornerReach:    8,
			CornerSpeed:    math.Sqrt2,
			StartDirection: Direction{X: 1, Y: 1},
		},
		Play: PlayConfig{
			BottomOffset:   5,
			SafeZoneHeight: 145,
		},
		Timeout: TimeoutConfig{
			Ticks: 2000,
		},
		Effects: EffectsConfig{
			HuePerTick:     1.8,
			CollisionHue:   15,
			ScaleUpMS:      100,
			ScaleDownMS:    300,
			BallMaxScale:   0.3,
			PaddleMaxX:     0.05,
			PaddleMaxY:     -0.15,
			Particles:      300,
			Trails:         10,
			ShakeMS:        250,
			ShakeMagnitude: 7.5,
			ShakeStep:      5,
			ShakeSettle:    5,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultEngineYAML
}
