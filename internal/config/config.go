// Package config loads rendering defaults from the environment. CLI
// flags always win over env values; env values win over the baked-in
// defaults.
package config

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all rendering defaults for the tool.
type Config struct {
	// Canvas
	Preset string `env:"S2R_PRESET, default=9:16" validate:"oneof=9:16 16:9 4:5"`
	FPS    int    `env:"S2R_FPS, default=30" validate:"min=1,max=120"`

	// Timeline
	TransitionDuration  float64 `env:"S2R_TRANSITION_DURATION, default=0.5" validate:"min=0"`
	DefaultClipDuration float64 `env:"S2R_DEFAULT_CLIP_DURATION, default=3.0" validate:"gt=0"`

	// Encoding
	Encoder string `env:"S2R_ENCODER"` // пусто = автоопределение
	Quality int    `env:"S2R_QUALITY, default=23" validate:"min=1,max=51"`

	// Runtime
	Workers  int    `env:"S2R_WORKERS, default=0" validate:"min=0"` // 0 = по ресурсам машины
	LogLevel string `env:"S2R_LOG_LEVEL, default=info"`
}

var validate = validator.New()

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Dimensions maps the canvas preset to pixel dimensions.
func (c *Config) Dimensions() (width, height int) {
	switch c.Preset {
	case "16:9":
		return 1920, 1080
	case "4:5":
		return 1080, 1350
	default: // 9:16
		return 1080, 1920
	}
}
