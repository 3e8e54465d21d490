// File: internal/config/humanoid_config.go
// HumanoidConfig is the file/env/flag surface of the pointer movement simulation.
// It maps one to one onto humanoid.Config; durations are written as Go duration
// strings ("300ms", "1s") in YAML and environment variables.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/glide/internal/browser/humanoid"
)

// HumanoidConfig holds the tunable parameters for pointer movement.
type HumanoidConfig struct {
	Enabled              bool          `mapstructure:"enabled" yaml:"enabled"`
	Pattern              string        `mapstructure:"pattern" yaml:"pattern"`
	SpeedVariation       float64       `mapstructure:"speed_variation" yaml:"speed_variation"`
	MinMovementTime      time.Duration `mapstructure:"min_movement_time" yaml:"min_movement_time"`
	MaxMovementTime      time.Duration `mapstructure:"max_movement_time" yaml:"max_movement_time"`
	OvershootProbability float64       `mapstructure:"overshoot_probability" yaml:"overshoot_probability"`
	ShowVisualCursor     bool          `mapstructure:"show_visual_cursor" yaml:"show_visual_cursor"`
	Steps                int           `mapstructure:"steps" yaml:"steps"`
}

// setHumanoidDefaults mirrors humanoid.DefaultConfig so file, env and code agree.
func setHumanoidDefaults(v *viper.Viper) {
	d := humanoid.DefaultConfig()
	v.SetDefault("browser.humanoid.enabled", d.Enabled)
	v.SetDefault("browser.humanoid.pattern", string(d.Pattern))
	v.SetDefault("browser.humanoid.speed_variation", d.SpeedVariation)
	v.SetDefault("browser.humanoid.min_movement_time", d.MinMovementTime.String())
	v.SetDefault("browser.humanoid.max_movement_time", d.MaxMovementTime.String())
	v.SetDefault("browser.humanoid.overshoot_probability", d.OvershootProbability)
	v.SetDefault("browser.humanoid.show_visual_cursor", d.ShowVisualCursor)
	v.SetDefault("browser.humanoid.steps", d.Steps)
}

// ToHumanoid converts the settings into a validated humanoid.Config.
func (h HumanoidConfig) ToHumanoid() (humanoid.Config, error) {
	pattern, err := humanoid.ParsePattern(h.Pattern)
	if err != nil {
		return humanoid.Config{}, err
	}
	cfg := humanoid.Config{
		Enabled:              h.Enabled,
		Pattern:              pattern,
		SpeedVariation:       h.SpeedVariation,
		MinMovementTime:      h.MinMovementTime,
		MaxMovementTime:      h.MaxMovementTime,
		OvershootProbability: h.OvershootProbability,
		ShowVisualCursor:     h.ShowVisualCursor,
		Steps:                h.Steps,
	}
	if err := cfg.Validate(); err != nil {
		return humanoid.Config{}, err
	}
	return cfg, nil
}

// Validate checks the humanoid settings.
func (h HumanoidConfig) Validate() error {
	_, err := h.ToHumanoid()
	return err
}
