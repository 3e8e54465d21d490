// internal/browser/humanoid/config.go
package humanoid

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Pattern selects the trajectory shape.
type Pattern string

const (
	// PatternLinear interpolates on the straight segment between start and end.
	PatternLinear Pattern = "linear"
	// PatternBezier bends the path through a single off-axis control point.
	PatternBezier Pattern = "bezier"
	// PatternHuman is the Bezier path with jitter that fades out near the target.
	PatternHuman Pattern = "human"
)

// ParsePattern maps a case-insensitive name to a Pattern.
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(strings.ToLower(strings.TrimSpace(s))); p {
	case PatternLinear, PatternBezier, PatternHuman:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown pattern %q (supported: linear, bezier, human)", ErrInvalidConfig, s)
	}
}

// DefaultSteps is the number of segments in every generated trajectory.
// It does not scale with distance.
const DefaultSteps = 20

// Click delay bounds used when ClickOptions does not set one.
const (
	MinClickDelay = 100 * time.Millisecond
	MaxClickDelay = 300 * time.Millisecond
)

// Config holds the parameters defining the behavior of the simulation.
// A Humanoid copies it at construction and never mutates it.
type Config struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Pattern Pattern `json:"pattern" yaml:"pattern"`
	// SpeedVariation in [0,1] scales the HUMAN pattern jitter.
	SpeedVariation float64 `json:"speed_variation" yaml:"speed_variation"`
	// Bounds for the total duration of one movement.
	MinMovementTime time.Duration `json:"min_movement_time" yaml:"min_movement_time"`
	MaxMovementTime time.Duration `json:"max_movement_time" yaml:"max_movement_time"`
	// OvershootProbability is accepted and validated but no movement consumes it yet.
	OvershootProbability float64 `json:"overshoot_probability" yaml:"overshoot_probability"`
	ShowVisualCursor     bool    `json:"show_visual_cursor" yaml:"show_visual_cursor"`
	// Steps overrides DefaultSteps when positive.
	Steps int `json:"steps" yaml:"steps"`

	// Rng drives every random draw. A time seeded source is used when nil.
	Rng *rand.Rand `json:"-" yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		Pattern:              PatternLinear,
		SpeedVariation:       0.3,
		MinMovementTime:      300 * time.Millisecond,
		MaxMovementTime:      time.Second,
		OvershootProbability: 0.1,
		ShowVisualCursor:     false,
		Steps:                DefaultSteps,
	}
}

// Validate checks the configuration for sane values.
func (c Config) Validate() error {
	if _, err := ParsePattern(string(c.Pattern)); err != nil {
		return err
	}
	if c.SpeedVariation < 0 || c.SpeedVariation > 1 {
		return fmt.Errorf("%w: speed_variation must be between 0.0 and 1.0, got %v", ErrInvalidConfig, c.SpeedVariation)
	}
	if c.MinMovementTime <= 0 {
		return fmt.Errorf("%w: min_movement_time must be a positive duration", ErrInvalidConfig)
	}
	if c.MaxMovementTime < c.MinMovementTime {
		return fmt.Errorf("%w: max_movement_time (%v) must not be less than min_movement_time (%v)",
			ErrInvalidConfig, c.MaxMovementTime, c.MinMovementTime)
	}
	if c.OvershootProbability < 0 || c.OvershootProbability > 1 {
		return fmt.Errorf("%w: overshoot_probability must be between 0.0 and 1.0, got %v", ErrInvalidConfig, c.OvershootProbability)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative", ErrInvalidConfig)
	}
	return nil
}

// steps resolves the configured step count.
func (c Config) steps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	return DefaultSteps
}
