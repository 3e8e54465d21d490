// internal/browser/humanoid/humanoid.go
package humanoid

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Humanoid drives one page's pointer along generated trajectories.
// One instance belongs to one page session.
type Humanoid struct {
	// lock serializes MoveTo and ClickWithMovement. Interleaved movements on the same
	// page would corrupt the tracked position and the overlay state. Every field below
	// is only touched while it is held.
	lock     *semaphore.Weighted
	cfg      Config
	logger   *zap.Logger
	executor Executor
	bridge   *PageBridge
	rng      *rand.Rand
}

// New creates a Humanoid after validating cfg. The configuration is copied
// and treated as immutable from here on.
func New(cfg Config, logger *zap.Logger, executor Executor) (*Humanoid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if executor == nil {
		return nil, fmt.Errorf("%w: executor is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := cfg.Rng
	if rng == nil {
		rng = newRand()
	}
	// Normalize the pattern spelling once so generation never sees an alias.
	cfg.Pattern, _ = ParsePattern(string(cfg.Pattern))

	logger = logger.Named("humanoid")
	h := &Humanoid{
		lock:     semaphore.NewWeighted(1),
		cfg:      cfg,
		logger:   logger,
		executor: executor,
		bridge:   NewPageBridge(executor, logger),
		rng:      rng,
	}

	logger.Debug("Humanoid initialized.",
		zap.Bool("enabled", cfg.Enabled),
		zap.String("pattern", string(cfg.Pattern)),
		zap.Int("steps", cfg.steps()),
		zap.Duration("min_movement_time", cfg.MinMovementTime),
		zap.Duration("max_movement_time", cfg.MaxMovementTime),
		zap.Float64("overshoot_probability", cfg.OvershootProbability),
		zap.Bool("show_visual_cursor", cfg.ShowVisualCursor))
	return h, nil
}

// NewTestHumanoid creates a Humanoid with the default configuration and a seeded source.
func NewTestHumanoid(executor Executor, seed int64) *Humanoid {
	cfg := DefaultConfig()
	cfg.Rng = rand.New(rand.NewSource(seed))
	h, err := New(cfg, zap.NewNop(), executor)
	if err != nil {
		panic(err)
	}
	return h
}

// Config returns a copy of the active configuration.
func (h *Humanoid) Config() Config {
	return h.cfg
}
