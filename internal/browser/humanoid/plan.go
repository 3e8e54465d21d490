// internal/browser/humanoid/plan.go
package humanoid

import (
	"math/rand"
	"time"
)

// Movement is a generated trajectory together with its per-step delays.
type Movement struct {
	Trajectory Trajectory
	Delays     TimingPlan
	// Duration is the sampled total the delays were planned against.
	Duration time.Duration
}

// PlanMovement generates the path from start to end for cfg and times it against a
// duration drawn from [MinMovementTime, MaxMovementTime]. It touches no page.
func PlanMovement(cfg Config, start, end Point, rng *rand.Rand) (Movement, error) {
	pattern, err := ParsePattern(string(cfg.Pattern))
	if err != nil {
		return Movement{}, err
	}
	if rng == nil {
		rng = newRand()
	}

	traj, err := GenerateTrajectory(pattern, start, end, cfg.steps(), cfg.SpeedVariation, rng)
	if err != nil {
		return Movement{}, err
	}
	total := sampleDuration(rng, cfg.MinMovementTime, cfg.MaxMovementTime)
	delays, err := PlanTiming(traj, total)
	if err != nil {
		return Movement{}, err
	}
	return Movement{Trajectory: traj, Delays: delays, Duration: total}, nil
}
