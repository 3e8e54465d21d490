package humanoid

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// TimingPlan holds one delay per trajectory segment. Delay i is waited after
// the pointer reaches point i.
type TimingPlan []time.Duration

// Total sums the planned delays. It is close to, but not exactly, the requested
// duration because every delay is scaled by its own speed factor.
func (p TimingPlan) Total() time.Duration {
	var total time.Duration
	for _, d := range p {
		total += d
	}
	return total
}

// Easing phase boundaries, as fractions of progress.
const (
	accelerationEnd   = 0.2
	decelerationStart = 0.8
	minSpeedFactor    = 0.5
	speedRampSlope    = 2.5
)

// SpeedFactor maps normalized progress to a speed multiplier: it ramps from 0.5 to 1.0
// over the first fifth, cruises at 1.0, and ramps back down to 0.5 over the last fifth.
func SpeedFactor(progress float64) float64 {
	switch {
	case progress < accelerationEnd:
		return minSpeedFactor + speedRampSlope*progress
	case progress > decelerationStart:
		return minSpeedFactor + speedRampSlope*(1-progress)
	default:
		return 1.0
	}
}

// PlanTiming spreads total over the trajectory's segments and divides each
// share by SpeedFactor, so slow phases get longer delays.
func PlanTiming(traj Trajectory, total time.Duration) (TimingPlan, error) {
	steps := traj.Steps()
	if steps < 1 {
		return nil, fmt.Errorf("%w: trajectory has %d points", ErrInvalidSteps, len(traj))
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: negative movement duration %v", ErrInvalidConfig, total)
	}
	return planDelays(steps, total, SpeedFactor), nil
}

func planDelays(steps int, total time.Duration, factor func(progress float64) float64) TimingPlan {
	base := float64(total) / float64(steps)
	plan := make(TimingPlan, steps)
	for i := 0; i < steps; i++ {
		progress := float64(i) / float64(steps)
		plan[i] = time.Duration(math.Round(base / factor(progress)))
	}
	return plan
}

// sampleDuration draws uniformly from [min, max].
func sampleDuration(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)+1))
}
