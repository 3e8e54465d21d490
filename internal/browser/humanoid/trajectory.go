package humanoid

import (
	"fmt"
	"math/rand"
	"time"
)

// Trajectory is an ordered sequence of points. The first element is the start,
// the last is the end, and it holds steps+1 points.
type Trajectory []Point

// Steps returns the number of segments in the trajectory.
func (t Trajectory) Steps() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

const (
	// bezierCurvature is the control point's distance from the segment midpoint,
	// as a fraction of the segment length.
	bezierCurvature = 0.2
	// humanJitterRange bounds the per-axis integer jitter of the HUMAN pattern.
	humanJitterRange = 3
)

// GenerateTrajectory converts a start and end point into steps+1 intermediate points
// shaped by pattern. A nil rng is replaced by a time seeded source.
func GenerateTrajectory(pattern Pattern, start, end Point, steps int, speedVariation float64, rng *rand.Rand) (Trajectory, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSteps, steps)
	}
	if rng == nil {
		rng = newRand()
	}

	switch pattern {
	case PatternLinear:
		return linearPath(start, end, steps), nil
	case PatternBezier:
		return roundPath(bezierPath(start, end, steps, rng)), nil
	case PatternHuman:
		return humanPath(start, end, steps, speedVariation, rng), nil
	default:
		return nil, fmt.Errorf("%w: unknown pattern %q", ErrInvalidConfig, pattern)
	}
}

// linearPath interpolates each axis by i/steps. Deterministic.
func linearPath(start, end Point, steps int) Trajectory {
	s, e := start.Vec(), end.Vec()
	delta := e.Sub(s)

	path := make(Trajectory, steps+1)
	for i := 0; i <= steps; i++ {
		ratio := float64(i) / float64(steps)
		path[i] = s.Add(delta.Mul(ratio)).Round()
	}
	return path
}

// bezierPath samples a quadratic Bezier curve through a control point displaced
// perpendicular to the segment, on a side picked by rng.
func bezierPath(start, end Point, steps int, rng *rand.Rand) []Vector2D {
	side := 1.0
	if rng.Intn(2) == 0 {
		side = -1.0
	}

	p0, p2 := start.Vec(), end.Vec()
	p1 := bezierControl(p0, p2, side)

	path := make([]Vector2D, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		path[i] = quadraticBezier(p0, p1, p2, t)
	}
	return path
}

// bezierControl places the control point at bezierCurvature*|end-start| from the midpoint
// along the segment normal. A zero length segment collapses the control onto the midpoint.
func bezierControl(start, end Vector2D, side float64) Vector2D {
	mid := start.Add(end).Mul(0.5)
	segment := end.Sub(start)
	dist := segment.Mag()
	if dist < 1e-9 {
		return mid
	}
	normal := segment.Perp().Normalize()
	return mid.Add(normal.Mul(dist * bezierCurvature * side))
}

// quadraticBezier evaluates B(t) = (1-t)^2*p0 + 2(1-t)t*p1 + t^2*p2.
func quadraticBezier(p0, p1, p2 Vector2D, t float64) Vector2D {
	omt := 1.0 - t
	return p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
}

// humanPath perturbs the Bezier path with per-axis integer jitter scaled by jitterFactor,
// so the noise is largest right after the start and vanishes at the target. The first
// point stays on the start, which is where the pointer already is.
func humanPath(start, end Point, steps int, speedVariation float64, rng *rand.Rand) Trajectory {
	base := bezierPath(start, end, steps, rng)

	path := make(Trajectory, len(base))
	path[0] = start
	for i := 1; i < len(base); i++ {
		v := base[i]
		factor := jitterFactor(speedVariation, i, steps)
		jitter := Vector2D{
			X: float64(rng.Intn(2*humanJitterRange+1)-humanJitterRange) * factor,
			Y: float64(rng.Intn(2*humanJitterRange+1)-humanJitterRange) * factor,
		}
		path[i] = v.Add(jitter).Round()
	}
	return path
}

// jitterFactor is speedVariation*(1 - i/steps): non-increasing in i and zero at the end point.
func jitterFactor(speedVariation float64, i, steps int) float64 {
	return speedVariation * (1.0 - float64(i)/float64(steps))
}

func roundPath(path []Vector2D) Trajectory {
	out := make(Trajectory, len(path))
	for i, v := range path {
		out[i] = v.Round()
	}
	return out
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
