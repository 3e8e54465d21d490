// internal/browser/humanoid/movement.go
package humanoid

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/glide/api/schemas"
	"go.uber.org/zap"
)

// MoveTo moves the pointer from its tracked position to the center of the element
// matched by selector, one trajectory point at a time.
func (h *Humanoid) MoveTo(ctx context.Context, selector string) error {
	if err := h.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.lock.Release(1)

	return h.moveToSelector(ctx, selector)
}

// moveToSelector is the lock-free body of MoveTo. Callers must hold h.lock.
func (h *Humanoid) moveToSelector(ctx context.Context, selector string) error {
	if !h.cfg.Enabled {
		h.logger.Debug("Simulation disabled, delegating to native hover.", zap.String("selector", selector))
		return h.executor.Hover(ctx, selector)
	}

	if _, err := h.bridge.SyncPageIdentity(ctx); err != nil {
		return err
	}
	if h.cfg.ShowVisualCursor {
		if err := h.bridge.CreateOverlayCursor(ctx); err != nil {
			return err
		}
	}
	if err := h.bridge.InstallPositionTracking(ctx); err != nil {
		return err
	}

	start, err := h.bridge.ReadPosition(ctx)
	if err != nil {
		return err
	}
	end, err := h.resolveTarget(ctx, selector)
	if err != nil {
		return err
	}

	m, err := PlanMovement(h.cfg, start, end, h.rng)
	if err != nil {
		return err
	}

	h.logger.Debug("Executing pointer movement.",
		zap.String("selector", selector),
		zap.String("pattern", string(h.cfg.Pattern)),
		zap.Any("from", start),
		zap.Any("to", end),
		zap.Int("steps", m.Trajectory.Steps()),
		zap.Duration("duration", m.Duration))

	return h.executeTrajectory(ctx, m.Trajectory, m.Delays)
}

// resolveTarget returns the rounded center of the element's border quad.
func (h *Humanoid) resolveTarget(ctx context.Context, selector string) (Point, error) {
	geo, err := h.executor.GetElementGeometry(ctx, selector)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Point{}, ctxErr
		}
		return Point{}, fmt.Errorf("%w: '%s': %w", ErrTargetUnresolvable, selector, err)
	}
	x, y, ok := geo.Center()
	if !ok {
		return Point{}, fmt.Errorf("%w: '%s' has invalid geometry", ErrTargetUnresolvable, selector)
	}
	return Vector2D{X: x, Y: y}.Round(), nil
}

// executeTrajectory dispatches a move to each point in order and waits the planned
// delay after it. A cancelled context stops the loop at the next step boundary and
// leaves the page pointer at the last dispatched point.
func (h *Humanoid) executeTrajectory(ctx context.Context, traj Trajectory, plan TimingPlan) error {
	for i, p := range traj {
		if err := ctx.Err(); err != nil {
			return err
		}

		event := schemas.MouseEventData{
			Type:   schemas.MouseMove,
			X:      float64(p.X),
			Y:      float64(p.Y),
			Button: schemas.ButtonNone,
		}
		if err := h.executor.DispatchMouseEvent(ctx, event); err != nil {
			return err
		}

		if h.cfg.ShowVisualCursor {
			if err := h.bridge.UpdateOverlayCursor(ctx, p, false); err != nil {
				return err
			}
		}

		if i < len(plan) {
			if err := h.executor.Sleep(ctx, plan[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
