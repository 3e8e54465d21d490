package humanoid

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ClickWithMovement moves to the element, pauses, then clicks it natively. The whole
// sequence runs under the page lock so no other movement can slip between the
// approach and the click.
func (h *Humanoid) ClickWithMovement(ctx context.Context, selector string, opts *ClickOptions) error {
	if err := h.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.lock.Release(1)

	if err := h.moveToSelector(ctx, selector); err != nil {
		return err
	}

	delay := h.clickDelay(opts)
	h.logger.Debug("Pausing before click.", zap.String("selector", selector), zap.Duration("delay", delay))
	if err := h.executor.Sleep(ctx, delay); err != nil {
		return err
	}

	if h.cfg.ShowVisualCursor {
		pos, err := h.bridge.ReadPosition(ctx)
		if err != nil {
			return err
		}
		if err := h.bridge.UpdateOverlayCursor(ctx, pos, true); err != nil {
			return err
		}
	}

	return h.executor.Click(ctx, selector)
}

// clickDelay honors an explicit delay and otherwise draws from [MinClickDelay, MaxClickDelay].
func (h *Humanoid) clickDelay(opts *ClickOptions) time.Duration {
	if opts != nil && opts.Delay > 0 {
		return opts.Delay
	}
	return sampleDuration(h.rng, MinClickDelay, MaxClickDelay)
}
