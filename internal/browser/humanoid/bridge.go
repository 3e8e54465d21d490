package humanoid

import (
	"context"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Overlay click feedback timings.
const (
	rippleDuration        = 500 * time.Millisecond
	clickFeedbackDuration = 200 * time.Millisecond
)

// PageBridge owns the injected state of a single page session: the position tracker
// and the overlay cursor. It remembers the last page identity so it can tell when a
// navigation wiped the overlay. Callers serialize access; the Humanoid does so with
// its page lock.
type PageBridge struct {
	executor Executor
	logger   *zap.Logger

	overlayInitialized bool
	lastPageURL        string
}

// NewPageBridge creates a bridge over executor.
func NewPageBridge(executor Executor, logger *zap.Logger) *PageBridge {
	return &PageBridge{
		executor: executor,
		logger:   logger.Named("bridge"),
	}
}

// OverlayInitialized reports whether the overlay is believed to exist on the current page.
func (b *PageBridge) OverlayInitialized() bool {
	return b.overlayInitialized
}

// SyncPageIdentity compares the page address with the last one seen and clears the
// overlay flag when it changed. Tracking needs no reset; its install is idempotent.
func (b *PageBridge) SyncPageIdentity(ctx context.Context) (bool, error) {
	url, err := b.executor.CurrentURL(ctx)
	if err != nil {
		return false, instrumentationError("read page identity", err)
	}
	if url == b.lastPageURL {
		return false, nil
	}
	if b.lastPageURL != "" {
		b.logger.Info("Page navigation detected, resetting overlay cursor state.",
			zap.String("from", b.lastPageURL),
			zap.String("to", url))
	}
	b.overlayInitialized = false
	b.lastPageURL = url
	return true, nil
}

// InstallPositionTracking installs the page's pointer listener if it is not there yet.
func (b *PageBridge) InstallPositionTracking(ctx context.Context) error {
	raw, err := b.executor.ExecuteScript(ctx, installTrackingJS, nil)
	if err != nil {
		return instrumentationError("install position tracking", err)
	}
	var installed bool
	if err := json.Unmarshal(raw, &installed); err == nil && installed {
		b.logger.Debug("Pointer position tracking installed.")
	}
	return nil
}

// ReadPosition returns the last pointer coordinates recorded in the page,
// or the viewport center when nothing has been recorded.
func (b *PageBridge) ReadPosition(ctx context.Context) (Point, error) {
	raw, err := b.executor.ExecuteScript(ctx, readPositionJS, nil)
	if err != nil {
		return Point{}, instrumentationError("read pointer position", err)
	}
	var pos *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(raw, &pos); err != nil {
		return Point{}, instrumentationError("decode pointer position", err)
	}
	if pos == nil {
		return Point{}, instrumentationError("decode pointer position", fmt.Errorf("script returned %q", string(raw)))
	}
	return Vector2D{X: pos.X, Y: pos.Y}.Round(), nil
}

// CreateOverlayCursor inserts the overlay node. It is a no-op while the overlay
// is flagged as initialized for the current page identity.
func (b *PageBridge) CreateOverlayCursor(ctx context.Context) error {
	if b.overlayInitialized {
		return nil
	}
	if _, err := b.executor.ExecuteScript(ctx, createOverlayJS, nil); err != nil {
		return instrumentationError("create overlay cursor", err)
	}
	b.overlayInitialized = true
	b.logger.Info("Visual cursor overlay created.", zap.String("page", b.lastPageURL))
	return nil
}

// UpdateOverlayCursor moves the overlay to p. With clicking set, the page also plays
// the click ripple. A missing overlay node is logged and otherwise ignored.
func (b *PageBridge) UpdateOverlayCursor(ctx context.Context, p Point, clicking bool) error {
	params := map[string]interface{}{
		"x":          p.X,
		"y":          p.Y,
		"clicking":   clicking,
		"rippleMs":   rippleDuration.Milliseconds(),
		"feedbackMs": clickFeedbackDuration.Milliseconds(),
	}
	raw, err := b.executor.ExecuteScript(ctx, updateOverlayJS, []interface{}{params})
	if err != nil {
		return instrumentationError("update overlay cursor", err)
	}
	var found bool
	if err := json.Unmarshal(raw, &found); err != nil || !found {
		b.logger.Warn("Visual cursor element not found when updating its position.",
			zap.Int("x", p.X),
			zap.Int("y", p.Y),
			zap.Bool("clicking", clicking))
	}
	return nil
}

func instrumentationError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInstrumentation, op, err)
}
