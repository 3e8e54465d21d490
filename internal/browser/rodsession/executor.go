// internal/browser/rodsession/executor.go
package rodsession

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/glide/api/schemas"
	"github.com/xkilldash9x/glide/internal/browser/humanoid"
)

// rodExecutor implements humanoid.Executor on top of a go-rod page.
type rodExecutor struct {
	page    *rod.Page
	logger  *zap.Logger
	limiter *rate.Limiter
}

var _ humanoid.Executor = (*rodExecutor)(nil)

// Sleep waits for d or until ctx is done.
func (e *rodExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return sleepContext(ctx, d)
}

// sleepContext is a cancellable time.Sleep.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DispatchMouseEvent sends Input.dispatchMouseEvent directly so the event carries
// exactly the coordinates and button state computed by the trajectory.
func (e *rodExecutor) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rodExecutor DispatchMouseEvent rate limit wait: %w", err)
		}
	}
	if err := mouseEventParams(data).Call(e.page.Context(ctx)); err != nil {
		return fmt.Errorf("rodExecutor DispatchMouseEvent: %w", err)
	}
	return nil
}

// mouseEventParams maps the driver-neutral event onto the protocol call.
func mouseEventParams(data schemas.MouseEventData) proto.InputDispatchMouseEvent {
	p := proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventType(data.Type),
		X:          data.X,
		Y:          data.Y,
		Button:     proto.InputMouseButton(data.Button),
		ClickCount: data.ClickCount,
	}
	if data.Buttons != 0 {
		buttons := int(data.Buttons)
		p.Buttons = &buttons
	}
	return p
}

// GetElementGeometry resolves the selector without waiting and reads its content quads.
func (e *rodExecutor) GetElementGeometry(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	el, err := e.findElement(ctx, selector)
	if err != nil {
		return nil, err
	}
	shape, err := el.Shape()
	if err != nil {
		return nil, fmt.Errorf("failed to read shape of '%s': %w", selector, err)
	}
	tag := ""
	if node, err := el.Describe(0, false); err == nil {
		tag = node.NodeName
	}
	return quadsToGeometry(selector, shape.Quads, tag)
}

// findElement returns the first match for selector, bound to ctx.
func (e *rodExecutor) findElement(ctx context.Context, selector string) (*rod.Element, error) {
	found, el, err := e.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query '%s': %w", selector, err)
	}
	if !found {
		e.logger.Debug("No element matches selector.", zap.String("selector", selector))
		return nil, fmt.Errorf("element '%s' not found or not visible", selector)
	}
	return el.Context(ctx), nil
}

// quadsToGeometry converts the first content quad into an ElementGeometry.
func quadsToGeometry(selector string, quads []proto.DOMQuad, tag string) (*schemas.ElementGeometry, error) {
	if len(quads) == 0 || len(quads[0]) < 8 {
		return nil, fmt.Errorf("element '%s' not found or not visible (no content quads)", selector)
	}
	q := quads[0]
	minX, maxX := q[0], q[0]
	minY, maxY := q[1], q[1]
	for i := 2; i < 8; i += 2 {
		minX, maxX = math.Min(minX, q[i]), math.Max(maxX, q[i])
		minY, maxY = math.Min(minY, q[i+1]), math.Max(maxY, q[i+1])
	}
	geom := &schemas.ElementGeometry{
		Vertices: append([]float64(nil), q[:8]...),
		Width:    int64(math.Round(maxX - minX)),
		Height:   int64(math.Round(maxY - minY)),
		TagName:  tag,
	}
	if geom.Width <= 0 || geom.Height <= 0 {
		return nil, fmt.Errorf("element '%s' not found or not visible (invalid dimensions: width=%d, height=%d)", selector, geom.Width, geom.Height)
	}
	return geom, nil
}

// ExecuteScript evaluates a function expression with args. go-rod applies the
// function itself, so the script is passed through untouched.
func (e *rodExecutor) ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	res, err := e.page.Context(ctx).Eval(script, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context error during ExecuteScript: %w", err)
		}
		return nil, fmt.Errorf("failed ExecuteScript evaluation: %w", err)
	}
	return json.RawMessage(res.Value.JSON("", "")), nil
}

// CurrentURL reads the tab's target info.
func (e *rodExecutor) CurrentURL(ctx context.Context) (string, error) {
	info, err := e.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("rodExecutor CurrentURL: %w", err)
	}
	return info.URL, nil
}

// Hover uses go-rod's hover, which scrolls the element into view first.
func (e *rodExecutor) Hover(ctx context.Context, selector string) error {
	el, err := e.findElement(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("rodExecutor Hover '%s': %w", selector, err)
	}
	return nil
}

// Click performs go-rod's native left click.
func (e *rodExecutor) Click(ctx context.Context, selector string) error {
	el, err := e.findElement(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("rodExecutor Click '%s': %w", selector, err)
	}
	return nil
}
