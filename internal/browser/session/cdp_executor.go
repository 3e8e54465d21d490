// internal/browser/session/cdp_executor.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/glide/api/schemas"
	"github.com/xkilldash9x/glide/internal/browser/humanoid"
)

// Per operation timeouts applied on top of the caller's context.
var (
	mouseEventTimeout = 10 * time.Second
	geometryTimeout   = 10 * time.Second
	scriptTimeout     = 20 * time.Second
	clickTimeout      = 15 * time.Second
)

// cdpExecutor is an adapter that implements the humanoid.Executor interface
// using chromedp actions.
type cdpExecutor struct {
	ctx    context.Context // The session's master context.
	logger *zap.Logger
	// limiter caps the pointer event rate. Nil means unlimited.
	limiter        *rate.Limiter
	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error // Points to Session.RunActions
}

var _ humanoid.Executor = (*cdpExecutor)(nil)

// newInputLimiter returns nil when perSecond is not positive.
func newInputLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Sleep pauses execution for the specified duration, respecting the context.
func (e *cdpExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return e.runActionsFunc(ctx, chromedp.Sleep(d))
}

// DispatchMouseEvent dispatches a single mouse event via CDP.
func (e *cdpExecutor) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("cdpExecutor DispatchMouseEvent rate limit wait: %w", err)
		}
	}

	p := input.DispatchMouseEvent(input.MouseType(data.Type), data.X, data.Y).
		WithButton(input.MouseButton(data.Button)).
		WithButtons(data.Buttons).
		WithClickCount(int64(data.ClickCount))

	opCtx, cancel := context.WithTimeout(ctx, mouseEventTimeout)
	defer cancel()

	err := e.runActionsFunc(opCtx, p)
	if err != nil && opCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		e.logger.Debug("cdpExecutor DispatchMouseEvent timed out.", zap.Duration("timeout", mouseEventTimeout))
		return fmt.Errorf("cdpExecutor DispatchMouseEvent timed out after %v: %w", mouseEventTimeout, opCtx.Err())
	}
	return err
}

// geometryJS resolves the first element matching a selector to its border quad in
// viewport coordinates. Returns null when nothing matches or the element is not rendered.
const geometryJS = `(sel) => {
	const node = document.querySelector(sel);
	if (!node) return null;
	const rect = node.getBoundingClientRect();
	const style = window.getComputedStyle(node);
	if (rect.width <= 0 || rect.height <= 0 || style.display === 'none' || style.visibility === 'hidden') {
		return null;
	}
	return {
		vertices: [
			rect.left, rect.top,
			rect.right, rect.top,
			rect.right, rect.bottom,
			rect.left, rect.bottom
		],
		width: Math.round(rect.width),
		height: Math.round(rect.height),
		tagName: node.tagName || ''
	};
}`

// GetElementGeometry retrieves the bounding quad and tag name for a selector.
func (e *cdpExecutor) GetElementGeometry(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	expr, err := applyExpression(geometryJS, []interface{}{selector})
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, geometryTimeout)
	defer cancel()

	var res json.RawMessage
	err = e.runActionsFunc(opCtx, evaluate(expr, &res))
	if err != nil {
		if ctx.Err() != nil || e.ctx.Err() != nil {
			return nil, fmt.Errorf("context error getting geometry for '%s': %w", selector, err)
		}
		if opCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("timeout getting geometry for '%s': %w", selector, opCtx.Err())
		}
		return nil, fmt.Errorf("failed JS evaluation for geometry '%s': %w", selector, err)
	}

	return decodeGeometry(selector, res, e.logger)
}

// decodeGeometry turns the geometry script's payload into an ElementGeometry.
func decodeGeometry(selector string, res []byte, logger *zap.Logger) (*schemas.ElementGeometry, error) {
	if len(res) == 0 || string(res) == "null" {
		logger.Debug("Element geometry evaluation returned null (not found or not visible).", zap.String("selector", selector))
		return nil, fmt.Errorf("element '%s' not found or not visible", selector)
	}

	var geom schemas.ElementGeometry
	if err := jsoniter.Unmarshal(res, &geom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geometry for '%s': %w (payload: %s)", selector, err, string(res))
	}
	if geom.Width <= 0 || geom.Height <= 0 {
		return nil, fmt.Errorf("element '%s' not found or not visible (invalid dimensions: width=%d, height=%d)", selector, geom.Width, geom.Height)
	}
	return &geom, nil
}

// ExecuteScript applies a function expression to args inside the page.
func (e *cdpExecutor) ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	expr, err := applyExpression(script, args)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	var res json.RawMessage
	err = e.runActionsFunc(opCtx, evaluate(expr, &res))
	if err != nil {
		if ctx.Err() != nil || e.ctx.Err() != nil {
			return nil, fmt.Errorf("context error during ExecuteScript: %w", err)
		}
		if opCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("timeout during ExecuteScript: %w", opCtx.Err())
		}
		return nil, fmt.Errorf("failed ExecuteScript evaluation: %w", err)
	}
	return res, nil
}

// CurrentURL reads the address of the loaded document.
func (e *cdpExecutor) CurrentURL(ctx context.Context) (string, error) {
	opCtx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	var loc string
	if err := e.runActionsFunc(opCtx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("cdpExecutor CurrentURL: %w", err)
	}
	return loc, nil
}

// Hover moves the pointer straight to the element's center with a single event.
func (e *cdpExecutor) Hover(ctx context.Context, selector string) error {
	geom, err := e.GetElementGeometry(ctx, selector)
	if err != nil {
		return err
	}
	x, y, ok := geom.Center()
	if !ok {
		return fmt.Errorf("element '%s' has no usable geometry", selector)
	}
	return e.DispatchMouseEvent(ctx, schemas.MouseEventData{
		Type:   schemas.MouseMove,
		X:      x,
		Y:      y,
		Button: schemas.ButtonNone,
	})
}

// Click performs chromedp's native click on the first matching element.
func (e *cdpExecutor) Click(ctx context.Context, selector string) error {
	opCtx, cancel := context.WithTimeout(ctx, clickTimeout)
	defer cancel()

	err := e.runActionsFunc(opCtx, chromedp.Click(selector, chromedp.ByQuery))
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return fmt.Errorf("timeout clicking '%s' after %v: %w", selector, clickTimeout, opCtx.Err())
		}
		return fmt.Errorf("cdpExecutor Click '%s': %w", selector, err)
	}
	return nil
}

// evaluate runs an expression and captures its value as raw JSON.
func evaluate(expr string, res *json.RawMessage) chromedp.Action {
	return chromedp.Evaluate(expr, res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
	})
}

// applyExpression builds `(fn).apply(null, [args...])` with the arguments JSON encoded.
func applyExpression(fn string, args []interface{}) (string, error) {
	if args == nil {
		args = []interface{}{}
	}
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode script arguments: %w", err)
	}
	return fmt.Sprintf("(%s).apply(null, %s)", fn, encoded), nil
}
