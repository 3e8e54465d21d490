// internal/browser/humanoid/interface.go
package humanoid

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xkilldash9x/glide/api/schemas"
)

// Controller defines the high-level interface for human-like pointer interactions.
// This is the interface implemented by the Humanoid struct itself.
type Controller interface {
	MoveTo(ctx context.Context, selector string) error
	ClickWithMovement(ctx context.Context, selector string, opts *ClickOptions) error
}

// Executor defines the low-level driver capabilities required by the Humanoid controller.
// Elements are addressed by CSS selector; resolving them is the driver's job.
type Executor interface {
	// Sleep pauses for d, returning early with the context error if ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
	// DispatchMouseEvent sends a single low-level pointer event at absolute viewport coordinates.
	DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error
	// GetElementGeometry returns the border quad of a rendered element.
	// It fails when the element is missing, detached or not rendered.
	GetElementGeometry(ctx context.Context, selector string) (*schemas.ElementGeometry, error)
	// ExecuteScript evaluates a function expression inside the page, applying it to args.
	// The result is the JSON serialization of the function's return value.
	ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error)
	// CurrentURL reports the address of the page currently loaded in the tab.
	CurrentURL(ctx context.Context) (string, error)
	// Hover moves the pointer onto the element using the driver's own logic.
	Hover(ctx context.Context, selector string) error
	// Click performs the driver's native click on the element.
	Click(ctx context.Context, selector string) error
}

// ClickOptions tunes ClickWithMovement.
type ClickOptions struct {
	// Delay between the end of the movement and the click.
	// Zero draws a random pause from [MinClickDelay, MaxClickDelay].
	Delay time.Duration
}

var _ Controller = (*Humanoid)(nil)
