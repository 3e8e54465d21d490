// FILE: ./internal/browser/humanoid/mocks_test.go
package humanoid

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/xkilldash9x/glide/api/schemas"
)

// Simulated viewport used by the mock page.
const (
	mockViewportWidth  = 800
	mockViewportHeight = 600
)

// overlayUpdate records one call to the overlay update script.
type overlayUpdate struct {
	X        int
	Y        int
	Clicking bool
}

// mockExecutor implements the Executor interface for testing. Besides recording every
// call, it simulates the page-side state the injected scripts would maintain: the
// page address, the tracked pointer slot, the tracking listener and the overlay node.
//
// Overrides (Mock*) replace the default behavior; they may call the matching Default*
// method when the standard recording is still wanted. Overrides must not touch the
// Humanoid, which holds its page lock while calling into the executor.
type mockExecutor struct {
	t  *testing.T
	mu sync.Mutex

	// Ordered log of operation names ("url", "geometry", "move", "sleep", "hover",
	// "click", "script:<name>"), used to assert call sequences.
	calls            []string
	dispatchedEvents []schemas.MouseEventData
	sleepDurations   []time.Duration
	hovered          []string
	clicked          []string
	overlayUpdates   []overlayUpdate

	// Simulated page state.
	url               string
	pointer           Point
	pointerSet        bool
	trackingInstalled bool
	overlayPresent    bool
	overlayCreations  int

	// Geometry returned for any selector when MockGetElementGeometry is nil.
	geometry *schemas.ElementGeometry

	returnErr    error
	cancelOnCall int
	moveCount    int
	cancelFunc   context.CancelFunc

	MockGetElementGeometry func(ctx context.Context, selector string) (*schemas.ElementGeometry, error)
	MockExecuteScript      func(ctx context.Context, script string, args []interface{}) (json.RawMessage, error)
	MockSleep              func(ctx context.Context, d time.Duration) error
	MockDispatchMouseEvent func(ctx context.Context, data schemas.MouseEventData) error
	MockCurrentURL         func(ctx context.Context) (string, error)
}

// newMockExecutor creates a mock page at https://example.test/ with a 50x50 target centered at (125,125).
func newMockExecutor(t *testing.T) *mockExecutor {
	return &mockExecutor{
		t:        t,
		url:      "https://example.test/",
		geometry: schemas.NewRectGeometry(100, 100, 50, 50),
	}
}

func (m *mockExecutor) record(call string) {
	m.calls = append(m.calls, call)
}

// DispatchMouseEvent handles mouse events, checking for overrides first.
func (m *mockExecutor) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	if m.MockDispatchMouseEvent != nil {
		return m.MockDispatchMouseEvent(ctx, data)
	}
	return m.DefaultDispatchMouseEvent(ctx, data)
}

// DefaultDispatchMouseEvent records the event and, like the page listener would,
// stores move coordinates in the tracked slot.
func (m *mockExecutor) DefaultDispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	m.record("move")
	m.dispatchedEvents = append(m.dispatchedEvents, data)
	m.moveCount++
	if data.Type == schemas.MouseMove && m.trackingInstalled {
		m.pointer = Point{X: int(data.X), Y: int(data.Y)}
		m.pointerSet = true
	}
	err := m.returnErr
	cancel := m.cancelOnCall > 0 && m.moveCount == m.cancelOnCall && m.cancelFunc != nil
	m.mu.Unlock()

	if cancel {
		m.cancelFunc()
	}
	return err
}

// Sleep handles sleep requests, checking for overrides first.
func (m *mockExecutor) Sleep(ctx context.Context, d time.Duration) error {
	if m.MockSleep != nil {
		return m.MockSleep(ctx, d)
	}
	return m.DefaultSleep(ctx, d)
}

// DefaultSleep records the duration without waiting.
func (m *mockExecutor) DefaultSleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("sleep")
	m.sleepDurations = append(m.sleepDurations, d)
	return nil
}

// GetElementGeometry mocks geometry retrieval.
func (m *mockExecutor) GetElementGeometry(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	m.mu.Lock()
	m.record("geometry")
	m.mu.Unlock()
	if m.MockGetElementGeometry != nil {
		return m.MockGetElementGeometry(ctx, selector)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return m.geometry, nil
}

// CurrentURL returns the simulated page address.
func (m *mockExecutor) CurrentURL(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.record("url")
	url := m.url
	m.mu.Unlock()
	if m.MockCurrentURL != nil {
		return m.MockCurrentURL(ctx)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return url, nil
}

// Hover records the native hover.
func (m *mockExecutor) Hover(ctx context.Context, selector string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("hover")
	m.hovered = append(m.hovered, selector)
	return m.returnErr
}

// Click records the native click.
func (m *mockExecutor) Click(ctx context.Context, selector string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("click")
	m.clicked = append(m.clicked, selector)
	return m.returnErr
}

// ExecuteScript mocks script execution.
func (m *mockExecutor) ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	if m.MockExecuteScript != nil {
		return m.MockExecuteScript(ctx, script, args)
	}
	return m.DefaultExecuteScript(ctx, script, args)
}

// DefaultExecuteScript emulates each injected script against the simulated page state.
func (m *mockExecutor) DefaultExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("script:" + scriptName(script))

	center := Point{X: mockViewportWidth / 2, Y: mockViewportHeight / 2}
	switch script {
	case installTrackingJS:
		if !m.pointerSet {
			m.pointer = center
			m.pointerSet = true
		}
		installed := !m.trackingInstalled
		m.trackingInstalled = true
		return json.Marshal(installed)
	case readPositionJS:
		if !m.pointerSet {
			return json.Marshal(center)
		}
		return json.Marshal(m.pointer)
	case createOverlayJS:
		m.overlayPresent = true
		m.overlayCreations++
		return json.Marshal(true)
	case updateOverlayJS:
		params, ok := args[0].(map[string]interface{})
		if !ok && m.t != nil {
			m.t.Fatalf("overlay update called with %T", args[0])
		}
		if !m.overlayPresent {
			return json.Marshal(false)
		}
		m.overlayUpdates = append(m.overlayUpdates, overlayUpdate{
			X:        params["x"].(int),
			Y:        params["y"].(int),
			Clicking: params["clicking"].(bool),
		})
		return json.Marshal(true)
	default:
		return json.RawMessage("null"), nil
	}
}

// navigate simulates a page navigation: the address changes and page globals are lost.
func (m *mockExecutor) navigate(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.url = url
	m.pointerSet = false
	m.trackingInstalled = false
	m.overlayPresent = false
}

func scriptName(script string) string {
	switch script {
	case installTrackingJS:
		return "install"
	case readPositionJS:
		return "read"
	case createOverlayJS:
		return "create"
	case updateOverlayJS:
		return "update"
	default:
		return "other"
	}
}

// Helpers to safely copy mock state (for -race detector).

func getMockEvents(mock *mockExecutor) []schemas.MouseEventData {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	events := make([]schemas.MouseEventData, len(mock.dispatchedEvents))
	copy(events, mock.dispatchedEvents)
	return events
}

func getMockSleeps(mock *mockExecutor) []time.Duration {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	sleeps := make([]time.Duration, len(mock.sleepDurations))
	copy(sleeps, mock.sleepDurations)
	return sleeps
}

func getMockCalls(mock *mockExecutor) []string {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	calls := make([]string, len(mock.calls))
	copy(calls, mock.calls)
	return calls
}

func getOverlayUpdates(mock *mockExecutor) []overlayUpdate {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	updates := make([]overlayUpdate, len(mock.overlayUpdates))
	copy(updates, mock.overlayUpdates)
	return updates
}

// countCalls counts occurrences of name in calls.
func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}
