// File: cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/glide/api/schemas"
	"github.com/xkilldash9x/glide/internal/browser"
	"github.com/xkilldash9x/glide/internal/browser/humanoid"
	"github.com/xkilldash9x/glide/internal/config"
	"github.com/xkilldash9x/glide/internal/observability"
)

// resetForTest isolates a test from package state and the user's environment.
func resetForTest(t *testing.T) {
	t.Helper()
	observability.ResetForTest()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	prev := pageOpeners
	t.Cleanup(func() {
		pageOpeners = prev
		observability.ResetForTest()
	})
}

// runCommand executes the command tree with args and returns its combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// fakeExecutor stands in for a browser tab: every element is a 50x50 box at (100,100)
// and every page script answers with a pointer at the origin.
type fakeExecutor struct {
	mu      sync.Mutex
	moves   []schemas.MouseEventData
	hovered []string
	clicked []string
}

func (f *fakeExecutor) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func (f *fakeExecutor) DispatchMouseEvent(_ context.Context, data schemas.MouseEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, data)
	return nil
}

func (f *fakeExecutor) GetElementGeometry(_ context.Context, _ string) (*schemas.ElementGeometry, error) {
	return schemas.NewRectGeometry(100, 100, 50, 50), nil
}

func (f *fakeExecutor) ExecuteScript(context.Context, string, []interface{}) (json.RawMessage, error) {
	return json.RawMessage(`{"x":0,"y":0}`), nil
}

func (f *fakeExecutor) CurrentURL(context.Context) (string, error) { return "https://example.test/", nil }

func (f *fakeExecutor) Hover(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hovered = append(f.hovered, selector)
	return nil
}

func (f *fakeExecutor) Click(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicked = append(f.clicked, selector)
	return nil
}

// fakePage is a browser.Page over a fakeExecutor.
type fakePage struct {
	h         *humanoid.Humanoid
	cfg       config.BrowserConfig
	navigated []string
	closed    int
}

func (p *fakePage) ID() string                   { return "fake-page" }
func (p *fakePage) Driver() string               { return p.cfg.Driver }
func (p *fakePage) Humanoid() *humanoid.Humanoid { return p.h }
func (p *fakePage) Close() error                 { p.closed++; return nil }
func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return nil
}

// useFakeBrowser routes both drivers to a fake page and returns the executor and the
// page once the command has opened it.
func useFakeBrowser(t *testing.T) (*fakeExecutor, func() *fakePage) {
	t.Helper()
	exec := &fakeExecutor{}
	var page *fakePage
	open := func(_ context.Context, cfg config.Interface, _ *zap.Logger) (browser.Page, error) {
		hcfg, err := cfg.Browser().Humanoid.ToHumanoid()
		if err != nil {
			return nil, err
		}
		h, err := humanoid.New(hcfg, zap.NewNop(), exec)
		if err != nil {
			return nil, err
		}
		page = &fakePage{h: h, cfg: cfg.Browser()}
		return page, nil
	}
	pageOpeners = map[string]browser.Opener{
		config.DriverChromedp: open,
		config.DriverRod:      open,
	}
	return exec, func() *fakePage { return page }
}
