// internal/browser/session/session_test.go
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/glide/internal/browser/humanoid"
	"github.com/xkilldash9x/glide/internal/config"
)

func TestParseFlag(t *testing.T) {
	tests := []struct {
		arg   string
		name  string
		value interface{}
		ok    bool
	}{
		{"--lang=en-US", "lang", "en-US", true},
		{"--mute-audio", "mute-audio", true, true},
		{"  -incognito ", "incognito", true, true},
		{"--proxy-server=http://127.0.0.1:8080", "proxy-server", "http://127.0.0.1:8080", true},
		{"--", "", nil, false},
		{"", "", nil, false},
		{"--=value", "", "value", false},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			name, value, ok := parseFlag(tt.arg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.name, name)
				assert.Equal(t, tt.value, value)
			}
		})
	}
}

func TestAllocatorOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)
	cfg := config.NewDefaultConfig().Browser()

	assert.Len(t, AllocatorOptions(cfg), base+4)

	cfg.ExecPath = "/usr/bin/chromium"
	cfg.Args = []string{"--lang=en-US", "--", "--mute-audio"}
	assert.Len(t, AllocatorOptions(cfg), base+4+1+2, "exec path and two valid args are appended")
}

func TestSessionRunActions(t *testing.T) {
	t.Run("ReportsCallerCancellation", func(t *testing.T) {
		s := newTestSession(t, &actionRecorder{fn: blockUntilDone}, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := s.RunActions(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("StopsWhenSessionCloses", func(t *testing.T) {
		s := newTestSession(t, &actionRecorder{fn: blockUntilDone}, nil)
		time.AfterFunc(20*time.Millisecond, func() { _ = s.Close() })

		err := s.RunActions(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("PassesErrorsThrough", func(t *testing.T) {
		boom := errors.New("boom")
		s := newTestSession(t, &actionRecorder{fn: func(context.Context, ...chromedp.Action) error { return boom }}, nil)
		assert.ErrorIs(t, s.RunActions(context.Background()), boom)
	})
}

func TestSessionNavigate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		rec := &actionRecorder{}
		s := newTestSession(t, rec, nil)

		require.NoError(t, s.Navigate(context.Background(), "https://example.test/"))
		batches := rec.getBatches()
		require.Len(t, batches, 1)
		assert.Len(t, batches[0], 2, "navigate and wait for the body")
	})

	t.Run("Timeout", func(t *testing.T) {
		s := newTestSession(t, &actionRecorder{fn: blockUntilDone}, func(c *config.Config) {
			c.SetBrowserNavigationTimeout(30 * time.Millisecond)
		})

		err := s.Navigate(context.Background(), "https://slow.test/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out after 30ms")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Failure", func(t *testing.T) {
		s := newTestSession(t, &actionRecorder{fn: func(context.Context, ...chromedp.Action) error {
			return errors.New("net::ERR_NAME_NOT_RESOLVED")
		}}, nil)

		err := s.Navigate(context.Background(), "https://nowhere.test/")
		assert.ErrorContains(t, err, "navigation to https://nowhere.test/ failed")
	})
}

func TestSessionHumanoidWiring(t *testing.T) {
	rec := &actionRecorder{}
	s := newTestSession(t, rec, func(c *config.Config) {
		c.SetBrowserHumanoidEnabled(false)
		c.BrowserCfg.MaxInputRate = 0
	})

	assert.Equal(t, "test-session", s.ID())
	assert.Equal(t, config.DriverChromedp, s.Driver())
	require.NotNil(t, s.Humanoid())
	assert.False(t, s.Humanoid().Config().Enabled)
	assert.Nil(t, s.executor.limiter)

	// Disabled movement delegates to the driver hover, which starts with a geometry lookup.
	// The recorder never fills evaluation results, so the element reads as missing.
	err := s.Humanoid().MoveTo(context.Background(), "#btn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found or not visible")
	assert.Len(t, rec.getBatches(), 1, "no pointer event is sent without geometry")
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := newTestSession(t, &actionRecorder{}, nil)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Error(t, s.ctx.Err())
}

// findBrowser returns a local Chrome or Chromium binary, if any.
func findBrowser() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

const integrationPage = `<!doctype html>
<html><body style="margin:0">
<button id="go" style="position:absolute;left:400px;top:300px;width:120px;height:40px"
  onclick="document.title='clicked'">Go</button>
</body></html>`

// TestSessionIntegration drives a real headless browser end to end.
func TestSessionIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}
	bin := findBrowser()
	if bin == "" {
		t.Skip("no Chrome or Chromium binary found")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, integrationPage)
	}))
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.SetBrowserExecPath(bin)
	cfg.SetBrowserHumanoidPattern("human")
	cfg.SetBrowserHumanoidShowVisualCursor(true)
	cfg.SetBrowserHumanoidMovementTime(50*time.Millisecond, 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := New(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Navigate(ctx, srv.URL))
	require.NoError(t, s.Humanoid().ClickWithMovement(ctx, "#go", &humanoid.ClickOptions{Delay: 10 * time.Millisecond}))

	var title string
	require.NoError(t, s.RunActions(ctx, chromedp.Title(&title)))
	assert.Equal(t, "clicked", title)

	// The tracked pointer position ends on the button center.
	var pos map[string]float64
	require.NoError(t, s.RunActions(ctx, chromedp.Evaluate(`window.__glidePointer`, &pos)))
	assert.InDelta(t, 460, pos["x"], 1)
	assert.InDelta(t, 320, pos["y"], 1)

	var overlay bool
	require.NoError(t, s.RunActions(ctx, chromedp.Evaluate(`!!document.getElementById('glide-visual-cursor')`, &overlay)))
	assert.True(t, overlay)
}
