package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/glide/internal/config"
)

// actionRecorder stands in for chromedp.Run and records every batch of actions.
type actionRecorder struct {
	mu      sync.Mutex
	batches [][]chromedp.Action
	// fn, when set, decides the outcome of each batch.
	fn func(ctx context.Context, actions ...chromedp.Action) error
}

func (r *actionRecorder) run(ctx context.Context, actions ...chromedp.Action) error {
	r.mu.Lock()
	r.batches = append(r.batches, actions)
	fn := r.fn
	r.mu.Unlock()
	if fn != nil {
		return fn(ctx, actions...)
	}
	return nil
}

func (r *actionRecorder) getBatches() [][]chromedp.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]chromedp.Action, len(r.batches))
	copy(out, r.batches)
	return out
}

// blockUntilDone simulates a browser that never answers.
func blockUntilDone(ctx context.Context, _ ...chromedp.Action) error {
	<-ctx.Done()
	return ctx.Err()
}

// newTestExecutor builds an executor around a recorder.
func newTestExecutor(t *testing.T, rec *actionRecorder) *cdpExecutor {
	t.Helper()
	return &cdpExecutor{
		ctx:            context.Background(),
		logger:         zaptest.NewLogger(t),
		runActionsFunc: rec.run,
	}
}

// newTestSession builds a Session that never launches a browser.
func newTestSession(t *testing.T, rec *actionRecorder, mutate func(*config.Config)) *Session {
	t.Helper()
	cfg := config.NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     "test-session",
		ctx:    ctx,
		cancel: cancel,
		logger: zaptest.NewLogger(t),
		cfg:    cfg.Browser(),
		run:    rec.run,
	}
	hcfg, err := cfg.Browser().Humanoid.ToHumanoid()
	if err != nil {
		t.Fatalf("invalid humanoid config: %v", err)
	}
	if err := s.attachHumanoid(hcfg); err != nil {
		t.Fatalf("attachHumanoid: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// shortenTimeouts lowers the executor's per operation timeouts for one test.
func shortenTimeouts(t *testing.T, d time.Duration) {
	t.Helper()
	mouse, geom, script, click := mouseEventTimeout, geometryTimeout, scriptTimeout, clickTimeout
	mouseEventTimeout, geometryTimeout, scriptTimeout, clickTimeout = d, d, d, d
	t.Cleanup(func() {
		mouseEventTimeout, geometryTimeout, scriptTimeout, clickTimeout = mouse, geom, script, click
	})
}
