// internal/browser/session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/glide/internal/browser/humanoid"
	"github.com/xkilldash9x/glide/internal/config"
	"github.com/xkilldash9x/glide/internal/observability"
)

// Session is one Chrome tab driven over the DevTools protocol by chromedp.
// It owns the browser process it launched.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	// allocCancel tears down the browser process.
	allocCancel context.CancelFunc
	logger      *zap.Logger
	cfg         config.BrowserConfig

	// run executes actions against the tab. Replaced in tests.
	run func(ctx context.Context, actions ...chromedp.Action) error

	executor  *cdpExecutor
	humanoid  *humanoid.Humanoid
	started   bool
	closeOnce sync.Once
}

// New launches a browser as described by cfg and opens a tab in it.
func New(parentCtx context.Context, cfg config.Interface, logger *zap.Logger) (*Session, error) {
	browserCfg := cfg.Browser()
	hcfg, err := browserCfg.Humanoid.ToHumanoid()
	if err != nil {
		return nil, fmt.Errorf("invalid humanoid configuration: %w", err)
	}

	sessionID := uuid.New().String()
	log := observability.WithSession(logger, sessionID, config.DriverChromedp)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, AllocatorOptions(browserCfg)...)
	sugar := log.Named("chromedp").Sugar()
	ctx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Errorf),
	)

	s := &Session{
		id:          sessionID,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      log,
		cfg:         browserCfg,
	}
	s.run = s.runChromedp

	// An empty run starts the browser and attaches to the first tab.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	s.started = true

	if err := s.attachHumanoid(hcfg); err != nil {
		_ = s.Close()
		return nil, err
	}

	log.Info("Browser session started.",
		zap.Bool("headless", browserCfg.Headless),
		zap.Int("viewport_width", browserCfg.Viewport.Width),
		zap.Int("viewport_height", browserCfg.Viewport.Height))
	return s, nil
}

// attachHumanoid wires the pointer simulation to this session's executor.
func (s *Session) attachHumanoid(hcfg humanoid.Config) error {
	s.executor = &cdpExecutor{
		ctx:            s.ctx,
		logger:         s.logger.Named("cdp_executor"),
		limiter:        newInputLimiter(s.cfg.MaxInputRate),
		runActionsFunc: s.RunActions,
	}
	h, err := humanoid.New(hcfg, s.logger, s.executor)
	if err != nil {
		return fmt.Errorf("failed to create humanoid: %w", err)
	}
	s.humanoid = h
	return nil
}

// AllocatorOptions translates the browser settings into chromedp allocator options.
func AllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(cfg.Viewport.Width, cfg.Viewport.Height),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	for _, arg := range cfg.Args {
		name, value, ok := parseFlag(arg)
		if !ok {
			continue
		}
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// parseFlag splits "--name=value" into its parts. A bare "--name" is a boolean switch.
func parseFlag(arg string) (name string, value interface{}, ok bool) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	if arg == "" {
		return "", nil, false
	}
	if k, v, found := strings.Cut(arg, "="); found {
		return k, v, k != ""
	}
	return arg, true, true
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Driver names the automation backend.
func (s *Session) Driver() string {
	return config.DriverChromedp
}

// Humanoid returns the pointer controller bound to this tab.
func (s *Session) Humanoid() *humanoid.Humanoid {
	return s.humanoid
}

// RunActions executes chromedp actions within the session's lifecycle, bounded by ctx.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	err := s.run(combined, actions...)
	if err != nil && ctx.Err() != nil {
		// Report the caller's cancellation rather than the derived one.
		return ctx.Err()
	}
	return err
}

func (s *Session) runChromedp(ctx context.Context, actions ...chromedp.Action) error {
	return chromedp.Run(ctx, actions...)
}

// Navigate loads url and waits for the document body.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	s.logger.Debug("Navigating.", zap.String("url", url))
	err := s.RunActions(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, s.cfg.NavigationTimeout, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Close shuts the tab and the browser. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Debug("Closing browser session.")
		if s.started {
			err = chromedp.Cancel(s.ctx)
		}
		s.cancel()
		if s.allocCancel != nil {
			s.allocCancel()
		}
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	})
	return err
}
