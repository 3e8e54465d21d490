// internal/browser/rodsession/session.go
package rodsession

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/glide/internal/browser/humanoid"
	"github.com/xkilldash9x/glide/internal/config"
	"github.com/xkilldash9x/glide/internal/observability"
)

// Session is one Chrome tab driven by go-rod.
type Session struct {
	id       string
	logger   *zap.Logger
	cfg      config.BrowserConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	humanoid *humanoid.Humanoid

	closeOnce sync.Once
}

// New launches a browser with go-rod's launcher and opens a blank tab sized to the viewport.
func New(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Session, error) {
	browserCfg := cfg.Browser()
	hcfg, err := browserCfg.Humanoid.ToHumanoid()
	if err != nil {
		return nil, fmt.Errorf("invalid humanoid configuration: %w", err)
	}

	sessionID := uuid.New().String()
	log := observability.WithSession(logger, sessionID, config.DriverRod)
	s := &Session{id: sessionID, logger: log, cfg: browserCfg}

	s.launcher = newLauncher(ctx, browserCfg)
	controlURL, err := s.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		s.launcher.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s.page, err = s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	err = s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             browserCfg.Viewport.Width,
		Height:            browserCfg.Viewport.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

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

// newLauncher translates the browser settings into a go-rod launcher.
func newLauncher(ctx context.Context, cfg config.BrowserConfig) *launcher.Launcher {
	l := launcher.New().Context(ctx).Headless(cfg.Headless).NoSandbox(true).
		Set("disable-gpu").
		Set("window-size", strconv.Itoa(cfg.Viewport.Width)+","+strconv.Itoa(cfg.Viewport.Height))

	bin := cfg.ExecPath
	if bin == "" {
		if found, ok := launcher.LookPath(); ok {
			bin = found
		}
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	for _, arg := range cfg.Args {
		name, values, ok := splitFlag(arg)
		if !ok {
			continue
		}
		l = l.Set(flags.Flag(name), values...)
	}
	return l
}

// splitFlag splits "--name=a,b" into the flag name and its comma separated values.
func splitFlag(arg string) (name string, values []string, ok bool) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	if arg == "" {
		return "", nil, false
	}
	k, v, found := strings.Cut(arg, "=")
	if k == "" {
		return "", nil, false
	}
	if !found {
		return k, nil, true
	}
	return k, strings.Split(v, ","), true
}

func (s *Session) attachHumanoid(hcfg humanoid.Config) error {
	executor := &rodExecutor{
		page:   s.page,
		logger: s.logger.Named("rod_executor"),
	}
	if s.cfg.MaxInputRate > 0 {
		executor.limiter = rate.NewLimiter(rate.Limit(s.cfg.MaxInputRate), 1)
	}
	h, err := humanoid.New(hcfg, s.logger, executor)
	if err != nil {
		return fmt.Errorf("failed to create humanoid: %w", err)
	}
	s.humanoid = h
	return nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Driver names the automation backend.
func (s *Session) Driver() string {
	return config.DriverRod
}

// Humanoid returns the pointer controller bound to this tab.
func (s *Session) Humanoid() *humanoid.Humanoid {
	return s.humanoid
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	s.logger.Debug("Navigating.", zap.String("url", url))
	page := s.page.Context(navCtx)
	err := page.Navigate(url)
	if err == nil {
		err = page.WaitLoad()
	}
	if err != nil {
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, s.cfg.NavigationTimeout, navCtx.Err())
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Close shuts the browser and removes its temporary profile. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Debug("Closing browser session.")
		if s.browser != nil {
			err = s.browser.Close()
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
	return err
}
