// internal/browser/manager.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/glide/internal/browser/rodsession"
	"github.com/xkilldash9x/glide/internal/browser/session"
	"github.com/xkilldash9x/glide/internal/config"
)

// Opener starts a page for one driver.
type Opener func(ctx context.Context, cfg config.Interface, logger *zap.Logger) (Page, error)

// DefaultOpeners maps every supported driver name to its constructor.
func DefaultOpeners() map[string]Opener {
	return map[string]Opener{
		config.DriverChromedp: func(ctx context.Context, cfg config.Interface, logger *zap.Logger) (Page, error) {
			s, err := session.New(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		config.DriverRod: func(ctx context.Context, cfg config.Interface, logger *zap.Logger) (Page, error) {
			s, err := rodsession.New(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
}

// Manager opens pages with the configured driver and closes whatever is still open on shutdown.
type Manager struct {
	logger  *zap.Logger
	openers map[string]Opener

	mu    sync.RWMutex
	pages map[string]Page
}

var _ pageLifecycleObserver = (*Manager)(nil)

// NewManager creates a manager. A nil openers map selects DefaultOpeners.
func NewManager(logger *zap.Logger, openers map[string]Opener) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if openers == nil {
		openers = DefaultOpeners()
	}
	return &Manager{
		logger:  logger.Named("browser_manager"),
		openers: openers,
		pages:   make(map[string]Page),
	}
}

// Open starts a page using the driver named in cfg.
func (m *Manager) Open(ctx context.Context, cfg config.Interface) (Page, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Browser().Driver))
	open, ok := m.openers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported browser driver %q", driver)
	}

	m.logger.Debug("Opening page.", zap.String("driver", driver))
	p, err := open(ctx, cfg, m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s page: %w", driver, err)
	}

	mp := &managedPage{Page: p, observer: m}
	m.mu.Lock()
	m.pages[p.ID()] = mp
	m.mu.Unlock()
	return mp, nil
}

// ActivePages reports how many opened pages have not been closed yet.
func (m *Manager) ActivePages() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pages)
}

func (m *Manager) unregisterPage(id string) {
	m.mu.Lock()
	delete(m.pages, id)
	m.mu.Unlock()
}

// Shutdown closes every page still open, waiting until ctx is done at most.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	open := make([]Page, 0, len(m.pages))
	for _, p := range m.pages {
		open = append(open, p)
	}
	m.mu.RUnlock()

	if len(open) == 0 {
		return nil
	}
	m.logger.Info("Closing open pages.", zap.Int("count", len(open)))

	var (
		g      errgroup.Group
		errsMu sync.Mutex
		errs   []error
	)
	for _, p := range open {
		g.Go(func() error {
			if err := p.Close(); err != nil {
				m.logger.Warn("Error during page close in shutdown.", zap.String("page_id", p.ID()), zap.Error(err))
				errsMu.Lock()
				errs = append(errs, fmt.Errorf("page %s: %w", p.ID(), err))
				errsMu.Unlock()
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All pages closed.")
		errsMu.Lock()
		defer errsMu.Unlock()
		return errors.Join(errs...)
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for pages to close.", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

// managedPage unregisters itself from its manager on Close.
type managedPage struct {
	Page
	observer pageLifecycleObserver
	once     sync.Once
}

func (p *managedPage) Close() error {
	var err error
	p.once.Do(func() {
		err = p.Page.Close()
		p.observer.unregisterPage(p.Page.ID())
	})
	return err
}
