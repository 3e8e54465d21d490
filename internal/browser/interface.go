// internal/browser/interface.go
package browser

import (
	"context"

	"github.com/xkilldash9x/glide/internal/browser/humanoid"
)

// Page is one browser tab with a pointer controller attached, independent of the driver behind it.
type Page interface {
	ID() string
	Driver() string
	Navigate(ctx context.Context, url string) error
	Humanoid() *humanoid.Humanoid
	Close() error
}

// pageLifecycleObserver is told when a page it handed out has been closed.
type pageLifecycleObserver interface {
	unregisterPage(id string)
}
