// internal/browser/session/context_utils.go
package session

import "context"

// CombineContext returns a context that carries the values of primary (the chromedp
// tab context) and is canceled as soon as either primary or op is done.
// chromedp finds its target through context values, so operation deadlines have to be
// grafted onto the tab context rather than the other way round.
func CombineContext(primary, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)
	stop := context.AfterFunc(op, cancel)
	return combined, func() {
		stop()
		cancel()
	}
}
