// Package visibility gates parse work on a content unit's element entering
// the viewport. Many units render far off-screen; eager parsing of all of
// them wastes work the user may never observe.
package visibility

import "sync"

// Target is an opaque host element reference. The pipeline never inspects
// it; it only hands it to the host's Notifier.
type Target any

// Notifier is the host's viewport observer. Observe invokes cb when target
// first intersects the viewport expanded by margin pixels - the margin
// pre-fetches slightly off-screen targets so the transition is invisible.
// cb may fire more than once; Gate enforces one-shot semantics. cancel
// stops observation.
type Notifier interface {
	Observe(target Target, margin int, cb func()) (cancel func(), err error)
}

// Eager reports every target visible immediately. For headless hosts
// (tests, server-side contexts) where there is no viewport to wait for.
type Eager struct{}

var _ Notifier = Eager{}

func (Eager) Observe(_ Target, _ int, cb func()) (func(), error) {
	cb()
	return func() {}, nil
}

// Gate is a one-shot visibility trigger: onVisible fires the first time the
// target becomes visible, then the gate auto-detaches.
type Gate struct {
	mu     sync.Mutex
	cancel func()
	done   bool
}

// Attach registers a one-shot visibility callback for target. A nil
// notifier, or an Observe registration error, fires onVisible synchronously
// so content is never silently dropped on hosts without the capability.
func Attach(n Notifier, target Target, margin int, onVisible func()) *Gate {
	g := &Gate{}
	if n == nil {
		g.fire(onVisible)
		return g
	}
	cancel, err := n.Observe(target, margin, func() { g.fire(onVisible) })
	if err != nil {
		g.fire(onVisible)
		return g
	}
	g.mu.Lock()
	if g.done {
		// fired synchronously during Observe (e.g. Eager)
		g.mu.Unlock()
		cancel()
		return g
	}
	g.cancel = cancel
	g.mu.Unlock()
	return g
}

func (g *Gate) fire(onVisible func()) {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return
	}
	g.done = true
	c := g.cancel
	g.cancel = nil
	g.mu.Unlock()
	if c != nil {
		c()
	}
	onVisible()
}

// Detach tears the gate down early. Idempotent; safe after the gate fired.
func (g *Gate) Detach() {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return
	}
	g.done = true
	c := g.cancel
	g.cancel = nil
	g.mu.Unlock()
	if c != nil {
		c()
	}
}
