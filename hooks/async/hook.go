// Package asynchook decouples hook consumers from the render path: events
// are handed to a bounded queue and delivered by worker goroutines, and
// dropped when the queue is full. Wrap a slow sink (sloghooks with a
// blocking handler, a metrics pusher) so the pipeline's hot paths stay
// non-blocking.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{FallthroughEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
package asynchook

import (
	"sync"
	"time"

	"github.com/textpipe/renderpipe"
)

type Hooks struct {
	inner renderpipe.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ renderpipe.Hooks = (*Hooks)(nil)

func New(inner renderpipe.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) TransformFailed(mode string, err error) {
	h.try(func() { h.inner.TransformFailed(mode, err) })
}
func (h *Hooks) CacheFallthrough(mode, op string, err error) {
	h.try(func() { h.inner.CacheFallthrough(mode, op, err) })
}
func (h *Hooks) IdleTimeout(wait time.Duration) { h.try(func() { h.inner.IdleTimeout(wait) }) }
func (h *Hooks) SyncFallback(err error)         { h.try(func() { h.inner.SyncFallback(err) }) }
func (h *Hooks) StaleResultDropped(mode string) {
	h.try(func() { h.inner.StaleResultDropped(mode) })
}
