// Package scheduler defers parse work to host idle time with a bounded
// forced-execution fallback, so rendering never blocks interactive input
// and never starves under sustained load.
package scheduler

import (
	"sync"
	"sync/atomic"
)

// Notifier is the host's idle-time facility. Register queues cb to run at
// the host's next idle period and returns a cancel func that stops the
// registration. A registration error is a scheduling failure; the scheduler
// responds by running the task synchronously rather than dropping it.
type Notifier interface {
	Register(cb func()) (cancel func(), err error)
}

// Scheduler defers a task for later execution. Exactly one invocation per
// Schedule call, unless the Handle is cancelled first.
type Scheduler interface {
	Schedule(task func()) *Handle
}

const (
	statePending int32 = iota
	stateRunning
	stateDone
	stateCancelled
)

// Handle tracks one scheduled task. It guarantees at-most-once execution
// across racing triggers (idle callback vs. timeout timer vs. Cancel).
type Handle struct {
	state atomic.Int32
	done  chan struct{}

	mu      sync.Mutex
	cancels []func()
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// run executes task if the handle is still pending. Reports whether this
// call won the race.
func (h *Handle) run(task func()) bool {
	if !h.state.CompareAndSwap(statePending, stateRunning) {
		return false
	}
	task()
	h.state.Store(stateDone)
	h.unregister()
	close(h.done)
	return true
}

// Cancel aborts a not-yet-started task. No-op (returns false) if the task
// already ran or was cancelled.
func (h *Handle) Cancel() bool {
	if !h.state.CompareAndSwap(statePending, stateCancelled) {
		return false
	}
	h.unregister()
	close(h.done)
	return true
}

// Done is closed once the task has run or been cancelled.
func (h *Handle) Done() <-chan struct{} { return h.done }

// onCleanup registers a trigger teardown (timer stop, notifier cancel).
// If the handle is already terminal it runs immediately.
func (h *Handle) onCleanup(f func()) {
	h.mu.Lock()
	if s := h.state.Load(); s == stateDone || s == stateCancelled {
		h.mu.Unlock()
		f()
		return
	}
	h.cancels = append(h.cancels, f)
	h.mu.Unlock()
}

func (h *Handle) unregister() {
	h.mu.Lock()
	cs := h.cancels
	h.cancels = nil
	h.mu.Unlock()
	for _, f := range cs {
		f()
	}
}
