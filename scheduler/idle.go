package scheduler

import "time"

const defaultMaxWait = time.Second

// IdleOptions tune an Idle scheduler.
type IdleOptions struct {
	// Notifier is the host idle facility. Nil degrades every Schedule call
	// to next-tick execution.
	Notifier Notifier

	// MaxWait bounds how long a task may sit queued behind a busy host
	// before it is forced to run. <=0 => 1s.
	MaxWait time.Duration

	// OnTimeout fires when the forced-execution deadline won the race.
	OnTimeout func(wait time.Duration)

	// OnSyncFallback fires when idle registration failed and the task ran
	// synchronously instead.
	OnSyncFallback func(err error)
}

// Idle schedules tasks to run at the first of (host idle callback, MaxWait
// timer). Without an idle facility it degrades to the next tick.
type Idle struct {
	notifier   Notifier
	maxWait    time.Duration
	onTimeout  func(time.Duration)
	onFallback func(error)
}

var _ Scheduler = (*Idle)(nil)

func NewIdle(opts IdleOptions) *Idle {
	s := &Idle{
		notifier:   opts.Notifier,
		maxWait:    opts.MaxWait,
		onTimeout:  opts.OnTimeout,
		onFallback: opts.OnSyncFallback,
	}
	if s.maxWait <= 0 {
		s.maxWait = defaultMaxWait
	}
	return s
}

func (s *Idle) Schedule(task func()) *Handle {
	h := newHandle()

	if s.notifier == nil {
		t := time.AfterFunc(0, func() { h.run(task) })
		h.onCleanup(func() { t.Stop() })
		return h
	}

	cancel, err := s.notifier.Register(func() { h.run(task) })
	if err != nil {
		// scheduling failure: run now rather than dropping the content
		if s.onFallback != nil {
			s.onFallback(err)
		}
		h.run(task)
		return h
	}
	h.onCleanup(cancel)

	t := time.AfterFunc(s.maxWait, func() {
		if h.run(task) && s.onTimeout != nil {
			s.onTimeout(s.maxWait)
		}
	})
	h.onCleanup(func() { t.Stop() })
	return h
}
