package renderpipe

import (
	"time"

	"github.com/textpipe/renderpipe/cache"
	"github.com/textpipe/renderpipe/scheduler"
	"github.com/textpipe/renderpipe/transform"
	"github.com/textpipe/renderpipe/visibility"
)

const (
	defaultCacheTTL = 5 * time.Minute
	defaultMargin   = 200 // px; pre-fetch just-off-screen content
)

// Options tune a Pipeline. Everything has a working default: the zero
// Options value yields an eager, headless pipeline (no idle facility, no
// viewport) suitable for tests and server-side rendering.
type Options struct {
	// CacheSize bounds live entries per render mode. <=0 => 128.
	CacheSize int
	// CacheTTL expires entries by age, bounding memory even when capacity
	// is never reached and covering rendering inputs not captured in the
	// key (locale, theme). 0 => 5m; negative disables age expiry.
	CacheTTL time.Duration
	// Caches overrides per-mode cache construction entirely (e.g. a
	// cache.StoreCache over Ristretto or BigCache). Modes absent from the
	// map fall back to the default LRU.
	Caches map[RenderMode]cache.Cache

	// MarkdownTransform and PlainTransform override the built-in
	// transforms for their modes.
	MarkdownTransform transform.Transform
	PlainTransform    transform.Transform

	// Scheduler overrides scheduling entirely. Nil builds an idle
	// scheduler from Idle/MaxIdleWait.
	Scheduler scheduler.Scheduler
	// Idle is the host idle facility. Nil degrades scheduling to the next
	// tick.
	Idle scheduler.Notifier
	// MaxIdleWait bounds how long a queued parse may wait for idle before
	// it is forced to run. <=0 => 1s.
	MaxIdleWait time.Duration

	// Visibility is the host viewport observer. Nil treats every session
	// target as immediately visible.
	Visibility visibility.Notifier
	// PrefetchMargin expands the viewport by this many pixels when
	// observing targets. 0 => 200; negative observes the exact viewport
	// with no margin.
	PrefetchMargin int

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// New constructs a Pipeline. The pipeline is an explicitly constructed,
// injectable service: share one instance across all sessions of a view so
// they share the per-mode caches. Safe for concurrent use.
func New(opts Options) (*Pipeline, error) {
	margin := opts.PrefetchMargin
	switch {
	case margin == 0:
		margin = defaultMargin
	case margin < 0:
		margin = 0
	}
	p := &Pipeline{
		margin: margin,
		vis:    opts.Visibility,
		log:    coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
	}

	ttl := opts.CacheTTL
	switch {
	case ttl == 0:
		ttl = defaultCacheTTL
	case ttl < 0:
		ttl = 0
	}
	p.caches = make(map[RenderMode]cache.Cache, 2)
	for _, m := range []RenderMode{Markdown, PlainText} {
		if c, ok := opts.Caches[m]; ok && c != nil {
			p.caches[m] = c
			continue
		}
		p.caches[m] = cache.NewLRU(cache.Options{
			MaxSize: opts.CacheSize,
			TTL:     ttl,
		})
	}

	p.transforms = map[RenderMode]transform.Transform{
		Markdown:  opts.MarkdownTransform,
		PlainText: opts.PlainTransform,
	}
	if p.transforms[Markdown] == nil {
		p.transforms[Markdown] = markdownDefault()
	}
	if p.transforms[PlainText] == nil {
		p.transforms[PlainText] = plainDefault()
	}

	p.sched = opts.Scheduler
	if p.sched == nil {
		p.sched = scheduler.NewIdle(scheduler.IdleOptions{
			Notifier:       opts.Idle,
			MaxWait:        opts.MaxIdleWait,
			OnTimeout:      p.hooks.IdleTimeout,
			OnSyncFallback: p.hooks.SyncFallback,
		})
	}
	return p, nil
}
