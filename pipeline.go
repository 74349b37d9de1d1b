package renderpipe

import (
	"context"
	"fmt"

	"github.com/textpipe/renderpipe/cache"
	"github.com/textpipe/renderpipe/scheduler"
	"github.com/textpipe/renderpipe/transform"
	"github.com/textpipe/renderpipe/transform/markdown"
	"github.com/textpipe/renderpipe/transform/plain"
	"github.com/textpipe/renderpipe/visibility"
)

// Pipeline is the render dispatcher plus the shared per-mode caches,
// scheduler and visibility notifier that sessions compose.
type Pipeline struct {
	caches     map[RenderMode]cache.Cache
	transforms map[RenderMode]transform.Transform
	sched      scheduler.Scheduler
	vis        visibility.Notifier
	margin     int
	log        Logger
	hooks      Hooks
}

func markdownDefault() transform.Transform { return markdown.New() }
func plainDefault() transform.Transform    { return plain.New() }

// Render turns text into display-ready markup for mode, memoizing through
// the mode's cache. Empty input short-circuits to empty output, bypassing
// both cache and transform. Cache errors are best-effort: they invoke the
// CacheFallthrough hook and rendering recomputes directly. A transform
// failure is returned as a *TransformError and is never cached.
func (p *Pipeline) Render(ctx context.Context, text string, mode RenderMode) (string, error) {
	if text == "" {
		return "", nil
	}

	t, ok := p.transforms[mode]
	if !ok {
		return "", fmt.Errorf("renderpipe: unknown render mode %d", mode)
	}

	c := p.caches[mode]
	if v, hit, err := c.Get(ctx, text); err != nil {
		p.hooks.CacheFallthrough(mode.String(), "get", err)
		p.log.Warn("cache get failed; recomputing", Fields{"mode": mode.String(), "err": err})
	} else if hit {
		return v, nil
	}

	out, err := t.Render(ctx, text)
	if err != nil {
		return "", &TransformError{Mode: mode, Err: err}
	}
	if err := c.Set(ctx, text, out); err != nil {
		p.hooks.CacheFallthrough(mode.String(), "set", err)
		p.log.Warn("cache set failed; result served uncached", Fields{"mode": mode.String(), "err": err})
	}
	return out, nil
}

// Purge drops every cached entry in all modes. For external invalidation
// that changes rendering inputs not captured in cache keys (locale, theme).
func (p *Pipeline) Purge(ctx context.Context) error {
	var firstErr error
	for m, c := range p.caches {
		if err := c.Purge(ctx); err != nil {
			p.hooks.CacheFallthrough(m.String(), "purge", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close releases cache resources. Sessions must be closed by their owners;
// the pipeline does not track them.
func (p *Pipeline) Close(ctx context.Context) error {
	var firstErr error
	for _, c := range p.caches {
		if err := c.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
