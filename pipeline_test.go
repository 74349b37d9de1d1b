package renderpipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/textpipe/renderpipe/cache"
	"github.com/textpipe/renderpipe/scheduler"
	"github.com/textpipe/renderpipe/visibility"
)

// countTransform counts invocations; fn overrides the default rendering.
type countTransform struct {
	mu    sync.Mutex
	calls int
	fn    func(text string) (string, error)
}

func (c *countTransform) Render(_ context.Context, text string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.fn != nil {
		return c.fn(text)
	}
	return "<out>" + text + "</out>", nil
}

func (c *countTransform) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// errCache fails every operation, to exercise best-effort fallthrough.
type errCache struct{}

var errCacheDown = errors.New("cache down")

func (errCache) Get(context.Context, string) (string, bool, error) { return "", false, errCacheDown }
func (errCache) Set(context.Context, string, string) error         { return errCacheDown }
func (errCache) Purge(context.Context) error                       { return errCacheDown }
func (errCache) Close(context.Context) error                       { return nil }

// recordHooks captures hook events for assertions.
type recordHooks struct {
	mu           sync.Mutex
	failed       int
	fallthroughs []string // "mode/op"
	timeouts     int
	syncFalls    int
	stale        int
}

func (h *recordHooks) TransformFailed(string, error) {
	h.mu.Lock()
	h.failed++
	h.mu.Unlock()
}
func (h *recordHooks) CacheFallthrough(mode, op string, _ error) {
	h.mu.Lock()
	h.fallthroughs = append(h.fallthroughs, mode+"/"+op)
	h.mu.Unlock()
}
func (h *recordHooks) IdleTimeout(time.Duration) {
	h.mu.Lock()
	h.timeouts++
	h.mu.Unlock()
}
func (h *recordHooks) SyncFallback(error) {
	h.mu.Lock()
	h.syncFalls++
	h.mu.Unlock()
}
func (h *recordHooks) StaleResultDropped(string) {
	h.mu.Lock()
	h.stale++
	h.mu.Unlock()
}

func newTestPipeline(t *testing.T, mutate func(*Options)) *Pipeline {
	t.Helper()
	opts := Options{
		Scheduler:  scheduler.Sync{},
		Visibility: visibility.Eager{},
	}
	if mutate != nil {
		mutate(&opts)
	}
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// ==============================
// Dispatcher tests
// ==============================

// TestRenderEmptyInput short-circuits to empty output, bypassing both the
// cache and the transform.
func TestRenderEmptyInput(t *testing.T) {
	ct := &countTransform{}
	p := newTestPipeline(t, func(o *Options) { o.MarkdownTransform = ct })

	out, err := p.Render(context.Background(), "", Markdown)
	if err != nil || out != "" {
		t.Fatalf("empty input: out=%q err=%v", out, err)
	}
	if ct.count() != 0 {
		t.Fatalf("empty input must not invoke the transform")
	}
}

// TestRenderMemoizes: a second render of the same text hits the cache.
func TestRenderMemoizes(t *testing.T) {
	ctx := context.Background()
	ct := &countTransform{}
	p := newTestPipeline(t, func(o *Options) { o.MarkdownTransform = ct })

	first, err := p.Render(ctx, "hello", Markdown)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := p.Render(ctx, "hello", Markdown)
	if err != nil {
		t.Fatalf("Render (cached): %v", err)
	}
	if first != second {
		t.Fatalf("cached result differs: %q vs %q", first, second)
	}
	if got := ct.count(); got != 1 {
		t.Fatalf("transform invoked %d times, want 1", got)
	}
}

// TestModeNamespaceIsolation: the same key cached under Markdown implies
// nothing for PlainText - each mode owns a separate cache instance.
func TestModeNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	md := &countTransform{}
	pl := &countTransform{}
	p := newTestPipeline(t, func(o *Options) {
		o.MarkdownTransform = md
		o.PlainTransform = pl
	})

	if _, err := p.Render(ctx, "x", Markdown); err != nil {
		t.Fatalf("Render markdown: %v", err)
	}
	if _, err := p.Render(ctx, "x", PlainText); err != nil {
		t.Fatalf("Render plain: %v", err)
	}
	if md.count() != 1 || pl.count() != 1 {
		t.Fatalf("each mode must compute independently: md=%d pl=%d", md.count(), pl.count())
	}
}

// TestRenderCacheErrorFallsThrough: a malfunctioning cache never blocks
// rendering; the dispatcher recomputes and reports the fallthrough.
func TestRenderCacheErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	ct := &countTransform{}
	hooks := &recordHooks{}
	p := newTestPipeline(t, func(o *Options) {
		o.MarkdownTransform = ct
		o.Caches = map[RenderMode]cache.Cache{Markdown: errCache{}}
		o.Hooks = hooks
	})

	out, err := p.Render(ctx, "hello", Markdown)
	if err != nil || out != "<out>hello</out>" {
		t.Fatalf("Render with broken cache: out=%q err=%v", out, err)
	}
	hooks.mu.Lock()
	got := strings.Join(hooks.fallthroughs, ",")
	hooks.mu.Unlock()
	if got != "markdown/get,markdown/set" {
		t.Fatalf("fallthrough events = %q", got)
	}
}

// TestRenderFailureNotCached: a transform failure surfaces as a
// *TransformError and the next render retries the transform.
func TestRenderFailureNotCached(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("malformed input")
	fails := 1
	ct := &countTransform{fn: func(text string) (string, error) {
		if fails > 0 {
			fails--
			return "", boom
		}
		return "ok:" + text, nil
	}}
	p := newTestPipeline(t, func(o *Options) { o.MarkdownTransform = ct })

	_, err := p.Render(ctx, "doc", Markdown)
	var te *TransformError
	if !errors.As(err, &te) || !errors.Is(err, boom) {
		t.Fatalf("want *TransformError wrapping cause, got %v", err)
	}
	if te.Mode != Markdown {
		t.Fatalf("TransformError.Mode = %v", te.Mode)
	}

	out, err := p.Render(ctx, "doc", Markdown)
	if err != nil || out != "ok:doc" {
		t.Fatalf("retry after failure: out=%q err=%v", out, err)
	}
	if got := ct.count(); got != 2 {
		t.Fatalf("transform invoked %d times, want 2 (failure not cached)", got)
	}
}

// TestRenderBuiltinModes is the end-to-end property: markdown emphasis gets
// a bold wrapper, plain mode leaves the markup syntax untouched.
func TestRenderBuiltinModes(t *testing.T) {
	ctx := context.Background()
	p := newTestPipeline(t, nil)

	md, err := p.Render(ctx, "**bold**", Markdown)
	if err != nil {
		t.Fatalf("Render markdown: %v", err)
	}
	if !strings.Contains(md, "<strong>bold</strong>") {
		t.Fatalf("markdown output %q lacks bold wrapper", md)
	}

	pl, err := p.Render(ctx, "**bold**", PlainText)
	if err != nil {
		t.Fatalf("Render plain: %v", err)
	}
	if pl != "**bold**" {
		t.Fatalf("plain output = %q, want the literal input", pl)
	}
}

// TestPurgeForcesRecompute drops memoized entries in every mode.
func TestPurgeForcesRecompute(t *testing.T) {
	ctx := context.Background()
	ct := &countTransform{}
	p := newTestPipeline(t, func(o *Options) { o.MarkdownTransform = ct })

	_, _ = p.Render(ctx, "hello", Markdown)
	if err := p.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	_, _ = p.Render(ctx, "hello", Markdown)
	if got := ct.count(); got != 2 {
		t.Fatalf("transform invoked %d times after purge, want 2", got)
	}
}
