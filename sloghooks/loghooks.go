// Package sloghooks logs renderpipe hook events through log/slog, with
// per-event sampling so a misbehaving cache or transform cannot flood the
// log.
package sloghooks

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/textpipe/renderpipe"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	FallthroughEvery uint64
	StaleDropEvery   uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	fallthroughCtr atomic.Uint64
	staleDropCtr   atomic.Uint64
}

var _ renderpipe.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) TransformFailed(mode string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("renderpipe.transform_failed",
		"mode", mode,
		"err", err)
}

func (h *Hooks) CacheFallthrough(mode, op string, err error) {
	if h.l == nil || !sample(h.opts.FallthroughEvery, &h.fallthroughCtr) {
		return
	}
	h.l.Warn("renderpipe.cache_fallthrough",
		"mode", mode,
		"op", op,
		"err", err)
}

func (h *Hooks) IdleTimeout(wait time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Debug("renderpipe.idle_timeout",
		"wait", wait)
}

func (h *Hooks) SyncFallback(err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("renderpipe.sync_fallback",
		"err", err)
}

func (h *Hooks) StaleResultDropped(mode string) {
	if h.l == nil || !sample(h.opts.StaleDropEvery, &h.staleDropCtr) {
		return
	}
	h.l.Debug("renderpipe.stale_result_dropped",
		"mode", mode)
}
