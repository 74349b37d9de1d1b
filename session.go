package renderpipe

import (
	"context"
	"sync"

	"github.com/textpipe/renderpipe/scheduler"
	"github.com/textpipe/renderpipe/visibility"
)

// ParseState is a session's position in the parse lifecycle.
type ParseState uint8

const (
	Unparsed ParseState = iota
	Parsing
	Parsed
)

func (s ParseState) String() string {
	switch s {
	case Unparsed:
		return "unparsed"
	case Parsing:
		return "parsing"
	case Parsed:
		return "parsed"
	default:
		return "unknown"
	}
}

// SessionOptions configure one Session.
type SessionOptions struct {
	Text string
	Mode RenderMode

	// Immediate bypasses visibility gating and parses eagerly (inline),
	// skipping the idle scheduler.
	Immediate bool

	// Target is the host element observed for visibility. Ignored when
	// Immediate is set.
	Target visibility.Target

	// OnUpdate is invoked (without internal locks held) after every state
	// or output change. It may be called from the goroutine that mutated
	// the session or from a scheduler goroutine.
	OnUpdate func(*Session)
}

// Session is the per-content-unit state machine. It waits for its target to
// become visible (one-shot), routes the parse through the idle scheduler,
// and exposes the rendered output reactively.
//
// Lifecycle: Unparsed -> Parsing (visibility trigger or Immediate) ->
// Parsed (render complete) -> Unparsed (text/mode mutation, re-entering
// Parsing immediately without a fresh visibility check). A session never
// made visible never leaves Unparsed and spends no parse work.
type Session struct {
	p        *Pipeline
	onUpdate func(*Session)

	mu        sync.Mutex
	text      string
	mode      RenderMode
	state     ParseState
	output    string
	seq       uint64 // parse generation; stale results are dropped
	handle    *scheduler.Handle
	gate      *visibility.Gate
	triggered bool
	closed    bool
}

// NewSession creates a session for one displayed content unit and either
// registers it with the visibility notifier or, when Immediate is set,
// parses right away. Callers must Close the session on unmount.
func (p *Pipeline) NewSession(opts SessionOptions) *Session {
	s := &Session{
		p:        p,
		onUpdate: opts.OnUpdate,
		text:     opts.Text,
		mode:     opts.Mode,
	}
	if opts.Immediate {
		s.trigger(true)
		return s
	}
	gate := visibility.Attach(p.vis, opts.Target, p.margin, func() { s.trigger(false) })
	s.mu.Lock()
	if !s.closed {
		s.gate = gate
	}
	s.mu.Unlock()
	return s
}

// Output returns the rendered markup, or the raw text after a transform
// failure so the host never shows a blank region.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

func (s *Session) State() ParseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsParsing() bool { return s.State() == Parsing }
func (s *Session) IsParsed() bool  { return s.State() == Parsed }

// SetText replaces the raw text. Each revision is a discrete reparse
// trigger: a pending parse is cancelled and, if the unit is already
// established (was visible once), a fresh parse starts immediately.
func (s *Session) SetText(text string) {
	s.mutate(func() bool {
		if s.text == text {
			return false
		}
		s.text = text
		return true
	})
}

// SetMode switches the render transform and cache namespace.
func (s *Session) SetMode(mode RenderMode) {
	s.mutate(func() bool {
		if s.mode == mode {
			return false
		}
		s.mode = mode
		return true
	})
}

// Reparse re-runs the parse for external invalidation (call Pipeline.Purge
// first if the cached markup itself went stale). No-op before the first
// visibility trigger: the unit will parse when it becomes visible.
func (s *Session) Reparse() {
	s.mu.Lock()
	if s.closed || !s.triggered {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.restart(false)
}

// Close cancels pending scheduled work and detaches the visibility
// registration. After Close no callback writes into the session.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	h := s.handle
	s.handle = nil
	g := s.gate
	s.gate = nil
	s.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
	if g != nil {
		g.Detach()
	}
}

// trigger fires on first visibility (or eagerly at construction). Duplicate
// triggers are ignored, including while a parse is in flight.
func (s *Session) trigger(eager bool) {
	s.mu.Lock()
	if s.closed || s.triggered {
		s.mu.Unlock()
		return
	}
	s.triggered = true
	s.mu.Unlock()
	s.restart(eager)
}

// mutate applies a text/mode change: drop to Unparsed, cancel any pending
// parse and re-enter Parsing immediately when the unit is established.
func (s *Session) mutate(apply func() bool) {
	s.mu.Lock()
	if s.closed || !apply() {
		s.mu.Unlock()
		return
	}
	s.state = Unparsed
	s.seq++ // a mid-flight parse of the old inputs is now stale
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	trig := s.triggered
	s.mu.Unlock()
	s.notify()
	if trig {
		s.restart(false)
	}
}

// restart cancels any pending parse and schedules a fresh one for the
// current inputs. eager runs the parse inline instead of via the scheduler.
func (s *Session) restart(eager bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.seq++
	seq := s.seq
	s.state = Parsing
	s.mu.Unlock()
	s.notify()

	if eager {
		s.runParse(seq)
		return
	}
	h := s.p.sched.Schedule(func() { s.runParse(seq) })
	s.mu.Lock()
	if s.closed || s.seq != seq {
		s.mu.Unlock()
		h.Cancel()
		return
	}
	s.handle = h
	s.mu.Unlock()
}

// runParse executes one parse generation. Inputs are read at execution
// time, not schedule time; the sequence guard means a superseded generation
// can never overwrite a fresher result.
func (s *Session) runParse(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	text, mode := s.text, s.mode
	s.mu.Unlock()

	out, err := s.p.Render(context.Background(), text, mode)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if seq != s.seq {
		s.mu.Unlock()
		s.p.hooks.StaleResultDropped(mode.String())
		return
	}
	s.handle = nil
	if err != nil {
		// revert to Unparsed so a later mutation or reparse retries;
		// surface the raw text rather than a blank region
		s.state = Unparsed
		s.output = text
		s.mu.Unlock()
		s.p.hooks.TransformFailed(mode.String(), err)
		s.p.log.Warn("parse failed; showing raw text", Fields{"mode": mode.String(), "err": err})
		s.notify()
		return
	}
	s.output = out
	s.state = Parsed
	s.mu.Unlock()
	s.notify()
}

func (s *Session) notify() {
	if s.onUpdate != nil {
		s.onUpdate(s)
	}
}
