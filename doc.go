// Package renderpipe implements a lazy, cached, idle-scheduled text-rendering
// pipeline for continuously updating conversational UIs. Raw message text is
// turned into display-ready markup off the interactive path: parsing is
// deferred until a content unit becomes visible, runs during host idle time
// (bounded by a forced-execution timeout), and is memoized through a per-mode
// LRU+TTL cache.
//
// Components:
//   - cache: per-mode content cache (strict LRU+TTL, or byte-store backed via
//     Ristretto/BigCache with a codec envelope).
//   - transform: text-to-markup transforms (Markdown via goldmark, plain text
//     with \uXXXX unescaping).
//   - scheduler: idle-time deferral with a bounded fallback.
//   - visibility: one-shot "element became visible" gating.
//   - Session: per-content-unit state machine composing all of the above.
//
// Typical use:
//
//	p, _ := renderpipe.New(renderpipe.Options{
//	    Idle:       hostIdle,       // host idle facility; nil => next tick
//	    Visibility: hostViewport,   // host viewport observer; nil => eager
//	})
//	s := p.NewSession(renderpipe.SessionOptions{
//	    Text:     msg.Text,
//	    Mode:     renderpipe.Markdown,
//	    Target:   msg.Element,
//	    OnUpdate: func(s *renderpipe.Session) { view.SetHTML(s.Output()) },
//	})
//	defer s.Close()
package renderpipe
