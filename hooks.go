package renderpipe

import "time"

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The pipeline calls them on hot paths.
type Hooks interface {
	// A transform returned an error during dispatch. The failure is never
	// cached; the owning session reverts to Unparsed and retries later.
	TransformFailed(mode string, err error)

	// The cache errored on a read or write; rendering continued without it.
	// op ∈ {"get", "set", "purge"}
	CacheFallthrough(mode, op string, err error)

	// A scheduled task hit the forced-execution deadline before the host
	// reported idle.
	IdleTimeout(wait time.Duration)

	// Idle registration failed; the task ran synchronously instead of
	// being dropped.
	SyncFallback(err error)

	// A superseded scheduled render completed and its result was discarded.
	StaleResultDropped(mode string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) TransformFailed(string, error)          {}
func (NopHooks) CacheFallthrough(string, string, error) {}
func (NopHooks) IdleTimeout(time.Duration)              {}
func (NopHooks) SyncFallback(error)                     {}
func (NopHooks) StaleResultDropped(string)              {}
