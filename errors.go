package renderpipe

import "fmt"

// TransformError reports a failed transform invocation for a mode.
// It is the error surfaced by Pipeline.Render on a cache miss whose
// recomputation failed; the underlying cause is available via Unwrap.
type TransformError struct {
	Mode RenderMode
	Err  error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("render %s: transform failed: %v", e.Mode, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
