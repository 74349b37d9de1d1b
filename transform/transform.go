// Package transform defines the text-to-markup transform invoked by the
// render dispatcher on a cache miss.
package transform

import "context"

// Transform converts raw text into display-ready output. Implementations
// must be safe for concurrent use; a returned error is a transform failure
// and its result must never be cached.
type Transform interface {
	Render(ctx context.Context, text string) (string, error)
}
