// Package markdown renders the supported Markdown subset to HTML markup
// with goldmark. Line breaks become hard breaks, bare URLs are auto-linked
// and raw HTML passes through untouched - sanitization is the embedding
// host's responsibility.
package markdown

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/textpipe/renderpipe/transform"
)

type Transform struct {
	md goldmark.Markdown
}

var _ transform.Transform = (*Transform)(nil)

func New() *Transform {
	return &Transform{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				ghtml.WithHardWraps(),
				ghtml.WithUnsafe(),
			),
		),
	}
}

func (t *Transform) Render(_ context.Context, text string) (string, error) {
	var buf bytes.Buffer
	if err := t.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
