// Package plain is the PlainText transform. It performs no syntax
// transformation but decodes literal \uXXXX escape sequences into their
// characters, so "plain" mode is not a no-op: backends emit
// JS-string-style escapes for non-ASCII text.
package plain

import (
	"context"
	"strings"
	"unicode/utf16"

	"github.com/textpipe/renderpipe/transform"
)

type Transform struct{}

var _ transform.Transform = Transform{}

func New() Transform { return Transform{} }

func (Transform) Render(_ context.Context, text string) (string, error) {
	return Unescape(text), nil
}

// Unescape decodes \uXXXX sequences, pairing UTF-16 surrogates. Strings
// without such sequences are returned unchanged (same backing memory).
// Malformed escapes and lone surrogates are kept literal rather than
// replaced, so round-tripping unrelated backslash text is safe.
func Unescape(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, ok := escapeAt(s, i)
		if !ok {
			b.WriteByte(s[i]) // byte-wise copy preserves UTF-8
			i++
			continue
		}
		if !utf16.IsSurrogate(r) {
			b.WriteRune(r)
			i += 6
			continue
		}
		if r2, ok := escapeAt(s, i+6); ok {
			if c := utf16.DecodeRune(r, r2); c != '�' {
				b.WriteRune(c)
				i += 12
				continue
			}
		}
		// lone surrogate: keep the literal escape
		b.WriteString(s[i : i+6])
		i += 6
	}
	return b.String()
}

// escapeAt reports the code unit of a \uXXXX sequence starting at i.
func escapeAt(s string, i int) (rune, bool) {
	if i+6 > len(s) || s[i] != '\\' || s[i+1] != 'u' {
		return 0, false
	}
	var v rune
	for _, c := range []byte(s[i+2 : i+6]) {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			v |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}
