package renderpipe

// RenderMode selects which transform and which cache namespace apply to a
// content unit. Each mode owns a fully separate cache instance; a key cached
// under one mode implies nothing about the other.
type RenderMode uint8

const (
	Markdown RenderMode = iota
	PlainText
)

func (m RenderMode) String() string {
	switch m {
	case Markdown:
		return "markdown"
	case PlainText:
		return "plaintext"
	default:
		return "unknown"
	}
}
