package topics

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the column markdown topics are wrapped at.
const DefaultWrap = 80

// GlamourRenderer renders markdown topics with glamour. Other formats pass
// through untouched.
type GlamourRenderer struct {
	// Style is a glamour style name ("dark", "light", "notty") or a path to
	// a JSON style. Empty selects one from the terminal.
	Style string
	// Width wraps text; zero uses DefaultWrap.
	Width int
}

// NewGlamourRenderer creates a renderer that picks its style from the terminal.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

// Render converts markdown to styled terminal output, falling back to the
// raw content if glamour fails.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	style := glamour.WithAutoStyle()
	if r.Style != "" {
		style = glamour.WithStylePath(r.Style)
	}
	width := r.Width
	if width <= 0 {
		width = DefaultWrap
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
