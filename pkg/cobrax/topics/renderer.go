package topics

import "strings"

// Renderer turns raw topic content into terminal output. format is the
// topic file extension, such as ".md".
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer prints topics as written, trimmed to end in one newline.
// It suits pipes and terminals without color.
type PlainRenderer struct{}

// Render returns the content with surrounding blank lines removed.
func (r *PlainRenderer) Render(content string, format string) string {
	return strings.Trim(content, "\n") + "\n"
}
