package report

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Render styles markdown for a terminal of the given width. When styling is
// off or glamour fails, the markdown is returned as is.
func Render(markdown string, styled bool, width int) string {
	if !styled {
		return markdown
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil || strings.TrimSpace(out) == "" {
		return markdown
	}
	return out
}
