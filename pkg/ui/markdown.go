package ui

import (
	"github.com/charmbracelet/glamour"

	"github.com/vizlab/vizlab/pkg/metrics"
)

// MarkdownRenderer wraps a glamour terminal renderer with lazy rebuilds on
// width changes. Rendering falls back to the raw text when glamour fails.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	m := &MarkdownRenderer{}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the underlying renderer if the width changed.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if m.renderer != nil && m.width == width {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	m.renderer = r
	m.width = width
}

// Render renders markdown to styled terminal text. On any error the raw
// input is returned so content is never lost.
func (m *MarkdownRenderer) Render(md string) string {
	defer metrics.Timer(metrics.MarkdownRender)()

	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
