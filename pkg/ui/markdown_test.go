package ui

import (
	"strings"
	"testing"
)

func TestMarkdownRenderWraps(t *testing.T) {
	r := NewMarkdownRenderer(40)
	out := r.Render("# Heading\n\nSome **bold** body text.")
	if strings.TrimSpace(out) == "" {
		t.Fatal("rendered markdown is empty")
	}
	if !strings.Contains(out, "Heading") {
		t.Errorf("heading text lost in render: %q", out)
	}
}

func TestMarkdownRenderFallsBackToRaw(t *testing.T) {
	// A zero-value renderer has no glamour instance behind it; the raw
	// input must come back untouched.
	var r MarkdownRenderer
	const md = "plain *stars* survive"
	if got := r.Render(md); got != md {
		t.Errorf("fallback changed text: %q", got)
	}
}

func TestMarkdownSetWidthClampsAndRebuilds(t *testing.T) {
	r := NewMarkdownRenderer(5)
	if r.width != 20 {
		t.Errorf("width below minimum should clamp to 20, got %d", r.width)
	}
	r.SetWidth(60)
	if r.width != 60 {
		t.Errorf("width not updated, got %d", r.width)
	}
}
