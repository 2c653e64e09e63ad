package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vizlab/vizlab/pkg/catalog"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation
// that may clash with palettes like Solarized.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Subjects
	Physics   lipgloss.AdaptiveColor
	Chemistry lipgloss.AdaptiveColor
	Biology   lipgloss.AdaptiveColor
	Economics lipgloss.AdaptiveColor
	CompSci   lipgloss.AdaptiveColor

	// Plot series colors, cycled per series index
	Series []lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Good      lipgloss.AdaptiveColor
	Warn      lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles, created once at startup instead of per-frame
	MutedText     lipgloss.Style
	SubtextStyle  lipgloss.Style
	PrimaryBold   lipgloss.Style
	SecondaryText lipgloss.Style
	GoodText      lipgloss.Style
	WarnText      lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Physics:   lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"}, // Blue
		Chemistry: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Biology:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Economics: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red
		CompSci:   lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan

		Series: []lipgloss.AdaptiveColor{
			{Light: "#0066CC", Dark: "#6699FF"},
			{Light: "#CC0000", Dark: "#FF5555"},
			{Light: "#007700", Dark: "#50FA7B"},
			{Light: "#B06800", Dark: "#FFB86C"},
			{Light: "#6B47D9", Dark: "#BD93F9"},
		},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Good:      lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Warn:      lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SubtextStyle = r.NewStyle().Foreground(t.Subtext)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.GoodText = r.NewStyle().Foreground(t.Good)
	t.WarnText = r.NewStyle().Foreground(t.Warn)

	return t
}

// GetSubjectColor maps a catalog subject to its theme color.
func (t Theme) GetSubjectColor(s catalog.Subject) lipgloss.AdaptiveColor {
	switch s {
	case catalog.Physics:
		return t.Physics
	case catalog.Chemistry:
		return t.Chemistry
	case catalog.Biology:
		return t.Biology
	case catalog.Economics:
		return t.Economics
	case catalog.CompSci:
		return t.CompSci
	default:
		return t.Subtext
	}
}

// GetSubjectIcon returns a one-letter marker and color for a subject.
func (t Theme) GetSubjectIcon(s catalog.Subject) (string, lipgloss.AdaptiveColor) {
	switch s {
	case catalog.Physics:
		return "P", t.Physics
	case catalog.Chemistry:
		return "C", t.Chemistry
	case catalog.Biology:
		return "B", t.Biology
	case catalog.Economics:
		return "E", t.Economics
	case catalog.CompSci:
		return "S", t.CompSci
	default:
		return "·", t.Subtext
	}
}

// SeriesStyle returns the style for the i-th plotted series.
func (t Theme) SeriesStyle(i int) lipgloss.Style {
	c := t.Series[i%len(t.Series)]
	return t.Renderer.NewStyle().Foreground(c)
}

// TestTheme returns a theme bound to a fresh stdout renderer, for tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
