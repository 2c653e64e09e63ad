package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vizlab/vizlab/pkg/sim"
)

// Controls renders the adjustable parameters and toggles of a simulation as
// a strip of sliders below the plot. One control is selected at a time; the
// parent model routes +/- and arrow keys to it.
type Controls struct {
	theme    Theme
	selected int
}

// NewControls creates a control strip renderer.
func NewControls(theme Theme) Controls {
	return Controls{theme: theme}
}

// Count returns the number of controls for a simulation.
func (c Controls) Count(s sim.Simulation) int {
	return len(s.Params()) + len(s.Toggles())
}

// Selected returns the selected control index.
func (c Controls) Selected() int {
	return c.selected
}

// Select moves selection to index, wrapping around.
func (c *Controls) Select(s sim.Simulation, index int) {
	n := c.Count(s)
	if n == 0 {
		c.selected = 0
		return
	}
	c.selected = ((index % n) + n) % n
}

// Next moves selection forward.
func (c *Controls) Next(s sim.Simulation) {
	c.Select(s, c.selected+1)
}

// Prev moves selection backward.
func (c *Controls) Prev(s sim.Simulation) {
	c.Select(s, c.selected-1)
}

// Adjust nudges the selected control: parameters step up or down, toggles
// flip regardless of direction.
func (c Controls) Adjust(s sim.Simulation, up bool) {
	params := s.Params()
	if c.selected < len(params) {
		if up {
			params[c.selected].Inc()
		} else {
			params[c.selected].Dec()
		}
		return
	}
	toggles := s.Toggles()
	ti := c.selected - len(params)
	if ti < len(toggles) {
		toggles[ti].Flip()
	}
}

// View renders the strip. width is the available terminal width.
func (c Controls) View(s sim.Simulation, width int) string {
	r := c.theme.Renderer

	params := s.Params()
	toggles := s.Toggles()
	if len(params)+len(toggles) == 0 {
		return c.theme.MutedText.Render("no adjustable parameters")
	}

	labelW := 0
	for _, p := range params {
		if w := runewidth.StringWidth(p.Name); w > labelW {
			labelW = w
		}
	}
	for _, t := range toggles {
		if w := runewidth.StringWidth(t.Name); w > labelW {
			labelW = w
		}
	}

	barW := width - labelW - 24
	if barW < 8 {
		barW = 8
	}
	if barW > 30 {
		barW = 30
	}

	selStyle := r.NewStyle().Bold(true).Foreground(c.theme.Primary)
	lblStyle := c.theme.SubtextStyle
	valStyle := c.theme.SecondaryText

	var lines []string
	for i, p := range params {
		marker := "  "
		nameStyle := lblStyle
		if i == c.selected {
			marker = selStyle.Render("▸ ")
			nameStyle = selStyle
		}

		filled := int(p.Fraction() * float64(barW))
		if filled > barW {
			filled = barW
		}
		bar := r.NewStyle().Foreground(c.theme.Primary).Render(strings.Repeat("█", filled)) +
			c.theme.MutedText.Render(strings.Repeat("─", barW-filled))

		name := runewidth.FillRight(p.Name, labelW)
		lines = append(lines, fmt.Sprintf("%s%s %s %s", marker, nameStyle.Render(name), bar, valStyle.Render(p.Label())))
	}

	for i, t := range toggles {
		idx := len(params) + i
		marker := "  "
		nameStyle := lblStyle
		if idx == c.selected {
			marker = selStyle.Render("▸ ")
			nameStyle = selStyle
		}

		box := "[ ]"
		if t.On() {
			box = c.theme.GoodText.Render("[x]")
		}
		name := runewidth.FillRight(t.Name, labelW)
		lines = append(lines, fmt.Sprintf("%s%s %s", marker, nameStyle.Render(name), box))
	}

	return strings.Join(lines, "\n")
}
