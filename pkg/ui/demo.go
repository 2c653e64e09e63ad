package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vizlab/vizlab/pkg/tutorial"
)

// DemoModel renders a lesson's guided walkthrough as a modal overlay. The
// step sequencing itself lives in tutorial.Stepper; this model handles keys,
// layout, and markdown rendering of step descriptions.
type DemoModel struct {
	stepper *tutorial.Stepper
	theme   Theme
	width   int
	height  int

	markdownRenderer *MarkdownRenderer

	shouldClose bool // signal to parent to close the overlay

	// onStepShown is called with the step index after navigation lands on a
	// step, so the parent can persist walkthrough progress.
	onStepShown func(int)
}

// NewDemoModel creates a demo overlay for the given step sequence.
func NewDemoModel(theme Theme, steps []tutorial.Step) DemoModel {
	contentWidth := 80 - 6
	if contentWidth < 40 {
		contentWidth = 40
	}
	return DemoModel{
		stepper:          tutorial.NewStepper(steps),
		theme:            theme,
		width:            80,
		height:           24,
		markdownRenderer: NewMarkdownRenderer(contentWidth),
	}
}

// SetOnStepShown registers a callback invoked after each step is shown.
func (m *DemoModel) SetOnStepShown(fn func(int)) {
	m.onStepShown = fn
}

// Open starts the walkthrough from the first step.
func (m *DemoModel) Open() {
	m.stepper.Open()
	m.shouldClose = false
	m.notifyShown()
}

// Close dismisses the overlay, keeping the current step for a later reopen.
func (m *DemoModel) Close() {
	m.stepper.Close()
}

// IsOpen reports whether the overlay is showing.
func (m DemoModel) IsOpen() bool {
	return m.stepper.IsOpen()
}

// Stepper exposes the underlying step state.
func (m DemoModel) Stepper() *tutorial.Stepper {
	return m.stepper
}

// ShouldClose returns true if the user requested to close the overlay.
func (m DemoModel) ShouldClose() bool {
	return m.shouldClose
}

// ResetClose resets the close flag (call after handling close).
func (m *DemoModel) ResetClose() {
	m.shouldClose = false
}

// SetSize sets the overlay dimensions.
func (m *DemoModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	contentWidth := width - 6
	if contentWidth < 40 {
		contentWidth = 40
	}
	if m.markdownRenderer != nil {
		m.markdownRenderer.SetWidth(contentWidth)
	}
}

func (m *DemoModel) notifyShown() {
	if m.onStepShown != nil && m.stepper.Len() > 0 {
		m.onStepShown(m.stepper.Current())
	}
}

// Update handles keyboard input while the overlay is open.
func (m DemoModel) Update(msg tea.Msg) (DemoModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.stepper.Close()
			m.shouldClose = true
			return m, nil

		case "right", "l", "n", " ", "enter":
			before := m.stepper.Current()
			m.stepper.Next()
			if m.stepper.Current() != before {
				m.notifyShown()
			}
			return m, nil

		case "left", "h", "p":
			before := m.stepper.Current()
			m.stepper.Prev()
			if m.stepper.Current() != before {
				m.notifyShown()
			}
			return m, nil

		case "g", "home":
			if m.stepper.Current() != 0 {
				m.stepper.GoToStep(0)
				m.notifyShown()
			}
			return m, nil

		case "G", "end":
			last := m.stepper.Len() - 1
			if last >= 0 && m.stepper.Current() != last {
				m.stepper.GoToStep(last)
				m.notifyShown()
			}
			return m, nil

		// Jump to specific step (1-9)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(msg.String()[0]-'0') - 1
			if idx >= 0 && idx < m.stepper.Len() {
				m.stepper.GoToStep(idx)
				m.notifyShown()
			}
			return m, nil
		}
	}
	return m, nil
}

// View renders the walkthrough overlay.
func (m DemoModel) View() string {
	r := m.theme.Renderer

	step, ok := m.stepper.CurrentStep()
	if !ok {
		style := r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.Primary).
			Padding(2, 4)
		return style.Render("This lesson has no walkthrough steps yet.")
	}

	total := m.stepper.Len()
	current := m.stepper.Current() + 1

	contentWidth := m.width - 6
	if contentWidth < 40 {
		contentWidth = 40
	}

	var b strings.Builder

	// Header with progress bar
	b.WriteString(m.renderHeader(current, total))
	b.WriteString("\n")

	sepStyle := r.NewStyle().Foreground(m.theme.Border)
	b.WriteString(sepStyle.Render(strings.Repeat("─", contentWidth)))
	b.WriteString("\n")

	titleStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	b.WriteString(titleStyle.Render(step.Title))
	b.WriteString("\n")

	content := strings.TrimSpace(m.markdownRenderer.Render(step.Description))
	b.WriteString(content)
	b.WriteString("\n")

	if step.Highlight != "" {
		hintStyle := r.NewStyle().Foreground(m.theme.Good).Italic(true)
		b.WriteString(hintStyle.Render("▸ watch: " + step.Highlight))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(m.width - 4).
		MaxHeight(m.height)

	return modalStyle.Render(b.String())
}

// renderHeader renders the walkthrough title with a step progress bar.
func (m DemoModel) renderHeader(current, total int) string {
	r := m.theme.Renderer

	title := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render("Guided Walkthrough")

	progressText := r.NewStyle().
		Foreground(m.theme.Subtext).
		Render(fmt.Sprintf("[%d/%d]", current, total))

	barWidth := 10
	filledWidth := 0
	if total > 0 {
		filledWidth = (current * barWidth) / total
		if filledWidth < 1 && current > 0 {
			filledWidth = 1
		}
	}
	if filledWidth > barWidth {
		filledWidth = barWidth
	}
	progressBar := r.NewStyle().
		Foreground(m.theme.Good).
		Render(strings.Repeat("█", filledWidth)) +
		r.NewStyle().
			Foreground(m.theme.Muted).
			Render(strings.Repeat("░", barWidth-filledWidth))

	return title + "  " + progressText + " " + progressBar
}

// renderFooter renders navigation hints.
func (m DemoModel) renderFooter() string {
	r := m.theme.Renderer

	keyStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	descStyle := r.NewStyle().Foreground(m.theme.Subtext)
	sepStyle := r.NewStyle().Foreground(m.theme.Muted)

	hints := []string{
		keyStyle.Render("←/→/Space") + descStyle.Render(" steps"),
		keyStyle.Render("1-9") + descStyle.Render(" jump"),
		keyStyle.Render("g/G") + descStyle.Render(" first/last"),
		keyStyle.Render("q") + descStyle.Render(" close"),
	}

	sep := sepStyle.Render(" │ ")
	return strings.Join(hints, sep)
}

// CenterOverlay returns the overlay view centered in the terminal.
func (m DemoModel) CenterOverlay(termWidth, termHeight int) string {
	overlay := m.View()

	overlayWidth := lipgloss.Width(overlay)
	overlayHeight := lipgloss.Height(overlay)

	padTop := (termHeight - overlayHeight) / 2
	padLeft := (termWidth - overlayWidth) / 2

	if padTop < 0 {
		padTop = 0
	}
	if padLeft < 0 {
		padLeft = 0
	}

	r := m.theme.Renderer

	return r.NewStyle().
		MarginTop(padTop).
		MarginLeft(padLeft).
		Render(overlay)
}
