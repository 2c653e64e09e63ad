package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WizardResult holds the choices collected by the export wizard.
type WizardResult struct {
	Formats   []string
	BasePath  string
	Title     string
	Clipboard bool // also copy the JSON data to the clipboard
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard interactively collects export options for a lesson snapshot.
// defaultDir is where exports land unless the user types another path.
func RunWizard(defaultDir, lessonID, lessonTitle string) (*WizardResult, error) {
	result := &WizardResult{
		Formats: []string{"png"},
		Title:   lessonTitle,
	}

	stamp := time.Now().Format("20060102-150405")
	result.BasePath = filepath.Join(defaultDir, fmt.Sprintf("%s-%s", lessonID, stamp))

	form := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Export formats").
				Options(
					huh.NewOption("PNG image", "png").Selected(true),
					huh.NewOption("SVG image", "svg"),
					huh.NewOption("JSON data", "json"),
				).
				Value(&result.Formats).
				Validate(func(formats []string) error {
					if len(formats) == 0 {
						return fmt.Errorf("pick at least one format")
					}
					return nil
				}),
			huh.NewInput().
				Title("Output path (without extension)").
				Value(&result.BasePath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Snapshot title").
				Value(&result.Title),
			huh.NewConfirm().
				Title("Also copy JSON data to clipboard?").
				Value(&result.Clipboard),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return result, nil
}
