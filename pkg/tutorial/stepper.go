// Package tutorial implements the guided-walkthrough stepper shared by every
// visualization page.
//
// A Stepper owns two pieces of state: whether the walkthrough is visible and
// which step is active. It never renders anything; the presentation layer
// reads IsOpen/Current and calls the navigation methods, and each step's
// Setup callback resets the hosting visualization to the state that step
// talks about. Navigation is clamped at the boundaries rather than erroring,
// so headless callers get the same safe behavior the UI's disabled buttons
// used to provide.
package tutorial

// Step is a single page of a guided walkthrough. Steps are authored per
// visualization and are immutable once handed to a Stepper.
type Step struct {
	Title       string
	Description string

	// Highlight is an optional short annotation rendered alongside the
	// description (e.g. the control the step wants the user to look at).
	Highlight string

	// Setup, when non-nil, is invoked every time this step becomes active,
	// including revisits. It must be written as a full reset of the
	// visualization, not an accumulation; the stepper calls it blindly and
	// does not recover if it panics.
	Setup func()
}

// Stepper sequences a walkthrough over a fixed list of steps.
//
// The zero value is not useful; construct with NewStepper. A Stepper is
// owned by exactly one UI instance and is not safe for concurrent use.
type Stepper struct {
	steps   []Step
	current int
	open    bool
}

// NewStepper creates a stepper over steps. The slice may be empty; Open on
// an empty stepper still opens (see Open). The stepper keeps the slice it is
// given, so callers must not mutate it afterwards.
func NewStepper(steps []Step) *Stepper {
	return &Stepper{steps: steps}
}

// Len returns the number of steps.
func (s *Stepper) Len() int { return len(s.steps) }

// IsOpen reports whether the walkthrough is visible.
func (s *Stepper) IsOpen() bool { return s.open }

// Current returns the active step index. The index is always in [0, Len)
// while Len > 0; for an empty stepper it stays 0.
func (s *Stepper) Current() int { return s.current }

// CurrentStep returns the active step, or (Step{}, false) when the stepper
// is empty. Presentation code should prefer this over indexing Steps
// directly so the empty-sequence case needs no special handling.
func (s *Stepper) CurrentStep() (Step, bool) {
	if len(s.steps) == 0 {
		return Step{}, false
	}
	return s.steps[s.current], true
}

// Steps returns the step list. Callers treat it as read-only.
func (s *Stepper) Steps() []Step { return s.steps }

// Open makes the walkthrough visible at the first step and runs that step's
// Setup. Opening always rewinds to step 0, regardless of where a previous
// session left off. On an empty stepper the walkthrough still opens with the
// index left at 0 and no Setup to run; it is the presentation layer's job to
// hide an empty walkthrough.
func (s *Stepper) Open() {
	s.current = 0
	s.open = true
	if len(s.steps) > 0 {
		s.runSetup()
	}
}

// Close hides the walkthrough. The current index is preserved, but a later
// Open rewinds to 0 anyway. Closing an already-closed stepper is a no-op.
func (s *Stepper) Close() {
	s.open = false
}

// Next advances to the following step and runs its Setup. At the last step
// it is a no-op: no wraparound, no error.
func (s *Stepper) Next() {
	if s.current < len(s.steps)-1 {
		s.current++
		s.runSetup()
	}
}

// Prev moves to the preceding step and runs its Setup. At step 0 it is a
// no-op.
func (s *Stepper) Prev() {
	if s.current > 0 {
		s.current--
		s.runSetup()
	}
}

// GoToStep jumps directly to step i and runs its Setup. Out-of-range
// indices leave the stepper unchanged; callers derive i from a rendered
// progress indicator whose length already matches Len, so a bad index is
// normal UI noise rather than a fault.
func (s *Stepper) GoToStep(i int) {
	if i < 0 || i >= len(s.steps) {
		return
	}
	s.current = i
	s.runSetup()
}

func (s *Stepper) runSetup() {
	if fn := s.steps[s.current].Setup; fn != nil {
		fn()
	}
}
