// Package bio implements the mitosis visualization: a looping timeline of
// cell-division phases with chromosome positions interpolated within each
// phase.
package bio

import (
	"github.com/vizlab/vizlab/pkg/sim"
)

// Phase is one stage of mitosis.
type Phase int

const (
	Interphase Phase = iota
	Prophase
	Metaphase
	Anaphase
	Telophase
	Cytokinesis
	numPhases
)

var phaseNames = [...]string{
	"Interphase",
	"Prophase",
	"Metaphase",
	"Anaphase",
	"Telophase",
	"Cytokinesis",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// phaseSeconds holds the relative on-screen duration of each phase.
var phaseSeconds = [numPhases]float64{4, 3, 3, 3, 3, 4}

// CycleSeconds is the duration of one full loop.
func CycleSeconds() float64 {
	total := 0.0
	for _, d := range phaseSeconds {
		total += d
	}
	return total
}

// PhaseAt maps a time offset into the cycle to its phase and the fraction
// [0,1) completed within that phase. Times wrap modulo the cycle.
func PhaseAt(t float64) (Phase, float64) {
	cycle := CycleSeconds()
	for t < 0 {
		t += cycle
	}
	for t >= cycle {
		t -= cycle
	}
	for p := Interphase; p < numPhases; p++ {
		d := phaseSeconds[p]
		if t < d {
			return p, t / d
		}
		t -= d
	}
	return Cytokinesis, 1 // unreachable
}

// Chromosome is a drawable chromosome position in cell-local coordinates,
// x and y in [-1, 1] with the cell centered at the origin.
type Chromosome struct {
	X, Y      float64
	Condensed bool
}

// Chromosomes returns the four chromosome positions for a phase at the
// given within-phase fraction. The geometry is deliberately schematic: what
// matters for the lesson is alignment at the metaphase plate and the
// poleward split in anaphase.
func Chromosomes(p Phase, frac float64) []Chromosome {
	spread := []float64{-0.6, -0.2, 0.2, 0.6}
	out := make([]Chromosome, 0, 8)

	switch p {
	case Interphase:
		// Diffuse chromatin scattered around the nucleus.
		for i, s := range spread {
			out = append(out, Chromosome{X: s * 0.7, Y: 0.3 - 0.2*float64(i%2), Condensed: false})
		}
	case Prophase:
		// Condensing and drifting toward the middle.
		for i, s := range spread {
			out = append(out, Chromosome{X: s * (1 - 0.5*frac), Y: (0.3 - 0.2*float64(i%2)) * (1 - frac), Condensed: true})
		}
	case Metaphase:
		// Lined up on the metaphase plate.
		for _, s := range spread {
			out = append(out, Chromosome{X: 0, Y: s, Condensed: true})
		}
	case Anaphase:
		// Sister chromatids pulled to opposite poles.
		for _, s := range spread {
			out = append(out,
				Chromosome{X: -0.8 * frac, Y: s, Condensed: true},
				Chromosome{X: 0.8 * frac, Y: s, Condensed: true},
			)
		}
	case Telophase, Cytokinesis:
		// Two clusters at the poles while the cell pinches.
		for _, s := range spread {
			out = append(out,
				Chromosome{X: -0.8, Y: s * 0.6, Condensed: p == Telophase},
				Chromosome{X: 0.8, Y: s * 0.6, Condensed: p == Telophase},
			)
		}
	}
	return out
}

// Pinch returns how far the cell membrane has pinched in [0,1] for the
// phase; nonzero only during cytokinesis.
func Pinch(p Phase, frac float64) float64 {
	if p != Cytokinesis {
		return 0
	}
	return frac
}

// Mitosis is the interactive simulation walking the phase timeline.
type Mitosis struct {
	speed *sim.Param
	loop  *sim.Toggle
	t     float64
}

// NewMitosis creates the simulation.
func NewMitosis() *Mitosis {
	return &Mitosis{
		speed: sim.NewParam("Phase speed", "x", 0.5, 4, 0.5, 1),
		loop:  sim.NewToggle("Loop", true),
	}
}

func (m *Mitosis) Title() string          { return "Mitosis Phases" }
func (m *Mitosis) Params() []*sim.Param   { return []*sim.Param{m.speed} }
func (m *Mitosis) Toggles() []*sim.Toggle { return []*sim.Toggle{m.loop} }

// Reset rewinds to interphase.
func (m *Mitosis) Reset() { m.t = 0 }

// Advance moves the timeline, wrapping when looping is on.
func (m *Mitosis) Advance(dt float64) {
	m.t += dt * m.speed.Value()
	cycle := CycleSeconds()
	if m.t >= cycle {
		if m.loop.On() {
			for m.t >= cycle {
				m.t -= cycle
			}
		} else {
			m.t = cycle
		}
	}
}

// Done reports completion only when looping is off and the cycle ended.
func (m *Mitosis) Done() bool {
	return !m.loop.On() && m.t >= CycleSeconds()
}

// Phase returns the current phase and within-phase fraction. A finished
// non-looping run rests at the end of cytokinesis instead of wrapping
// back to interphase like PhaseAt would.
func (m *Mitosis) Phase() (Phase, float64) {
	if m.t >= CycleSeconds() {
		return Cytokinesis, 1
	}
	return PhaseAt(m.t)
}

// JumpTo positions the timeline at the start of a phase; demo steps use it
// to pin the animation on the phase under discussion.
func (m *Mitosis) JumpTo(p Phase) {
	t := 0.0
	for q := Interphase; q < p && q < numPhases; q++ {
		t += phaseSeconds[q]
	}
	m.t = t
}
