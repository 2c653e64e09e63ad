// Package chem implements the acid–base titration visualization: the pH
// curve of a weak acid titrated with a strong base, computed by bisecting
// the charge-balance equation at each titrant volume.
package chem

import (
	"math"

	"github.com/vizlab/vizlab/pkg/metrics"
	"github.com/vizlab/vizlab/pkg/sim"
)

// Kw is the water autoionization constant at 25 °C.
const Kw = 1e-14

// curveSamples is the fixed number of titrant increments per curve.
const curveSamples = 200

// Sample is one point of a titration curve.
type Sample struct {
	Volume float64 // titrant added, mL
	PH     float64
}

// PH returns the pH of a weak acid (analytic concentration ca mol/L, acid
// constant ka, volume va mL) after adding vb mL of strong base at
// concentration cb mol/L. The proton concentration is found by bisection of
// the charge balance [H+] + [Na+] = [OH-] + [A-] over [1e-14, 1].
func PH(ca, va, ka, cb, vb float64) float64 {
	total := va + vb
	caDil := ca * va / total
	na := cb * vb / total

	balance := func(h float64) float64 {
		oh := Kw / h
		a := caDil * ka / (ka + h)
		return h + na - oh - a
	}

	// balance is increasing in h: negative at 1e-14 (hydroxide dominates),
	// positive at 1. A positive midpoint therefore brackets the root below.
	lo, hi := 1e-14, 1.0
	for i := 0; i < 100; i++ {
		mid := math.Sqrt(lo * hi) // bisect in log space
		if balance(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return -math.Log10(math.Sqrt(lo * hi))
}

// Curve samples the full titration from 0 to maxVb mL of base in
// curveSamples equal increments.
func Curve(ca, va, ka, cb, maxVb float64) []Sample {
	out := make([]Sample, 0, curveSamples+1)
	for i := 0; i <= curveSamples; i++ {
		vb := maxVb * float64(i) / curveSamples
		out = append(out, Sample{Volume: vb, PH: PH(ca, va, ka, cb, vb)})
	}
	return out
}

// EquivalencePoint returns the sample where the curve is steepest, the
// classroom definition of the equivalence point. A curve with fewer than
// two samples yields the zero sample.
func EquivalencePoint(curve []Sample) Sample {
	if len(curve) < 2 {
		return Sample{}
	}
	best, slope := curve[1], 0.0
	for i := 1; i < len(curve); i++ {
		dv := curve[i].Volume - curve[i-1].Volume
		if dv <= 0 {
			continue
		}
		s := (curve[i].PH - curve[i-1].PH) / dv
		if s > slope {
			slope = s
			best = curve[i]
		}
	}
	return best
}

// Titration is the interactive simulation: Advance pours titrant at a fixed
// rate and the curve traces out as it goes.
type Titration struct {
	acidConc *sim.Param
	baseConc *sim.Param
	pKa      *sim.Param

	curve  []Sample
	poured float64
	maxVb  float64
}

// NewTitration creates the simulation: 25 mL of weak acid titrated with up
// to 50 mL of strong base.
func NewTitration() *Titration {
	t := &Titration{
		acidConc: sim.NewParam("Acid", "M", 0.05, 0.5, 0.05, 0.1),
		baseConc: sim.NewParam("Base", "M", 0.05, 0.5, 0.05, 0.1),
		pKa:      sim.NewParam("pKa", "", 2, 10, 0.25, 4.76),
		maxVb:    50,
	}
	t.Reset()
	return t
}

func (t *Titration) Title() string          { return "Weak Acid Titration" }
func (t *Titration) Params() []*sim.Param   { return []*sim.Param{t.acidConc, t.baseConc, t.pKa} }
func (t *Titration) Toggles() []*sim.Toggle { return nil }

// Reset recomputes the curve for the current parameters and empties the
// burette.
func (t *Titration) Reset() {
	defer metrics.Timer(metrics.CurveSolve)()
	ka := math.Pow(10, -t.pKa.Value())
	t.curve = Curve(t.acidConc.Value(), 25, ka, t.baseConc.Value(), t.maxVb)
	t.poured = 0
}

// Advance pours titrant at 5 mL per simulated second.
func (t *Titration) Advance(dt float64) {
	t.poured += 5 * dt
	if t.poured > t.maxVb {
		t.poured = t.maxVb
	}
}

// Done reports whether the burette is empty.
func (t *Titration) Done() bool { return t.poured >= t.maxVb }

// Poured returns the titrant volume added so far, in mL.
func (t *Titration) Poured() float64 { return t.poured }

// Trace returns the portion of the curve poured so far.
func (t *Titration) Trace() []Sample {
	n := 0
	for n < len(t.curve) && t.curve[n].Volume <= t.poured {
		n++
	}
	return t.curve[:n]
}

// FullCurve returns the complete precomputed curve.
func (t *Titration) FullCurve() []Sample { return t.curve }

// Equivalence returns the equivalence point of the full curve.
func (t *Titration) Equivalence() Sample { return EquivalencePoint(t.curve) }

// PKaParam exposes the pKa parameter for demo setup callbacks.
func (t *Titration) PKaParam() *sim.Param { return t.pKa }

// AcidParam exposes the acid-concentration parameter.
func (t *Titration) AcidParam() *sim.Param { return t.acidConc }
