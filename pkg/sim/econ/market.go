// Package econ implements the supply-and-demand visualization: linear
// curves whose intercepts shift under user control, with the equilibrium
// found by a scan over a fixed price grid.
package econ

import (
	"math"

	"github.com/vizlab/vizlab/pkg/sim"
)

// gridSteps is the fixed resolution of the equilibrium scan.
const gridSteps = 200

// Curves describes a linear market: demand Qd = a − b·P, supply Qs = c + d·P.
type Curves struct {
	A, B float64 // demand intercept and slope magnitude
	C, D float64 // supply intercept and slope
}

// Demand returns quantity demanded at price p, floored at zero.
func (c Curves) Demand(p float64) float64 {
	return math.Max(0, c.A-c.B*p)
}

// Supply returns quantity supplied at price p, floored at zero.
func (c Curves) Supply(p float64) float64 {
	return math.Max(0, c.C+c.D*p)
}

// Equilibrium scans prices in [0, maxPrice] on a fixed grid and returns the
// price and quantity where demand and supply are closest. A brute scan is
// deliberate: it mirrors how the curves are drawn and handles the floored
// (kinked) regions without case analysis.
func (c Curves) Equilibrium(maxPrice float64) (price, quantity float64) {
	bestGap := math.Inf(1)
	for i := 0; i <= gridSteps; i++ {
		p := maxPrice * float64(i) / gridSteps
		gap := math.Abs(c.Demand(p) - c.Supply(p))
		if gap < bestGap {
			bestGap = gap
			price = p
			quantity = (c.Demand(p) + c.Supply(p)) / 2
		}
	}
	return price, quantity
}

// Market is the interactive simulation. Advance eases the displayed
// equilibrium toward the solved one so shifts animate instead of jumping.
type Market struct {
	demandShift *sim.Param
	supplyShift *sim.Param

	base Curves

	shownP, shownQ float64
	targetP, targetQ float64
}

// NewMarket creates the simulation with a symmetric baseline market.
func NewMarket() *Market {
	m := &Market{
		demandShift: sim.NewParam("Demand shift", "", -30, 30, 2, 0),
		supplyShift: sim.NewParam("Supply shift", "", -30, 30, 2, 0),
		base:        Curves{A: 100, B: 1, C: 10, D: 1},
	}
	m.Reset()
	return m
}

func (m *Market) Title() string          { return "Supply & Demand Equilibrium" }
func (m *Market) Params() []*sim.Param   { return []*sim.Param{m.demandShift, m.supplyShift} }
func (m *Market) Toggles() []*sim.Toggle { return nil }

// Curves returns the shifted market curves.
func (m *Market) Curves() Curves {
	c := m.base
	c.A += m.demandShift.Value()
	c.C += m.supplyShift.Value()
	return c
}

// MaxPrice returns the top of the price axis.
func (m *Market) MaxPrice() float64 { return 120 }

// Reset solves the equilibrium for the current shifts and snaps the
// displayed point onto it.
func (m *Market) Reset() {
	m.targetP, m.targetQ = m.Curves().Equilibrium(m.MaxPrice())
	m.shownP, m.shownQ = m.targetP, m.targetQ
}

// Advance re-solves every frame (the scan is 200 steps, cheap) and eases
// the displayed point toward the solution.
func (m *Market) Advance(dt float64) {
	m.targetP, m.targetQ = m.Curves().Equilibrium(m.MaxPrice())
	ease := math.Min(1, 4*dt)
	m.shownP += (m.targetP - m.shownP) * ease
	m.shownQ += (m.targetQ - m.shownQ) * ease
}

// Done always reports false: the market animates continuously.
func (m *Market) Done() bool { return false }

// Shown returns the currently displayed (eased) equilibrium point.
func (m *Market) Shown() (price, quantity float64) { return m.shownP, m.shownQ }

// Target returns the solved equilibrium point.
func (m *Market) Target() (price, quantity float64) { return m.targetP, m.targetQ }

// DemandParam exposes the demand-shift parameter for demo setup callbacks.
func (m *Market) DemandParam() *sim.Param { return m.demandShift }

// SupplyParam exposes the supply-shift parameter.
func (m *Market) SupplyParam() *sim.Param { return m.supplyShift }
