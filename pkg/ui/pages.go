package ui

import (
	"fmt"
	"math"

	"github.com/vizlab/vizlab/pkg/catalog"
	"github.com/vizlab/vizlab/pkg/export"
	"github.com/vizlab/vizlab/pkg/sim"
	"github.com/vizlab/vizlab/pkg/sim/bio"
	"github.com/vizlab/vizlab/pkg/sim/chem"
	"github.com/vizlab/vizlab/pkg/sim/econ"
	"github.com/vizlab/vizlab/pkg/sim/physics"
	"github.com/vizlab/vizlab/pkg/sim/sortviz"
	"github.com/vizlab/vizlab/pkg/tutorial"
)

// Page binds a catalog lesson to its running simulation, the code that
// draws it, and its guided walkthrough.
type Page struct {
	Lesson catalog.Lesson
	Sim    sim.Simulation

	XLabel string
	YLabel string

	// Draw renders the lesson visual into a box of the given cell size.
	Draw func(theme Theme, width, height int) string

	// Series returns the current plotted data for snapshots and JSON export.
	Series func() []export.Series

	// Status returns a short line of live readouts shown under the plot.
	Status func() string

	Steps []tutorial.Step
}

// NewPage builds the page for a lesson. Unknown lesson IDs are an error so
// user-supplied catalogs fail loudly instead of opening a blank view.
func NewPage(lesson catalog.Lesson) (*Page, error) {
	switch lesson.ID {
	case "physics-projectile":
		return projectilePage(lesson), nil
	case "chem-titration":
		return titrationPage(lesson), nil
	case "bio-mitosis":
		return mitosisPage(lesson), nil
	case "econ-market":
		return marketPage(lesson), nil
	case "cs-sorting":
		return sortingPage(lesson), nil
	}
	return nil, fmt.Errorf("no visualization registered for lesson %q", lesson.ID)
}

func pointsXY(pts []physics.Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

func samplesXY(samples []chem.Sample) (xs, ys []float64) {
	xs = make([]float64, len(samples))
	ys = make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Volume
		ys[i] = s.PH
	}
	return xs, ys
}

func projectilePage(lesson catalog.Lesson) *Page {
	p := physics.NewProjectile()

	bounds := func() (xMax, yMax float64) {
		xMax = physics.Range(p.FullPath())
		yMax = physics.Apex(p.FullPath()).Y
		if p.ReferenceToggle().On() {
			ref := p.Reference()
			xMax = math.Max(xMax, physics.Range(ref))
			yMax = math.Max(yMax, physics.Apex(ref).Y)
		}
		return xMax, yMax
	}

	return &Page{
		Lesson: lesson,
		Sim:    p,
		XLabel: "distance (m)",
		YLabel: "height (m)",
		Draw: func(theme Theme, width, height int) string {
			c := NewCanvas(width, height)
			xMax, yMax := bounds()
			c.SetBounds(0, xMax*1.05, 0, yMax*1.15)
			c.Line(0, 0, xMax*1.05, 0, 3)
			if p.ReferenceToggle().On() {
				xs, ys := pointsXY(p.Reference())
				c.Polyline(xs, ys, 1)
			}
			xs, ys := pointsXY(p.Path())
			c.Polyline(xs, ys, 0)
			if n := len(xs); n > 0 {
				c.Point(xs[n-1], ys[n-1], 2)
			}
			return c.Render(theme)
		},
		Series: func() []export.Series {
			xs, ys := pointsXY(p.FullPath())
			out := []export.Series{{Name: "trajectory", X: xs, Y: ys}}
			if p.ReferenceToggle().On() {
				rx, ry := pointsXY(p.Reference())
				out = append(out, export.Series{Name: "no drag", X: rx, Y: ry})
			}
			return out
		},
		Status: func() string {
			full := p.FullPath()
			return fmt.Sprintf("range %.1f m  ·  apex %.1f m", physics.Range(full), physics.Apex(full).Y)
		},
		Steps: []tutorial.Step{
			{
				Title: "The flight path",
				Description: "A ball leaves the ground at the launch **speed** and " +
					"**angle** shown in the controls. Gravity pulls it back down, " +
					"tracing the arc on the left.",
				Highlight: "the arc growing as the simulation plays",
				Setup: func() {
					p.SpeedParam().Set(30)
					p.AngleParam().Set(45)
					p.DragParam().Set(0.02)
					p.ReferenceToggle().Set(false)
					p.Reset()
				},
			},
			{
				Title: "Steeper launches",
				Description: "Raising the angle to **70°** buys height at the cost " +
					"of distance. The apex climbs while the landing point moves in.",
				Highlight: "the apex readout below the plot",
				Setup: func() {
					p.AngleParam().Set(70)
					p.Reset()
				},
			},
			{
				Title: "Air drag",
				Description: "The drag coefficient removes energy along the whole " +
					"flight. Cranking it up makes the arc lopsided: the fall is " +
					"steeper than the climb.",
				Highlight: "the descending half of the arc",
				Setup: func() {
					p.AngleParam().Set(45)
					p.DragParam().Set(0.08)
					p.Reset()
				},
			},
			{
				Title: "Compare with vacuum",
				Description: "The reference overlay shows the same launch with no " +
					"drag at all. In a vacuum the parabola is symmetric and " +
					"noticeably longer.",
				Highlight: "the second, longer arc",
				Setup: func() {
					p.ReferenceToggle().Set(true)
					p.Reset()
				},
			},
			{
				Title: "The 45° rule",
				Description: "With drag off, **45°** maximizes range. Try nudging " +
					"the angle either way once the walkthrough closes: every move " +
					"away from 45° lands shorter.",
				Highlight: "the range readout",
				Setup: func() {
					p.DragParam().Set(0)
					p.AngleParam().Set(45)
					p.ReferenceToggle().Set(false)
					p.Reset()
				},
			},
		},
	}
}

func titrationPage(lesson catalog.Lesson) *Page {
	t := chem.NewTitration()

	maxVolume := func() float64 {
		curve := t.FullCurve()
		if len(curve) == 0 {
			return 1
		}
		return curve[len(curve)-1].Volume
	}

	return &Page{
		Lesson: lesson,
		Sim:    t,
		XLabel: "base added (mL)",
		YLabel: "pH",
		Draw: func(theme Theme, width, height int) string {
			c := NewCanvas(width, height)
			c.SetBounds(0, maxVolume(), 0, 14)
			c.Line(0, 7, maxVolume(), 7, 3)
			fx, fy := samplesXY(t.FullCurve())
			c.Polyline(fx, fy, 1)
			tx, ty := samplesXY(t.Trace())
			c.Polyline(tx, ty, 0)
			eq := t.Equivalence()
			c.Point(eq.Volume, eq.PH, 2)
			return c.Render(theme)
		},
		Series: func() []export.Series {
			xs, ys := samplesXY(t.FullCurve())
			return []export.Series{{Name: "titration curve", X: xs, Y: ys}}
		},
		Status: func() string {
			eq := t.Equivalence()
			return fmt.Sprintf("poured %.1f mL  ·  equivalence at %.1f mL (pH %.1f)", t.Poured(), eq.Volume, eq.PH)
		},
		Steps: []tutorial.Step{
			{
				Title: "Reading the curve",
				Description: "Base drips into a weak acid and the pH creeps up. " +
					"The bright trace is what has been poured so far; the dim " +
					"curve is where the full titration will go.",
				Highlight: "the trace advancing along the dim curve",
				Setup: func() {
					t.AcidParam().Set(0.1)
					t.PKaParam().Set(4.76)
					t.Reset()
				},
			},
			{
				Title: "The buffer region",
				Description: "Before the equivalence point the curve is nearly " +
					"flat: the acid and its conjugate base soak up additions. At " +
					"the half-equivalence volume, **pH equals pKa**.",
				Highlight: "the flat shoulder in the first half",
				Setup: func() {
					t.Reset()
				},
			},
			{
				Title: "Equivalence",
				Description: "At the marked point the moles of base match the " +
					"moles of acid and the pH jumps sharply. For a weak acid the " +
					"jump lands **above 7**, not at it.",
				Highlight: "the marked point on the steep rise",
				Setup: func() {
					t.Reset()
				},
			},
			{
				Title: "A weaker acid",
				Description: "Raising the pKa to **7** describes a much weaker " +
					"acid. The buffer shoulder lifts and the equivalence jump " +
					"gets shallower and harder to spot.",
				Highlight: "the whole curve shifting upward",
				Setup: func() {
					t.PKaParam().Set(7)
					t.Reset()
				},
			},
		},
	}
}

func mitosisPage(lesson catalog.Lesson) *Page {
	m := bio.NewMitosis()

	return &Page{
		Lesson: lesson,
		Sim:    m,
		XLabel: "",
		YLabel: "",
		Draw: func(theme Theme, width, height int) string {
			c := NewCanvas(width, height)
			c.SetBounds(-2.4, 2.4, -1.5, 1.5)
			phase, frac := m.Phase()
			pinch := bio.Pinch(phase, frac)
			c.Circle(-pinch, 0, 2-pinch, 1.2, 3)
			if pinch > 0 {
				c.Circle(pinch, 0, 2-pinch, 1.2, 3)
			}
			for _, ch := range bio.Chromosomes(phase, frac) {
				if ch.Condensed {
					c.Line(ch.X, ch.Y-0.12, ch.X, ch.Y+0.12, 0)
				} else {
					c.Point(ch.X, ch.Y, 1)
				}
			}
			return c.Render(theme)
		},
		Series: func() []export.Series {
			phase, frac := m.Phase()
			chs := bio.Chromosomes(phase, frac)
			xs := make([]float64, len(chs))
			ys := make([]float64, len(chs))
			for i, ch := range chs {
				xs[i] = ch.X
				ys[i] = ch.Y
			}
			return []export.Series{{Name: "chromosomes", X: xs, Y: ys}}
		},
		Status: func() string {
			phase, frac := m.Phase()
			return fmt.Sprintf("%s  ·  %d%% through phase", phase, int(frac*100))
		},
		Steps: []tutorial.Step{
			{
				Title: "Interphase",
				Description: "Most of a cell's life is spent here. The DNA is " +
					"loose chromatin, drawn as scattered dots, while the cell " +
					"grows and copies its genome.",
				Highlight: "the scattered dots inside the membrane",
				Setup: func() { m.JumpTo(bio.Interphase) },
			},
			{
				Title: "Prophase",
				Description: "The chromatin condenses into visible chromosomes, " +
					"drawn as short bars. Each one is already duplicated, two " +
					"sister chromatids joined together.",
				Highlight: "dots becoming bars",
				Setup: func() { m.JumpTo(bio.Prophase) },
			},
			{
				Title: "Metaphase",
				Description: "Spindle fibers line every chromosome up on the " +
					"cell's equator, the **metaphase plate**. This checkpoint " +
					"guarantees each daughter gets a full set.",
				Highlight: "the single vertical line of chromosomes",
				Setup: func() { m.JumpTo(bio.Metaphase) },
			},
			{
				Title: "Anaphase",
				Description: "The sister chromatids separate and are reeled " +
					"toward opposite poles. Watch the two groups pull apart.",
				Highlight: "chromosomes moving to the left and right poles",
				Setup: func() { m.JumpTo(bio.Anaphase) },
			},
			{
				Title: "Telophase and cytokinesis",
				Description: "Nuclear envelopes reform around each group and the " +
					"membrane pinches through the middle, leaving two genetically " +
					"identical cells.",
				Highlight: "the membrane pinching in two",
				Setup: func() { m.JumpTo(bio.Telophase) },
			},
		},
	}
}

func marketPage(lesson catalog.Lesson) *Page {
	m := econ.NewMarket()

	// Quantity on the x axis, price on the y axis, the economist's
	// convention even though price is the independent variable here.
	sampleCurves := func() (dx, dy, sx, sy []float64, qMax float64) {
		cv := m.Curves()
		const n = 60
		for i := 0; i <= n; i++ {
			price := m.MaxPrice() * float64(i) / n
			qd := cv.Demand(price)
			qs := cv.Supply(price)
			dx = append(dx, qd)
			dy = append(dy, price)
			sx = append(sx, qs)
			sy = append(sy, price)
			qMax = math.Max(qMax, math.Max(qd, qs))
		}
		return dx, dy, sx, sy, qMax
	}

	return &Page{
		Lesson: lesson,
		Sim:    m,
		XLabel: "quantity",
		YLabel: "price",
		Draw: func(theme Theme, width, height int) string {
			c := NewCanvas(width, height)
			dx, dy, sx, sy, qMax := sampleCurves()
			c.SetBounds(0, qMax*1.05, 0, m.MaxPrice())
			c.Polyline(dx, dy, 0)
			c.Polyline(sx, sy, 1)
			price, qty := m.Shown()
			c.Line(0, price, qty, price, 3)
			c.Line(qty, 0, qty, price, 3)
			c.Point(qty, price, 2)
			return c.Render(theme)
		},
		Series: func() []export.Series {
			dx, dy, sx, sy, _ := sampleCurves()
			return []export.Series{
				{Name: "demand", X: dx, Y: dy},
				{Name: "supply", X: sx, Y: sy},
			}
		},
		Status: func() string {
			price, qty := m.Shown()
			return fmt.Sprintf("equilibrium price %.1f  ·  quantity %.1f", price, qty)
		},
		Steps: []tutorial.Step{
			{
				Title: "Two curves, one point",
				Description: "Demand slopes down, supply slopes up, and the " +
					"market clears where they cross. The marker sits at the " +
					"equilibrium price and quantity.",
				Highlight: "the marker at the crossing",
				Setup: func() {
					m.DemandParam().Set(0)
					m.SupplyParam().Set(0)
					m.Reset()
				},
			},
			{
				Title: "A demand shock",
				Description: "Shift demand **outward** and buyers want more at " +
					"every price. The equilibrium glides up the supply curve: " +
					"both price and quantity rise.",
				Highlight: "the marker sliding up and to the right",
				Setup: func() {
					m.DemandParam().Set(20)
					m.SupplyParam().Set(0)
				},
			},
			{
				Title: "A supply shock",
				Description: "Now shift supply **inward**, as if an input got " +
					"expensive. Quantity falls but price rises, the classic " +
					"squeeze of a supply shortage.",
				Highlight: "the marker moving up and to the left",
				Setup: func() {
					m.DemandParam().Set(0)
					m.SupplyParam().Set(-20)
				},
			},
			{
				Title: "Watching it settle",
				Description: "The marker does not teleport: it eases toward every " +
					"new equilibrium, a nod to how real prices adjust through " +
					"rounds of trading rather than instantly.",
				Highlight: "the marker catching up after a shift",
				Setup: func() {
					m.DemandParam().Set(15)
					m.SupplyParam().Set(10)
				},
			},
		},
	}
}

func sortingPage(lesson catalog.Lesson) *Page {
	s := sortviz.NewSortViz()

	return &Page{
		Lesson: lesson,
		Sim:    s,
		XLabel: "index",
		YLabel: "value",
		Draw: func(theme Theme, width, height int) string {
			f := s.Frame()
			highlight := map[int]bool{f.I: true, f.J: true}
			return BarChart(theme, f.Data, width, height, highlight)
		},
		Series: func() []export.Series {
			f := s.Frame()
			xs := make([]float64, len(f.Data))
			ys := make([]float64, len(f.Data))
			for i, v := range f.Data {
				xs[i] = float64(i)
				ys[i] = float64(v)
			}
			return []export.Series{{Name: s.Algorithm().String(), X: xs, Y: ys}}
		},
		Status: func() string {
			return fmt.Sprintf("%s sort  ·  %d comparisons  ·  %d%% done",
				s.Algorithm(), s.Comparisons(), int(s.Progress()*100))
		},
		Steps: []tutorial.Step{
			{
				Title: "Bars as numbers",
				Description: "Each bar is one array element; taller means bigger. " +
					"The highlighted pair is the comparison the algorithm is " +
					"making right now.",
				Highlight: "the two highlighted bars",
				Setup: func() {
					s.SetAlgorithm(sortviz.Bubble)
				},
			},
			{
				Title: "Bubble sort",
				Description: "Bubble sort walks the array swapping adjacent " +
					"out-of-order pairs. Large values **bubble** to the right " +
					"end, one sorted position per pass.",
				Highlight: "the largest unsorted bar drifting right",
				Setup: func() {
					s.SetAlgorithm(sortviz.Bubble)
				},
			},
			{
				Title: "Insertion sort",
				Description: "Insertion sort grows a sorted prefix, sliding each " +
					"new element left into place. On nearly-sorted input it " +
					"barely does any work.",
				Highlight: "the sorted region growing from the left",
				Setup: func() {
					s.SetAlgorithm(sortviz.Insertion)
				},
			},
			{
				Title: "Selection sort",
				Description: "Selection sort scans the whole remainder for the " +
					"minimum and swaps it into place. Its comparison count never " +
					"changes, no matter the input.",
				Highlight: "the comparison counter climbing steadily",
				Setup: func() {
					s.SetAlgorithm(sortviz.Selection)
				},
			},
			{
				Title: "Quicksort",
				Description: "Quicksort partitions around a pivot and recurses. " +
					"The highlighted pair jumps around much more, and the total " +
					"comparison count comes out far lower.",
				Highlight: "comparisons finishing well below the others",
				Setup: func() {
					s.SetAlgorithm(sortviz.Quick)
				},
			},
		},
	}
}
