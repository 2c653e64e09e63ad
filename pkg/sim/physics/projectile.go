// Package physics implements the projectile-motion visualization: a launch
// with quadratic air drag integrated by classical RK4, alongside the
// closed-form drag-free reference trajectory.
package physics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vizlab/vizlab/pkg/sim"
)

// Gravity is the constant downward acceleration in m/s².
const Gravity = 9.81

// maxFlightSeconds bounds integration so a pathological parameter set can
// never spin the frame loop forever.
const maxFlightSeconds = 60

// Point is a trajectory sample in meters.
type Point struct {
	X, Y float64
}

// state is (x, y, vx, vy).
type state [4]float64

func deriv(s state, k float64) state {
	vx, vy := s[2], s[3]
	speed := math.Hypot(vx, vy)
	return state{
		vx,
		vy,
		-k * speed * vx,
		-k*speed*vy - Gravity,
	}
}

func rk4Step(s state, k, dt float64) state {
	k1 := deriv(s, k)
	k2 := deriv(advance(s, k1, dt/2), k)
	k3 := deriv(advance(s, k2, dt/2), k)
	k4 := deriv(advance(s, k3, dt), k)

	var out state
	for i := range out {
		out[i] = s[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

func advance(s, d state, dt float64) state {
	var out state
	for i := range out {
		out[i] = s[i] + d[i]*dt
	}
	return out
}

// Simulate integrates a launch at speed v0 (m/s) and angle angleDeg above
// the horizontal with drag coefficient k (1/m), sampling every dt seconds
// until the projectile returns to y=0. The first point is always (0, 0).
func Simulate(v0, angleDeg, k, dt float64) []Point {
	rad := angleDeg * math.Pi / 180
	s := state{0, 0, v0 * math.Cos(rad), v0 * math.Sin(rad)}
	path := []Point{{0, 0}}

	for t := 0.0; t < maxFlightSeconds; t += dt {
		s = rk4Step(s, k, dt)
		if s[1] < 0 && len(path) > 1 {
			// Interpolate the ground crossing for a clean landing point.
			prev := path[len(path)-1]
			frac := prev.Y / (prev.Y - s[1])
			path = append(path, Point{prev.X + (s[0]-prev.X)*frac, 0})
			break
		}
		path = append(path, Point{s[0], s[1]})
	}
	return path
}

// AnalyticRange returns the drag-free range for the same launch, the
// classroom formula v²·sin(2θ)/g.
func AnalyticRange(v0, angleDeg float64) float64 {
	rad := angleDeg * math.Pi / 180
	return v0 * v0 * math.Sin(2*rad) / Gravity
}

// Apex returns the highest sample of a trajectory. An empty path yields the
// zero point.
func Apex(path []Point) Point {
	if len(path) == 0 {
		return Point{}
	}
	ys := make([]float64, len(path))
	for i, p := range path {
		ys[i] = p.Y
	}
	return path[floats.MaxIdx(ys)]
}

// Range returns the landing distance, i.e. the X of the final sample.
func Range(path []Point) float64 {
	if len(path) == 0 {
		return 0
	}
	return path[len(path)-1].X
}

// Projectile is the interactive simulation: the trajectory is re-integrated
// whenever parameters change, and Advance reveals it over time.
type Projectile struct {
	speed *sim.Param
	angle *sim.Param
	drag  *sim.Param

	showRef *sim.Toggle

	path    []Point
	ref     []Point
	t       float64
	visible int
}

// NewProjectile creates the simulation with classroom-friendly defaults.
func NewProjectile() *Projectile {
	p := &Projectile{
		speed:   sim.NewParam("Speed", "m/s", 5, 80, 1, 30),
		angle:   sim.NewParam("Angle", "°", 5, 85, 1, 45),
		drag:    sim.NewParam("Drag k", "1/m", 0, 0.05, 0.002, 0.01),
		showRef: sim.NewToggle("No-drag reference", true),
	}
	p.Reset()
	return p
}

func (p *Projectile) Title() string          { return "Projectile Motion with Air Drag" }
func (p *Projectile) Params() []*sim.Param   { return []*sim.Param{p.speed, p.angle, p.drag} }
func (p *Projectile) Toggles() []*sim.Toggle { return []*sim.Toggle{p.showRef} }

// Reset re-integrates both trajectories for the current parameter values
// and rewinds the reveal.
func (p *Projectile) Reset() {
	const dt = 0.02
	p.path = Simulate(p.speed.Value(), p.angle.Value(), p.drag.Value(), dt)
	p.ref = Simulate(p.speed.Value(), p.angle.Value(), 0, dt)
	p.t = 0
	p.visible = 1
}

// Advance reveals more of the trajectory. Each sample covers 0.02 s of
// flight.
func (p *Projectile) Advance(dt float64) {
	p.t += dt
	p.visible = int(p.t/0.02) + 1
	if p.visible > len(p.path) {
		p.visible = len(p.path)
	}
}

// Done reports whether the full trajectory is revealed.
func (p *Projectile) Done() bool { return p.visible >= len(p.path) }

// Path returns the revealed portion of the drag trajectory.
func (p *Projectile) Path() []Point { return p.path[:p.visible] }

// FullPath returns the complete drag trajectory.
func (p *Projectile) FullPath() []Point { return p.path }

// Reference returns the drag-free trajectory when the toggle is on, else nil.
func (p *Projectile) Reference() []Point {
	if !p.showRef.On() {
		return nil
	}
	return p.ref
}

// SpeedParam exposes the launch-speed parameter for demo setup callbacks.
func (p *Projectile) SpeedParam() *sim.Param { return p.speed }

// AngleParam exposes the launch-angle parameter.
func (p *Projectile) AngleParam() *sim.Param { return p.angle }

// DragParam exposes the drag-coefficient parameter.
func (p *Projectile) DragParam() *sim.Param { return p.drag }

// ReferenceToggle exposes the no-drag overlay toggle.
func (p *Projectile) ReferenceToggle() *sim.Toggle { return p.showRef }
