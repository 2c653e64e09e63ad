// Package sim defines the shared vocabulary for interactive simulations:
// bounded numeric parameters (the slider model), named toggles, the
// Simulation interface every subject package implements, and the animation
// clock that drives frame advancement from UI ticks.
package sim

import "fmt"

// Param is a bounded numeric control. The UI renders it as a slider; the
// simulation reads Value every frame. Setters clamp, so a Param can never
// hold an out-of-range value.
type Param struct {
	Name string
	Unit string
	Min  float64
	Max  float64
	Step float64

	value float64
}

// NewParam creates a parameter clamped to [min, max] with the given
// initial value and adjustment step.
func NewParam(name, unit string, min, max, step, initial float64) *Param {
	p := &Param{Name: name, Unit: unit, Min: min, Max: max, Step: step}
	p.Set(initial)
	return p
}

// Value returns the current value.
func (p *Param) Value() float64 { return p.value }

// Set assigns v, clamped to [Min, Max].
func (p *Param) Set(v float64) {
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	p.value = v
}

// Inc raises the value by one step.
func (p *Param) Inc() { p.Set(p.value + p.Step) }

// Dec lowers the value by one step.
func (p *Param) Dec() { p.Set(p.value - p.Step) }

// Fraction returns the value's position in [0, 1] across the range, used
// for slider fill rendering.
func (p *Param) Fraction() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.value - p.Min) / (p.Max - p.Min)
}

// Label returns a display string like "Angle 45°" or "Speed 30 m/s".
func (p *Param) Label() string {
	if p.Unit == "" {
		return fmt.Sprintf("%s %.4g", p.Name, p.value)
	}
	return fmt.Sprintf("%s %.4g %s", p.Name, p.value, p.Unit)
}

// Toggle is a named boolean control.
type Toggle struct {
	Name string
	on   bool
}

// NewToggle creates a toggle with the given initial state.
func NewToggle(name string, on bool) *Toggle {
	return &Toggle{Name: name, on: on}
}

// On reports the toggle state.
func (t *Toggle) On() bool { return t.on }

// Flip inverts the toggle.
func (t *Toggle) Flip() { t.on = !t.on }

// Set assigns the toggle state.
func (t *Toggle) Set(on bool) { t.on = on }

// Simulation is an animated model driven by the UI tick loop. Advance is
// called with the (speed-scaled) elapsed seconds since the previous frame;
// Reset returns the model to its initial state for the current parameter
// values. Done reports whether the animation has run to completion (the UI
// stops ticking a done simulation until it is reset).
type Simulation interface {
	Title() string
	Params() []*Param
	Toggles() []*Toggle
	Reset()
	Advance(dt float64)
	Done() bool
}

// Clock converts UI ticks into simulation time. It owns play/pause state
// and a speed multiplier.
type Clock struct {
	playing bool
	speed   float64
	elapsed float64
}

// NewClock returns a paused clock at 1x speed.
func NewClock() *Clock {
	return &Clock{speed: 1}
}

// Playing reports whether the clock is running.
func (c *Clock) Playing() bool { return c.playing }

// TogglePlay flips between playing and paused.
func (c *Clock) TogglePlay() { c.playing = !c.playing }

// Pause stops the clock.
func (c *Clock) Pause() { c.playing = false }

// Play starts the clock.
func (c *Clock) Play() { c.playing = true }

// Speed returns the current multiplier.
func (c *Clock) Speed() float64 { return c.speed }

// SetSpeed sets the multiplier, clamped to [0.25, 8].
func (c *Clock) SetSpeed(s float64) {
	if s < 0.25 {
		s = 0.25
	}
	if s > 8 {
		s = 8
	}
	c.speed = s
}

// Elapsed returns accumulated simulation seconds since the last Rewind.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Rewind zeroes the accumulated time without changing play state.
func (c *Clock) Rewind() { c.elapsed = 0 }

// Tick scales the wall-clock delta by the speed multiplier and returns the
// simulation delta to advance by. Returns 0 while paused.
func (c *Clock) Tick(dt float64) float64 {
	if !c.playing || dt <= 0 {
		return 0
	}
	scaled := dt * c.speed
	c.elapsed += scaled
	return scaled
}
