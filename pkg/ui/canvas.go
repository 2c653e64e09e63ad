package ui

import (
	"math"
	"strings"
)

// Canvas plots curves into a grid of braille cells. Each terminal cell holds
// a 2x4 dot matrix, so a canvas of W x H cells has 2W x 4H addressable dots.
// Dots carry a series index; rendering colors each cell by the last series
// that touched it.
type Canvas struct {
	cellsW, cellsH int
	dots           []uint8 // braille bit pattern per cell
	series         []int8  // -1 = untouched
	xMin, xMax     float64
	yMin, yMax     float64
}

// Braille dot bit layout per Unicode: dots 1-8 map to offsets within the
// 2x4 cell grid. Index [dy][dx].
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// NewCanvas creates a canvas of the given size in terminal cells.
func NewCanvas(cellsW, cellsH int) *Canvas {
	if cellsW < 1 {
		cellsW = 1
	}
	if cellsH < 1 {
		cellsH = 1
	}
	c := &Canvas{
		cellsW: cellsW,
		cellsH: cellsH,
		dots:   make([]uint8, cellsW*cellsH),
		series: make([]int8, cellsW*cellsH),
	}
	c.Clear()
	c.SetBounds(0, 1, 0, 1)
	return c
}

// Size returns the canvas size in terminal cells.
func (c *Canvas) Size() (w, h int) {
	return c.cellsW, c.cellsH
}

// Clear removes all dots.
func (c *Canvas) Clear() {
	for i := range c.dots {
		c.dots[i] = 0
		c.series[i] = -1
	}
}

// SetBounds sets the data coordinate range mapped onto the canvas.
// Degenerate ranges are widened so mapping stays finite.
func (c *Canvas) SetBounds(xMin, xMax, yMin, yMax float64) {
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if yMax <= yMin {
		yMax = yMin + 1
	}
	c.xMin, c.xMax = xMin, xMax
	c.yMin, c.yMax = yMin, yMax
}

// dot sets the dot at pixel coordinates (px down-positive handled by caller).
func (c *Canvas) dot(dx, dy, series int) {
	if dx < 0 || dy < 0 || dx >= c.cellsW*2 || dy >= c.cellsH*4 {
		return
	}
	cell := (dy/4)*c.cellsW + dx/2
	c.dots[cell] |= brailleBits[dy%4][dx%2]
	c.series[cell] = int8(series % 128)
}

// pixelOf maps a data point to dot coordinates. ok is false when the point
// is outside the bounds.
func (c *Canvas) pixelOf(x, y float64) (dx, dy int, ok bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	fx := (x - c.xMin) / (c.xMax - c.xMin)
	fy := (y - c.yMin) / (c.yMax - c.yMin)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	maxX := float64(c.cellsW*2 - 1)
	maxY := float64(c.cellsH*4 - 1)
	dx = int(math.Round(fx * maxX))
	dy = int(math.Round((1 - fy) * maxY)) // y grows upward in data space
	return dx, dy, true
}

// Point plots a single data point for the given series.
func (c *Canvas) Point(x, y float64, series int) {
	if dx, dy, ok := c.pixelOf(x, y); ok {
		c.dot(dx, dy, series)
	}
}

// Line draws a straight segment between two data points.
func (c *Canvas) Line(x0, y0, x1, y1 float64, series int) {
	// Sample densely enough that consecutive dots touch.
	steps := c.cellsW*2 + c.cellsH*4
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.Point(x0+(x1-x0)*t, y0+(y1-y0)*t, series)
	}
}

// Polyline plots a series of connected data points.
func (c *Canvas) Polyline(xs, ys []float64, series int) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return
	}
	if len(xs) == 1 {
		c.Point(xs[0], ys[0], series)
		return
	}
	for i := 1; i < len(xs); i++ {
		c.Line(xs[i-1], ys[i-1], xs[i], ys[i], series)
	}
}

// Circle plots a circle outline centered at a data point. rx and ry are
// radii in data units.
func (c *Canvas) Circle(cx, cy, rx, ry float64, series int) {
	const segments = 64
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		c.Point(cx+rx*math.Cos(a), cy+ry*math.Sin(a), series)
	}
}

// Render produces the braille rows. Each cell with no dots renders as a
// space; colored output is applied per cell via the theme.
func (c *Canvas) Render(theme Theme) string {
	var b strings.Builder
	for row := 0; row < c.cellsH; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		runSeries := int8(-1)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runSeries < 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(theme.SeriesStyle(int(runSeries)).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < c.cellsW; col++ {
			idx := row*c.cellsW + col
			bits := c.dots[idx]
			var r rune
			var s int8
			if bits == 0 {
				r = ' '
				s = -1
			} else {
				r = rune(0x2800 + int(bits))
				s = c.series[idx]
			}
			if s != runSeries {
				flush()
				runSeries = s
			}
			run.WriteRune(r)
		}
		flush()
	}
	return b.String()
}

// RenderPlain produces the braille rows with no styling, for tests and
// monochrome output.
func (c *Canvas) RenderPlain() string {
	var b strings.Builder
	for row := 0; row < c.cellsH; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cellsW; col++ {
			bits := c.dots[row*c.cellsW+col]
			if bits == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteRune(rune(0x2800 + int(bits)))
			}
		}
	}
	return b.String()
}

// barGlyphs are eighth-block characters for partial bar tops.
var barGlyphs = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// BarChart renders integer values as a vertical bar chart of the given size
// in terminal cells. Bars are spread across the width; highlight indices are
// styled with the warn color, the rest with the good color.
func BarChart(theme Theme, values []int, width, height int, highlight map[int]bool) string {
	if len(values) == 0 || width < 1 || height < 1 {
		return ""
	}

	maxVal := 0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Each bar occupies barW columns, at least 1.
	barW := width / len(values)
	if barW < 1 {
		barW = 1
	}

	rows := make([][]string, height)
	for r := range rows {
		rows[r] = make([]string, 0, len(values))
	}

	for i, v := range values {
		// Height of this bar in eighths of a cell.
		eighths := v * height * 8 / maxVal
		style := theme.GoodText
		if highlight[i] {
			style = theme.WarnText
		}
		for r := 0; r < height; r++ {
			// Row 0 is the top of the chart.
			cellBottom := (height - 1 - r) * 8
			fill := eighths - cellBottom
			if fill < 0 {
				fill = 0
			}
			if fill > 8 {
				fill = 8
			}
			glyph := strings.Repeat(string(barGlyphs[fill]), barW)
			if fill > 0 {
				glyph = style.Render(glyph)
			}
			rows[r] = append(rows[r], glyph)
		}
	}

	lines := make([]string, height)
	for r := range rows {
		lines[r] = strings.Join(rows[r], "")
	}
	return strings.Join(lines, "\n")
}
