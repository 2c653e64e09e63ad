// Package export renders lesson snapshots to image files and structured data.
//
// Snapshots are static plots of whatever a lesson is currently showing: a
// trajectory, a titration curve, supply and demand lines. PNG output goes
// through a raster context, SVG output is generated directly, and the series
// data itself can be exported as JSON or copied to the clipboard.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/floats"

	"github.com/vizlab/vizlab/pkg/metrics"
)

// Series is one named curve in a snapshot.
type Series struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path   string   // Output path; format inferred from extension when Format empty
	Format string   // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title  string   // Rendered in the header block
	Lesson string   // Lesson ID for provenance
	XLabel string   // Horizontal axis label
	YLabel string   // Vertical axis label
	Width  int      // Pixel width (default 800)
	Height int      // Pixel height (default 600)
	Series []Series // Curves to plot
}

// SaveSnapshot renders a static plot of the given series to SVG or PNG.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.ExportRender)()

	if len(opts.Series) == 0 {
		return fmt.Errorf("no series to export")
	}
	for _, s := range opts.Series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("series %q has %d x values but %d y values", s.Name, len(s.X), len(s.Y))
		}
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildPlotLayout(opts)

	switch format {
	case "svg":
		return renderSVG(opts, layout)
	case "png":
		return renderPNG(opts, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

type plotLayout struct {
	Width, Height  int
	Left, Right    float64 // plot area bounds in pixels
	Top, Bottom    float64
	XMin, XMax     float64 // data bounds
	YMin, YMax     float64
	XTicks, YTicks []float64
	Header         float64
	Title          string
	Lesson         string
	XLabel, YLabel string
}

func buildPlotLayout(opts SnapshotOptions) plotLayout {
	const (
		padding      = 24.0
		headerHeight = 56.0
		axisGutter   = 56.0
		legendGutter = 24.0
	)

	width := opts.Width
	if width <= 0 {
		width = 800
	}
	height := opts.Height
	if height <= 0 {
		height = 600
	}

	var xs, ys []float64
	for _, s := range opts.Series {
		xs = append(xs, s.X...)
		ys = append(ys, s.Y...)
	}

	xMin, xMax := floats.Min(xs), floats.Max(xs)
	yMin, yMax := floats.Min(ys), floats.Max(ys)

	// Degenerate ranges still need a visible span.
	if xMax == xMin {
		xMax = xMin + 1
	}
	if yMax == yMin {
		yMax = yMin + 1
	}
	// Pad the y range a little so curves don't touch the frame.
	ySpan := yMax - yMin
	yMin -= ySpan * 0.05
	yMax += ySpan * 0.05

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Snapshot"
	}

	return plotLayout{
		Width:  width,
		Height: height,
		Left:   padding + axisGutter,
		Right:  float64(width) - padding - legendGutter,
		Top:    padding + headerHeight,
		Bottom: float64(height) - padding - axisGutter,
		XMin:   xMin, XMax: xMax,
		YMin: yMin, YMax: yMax,
		XTicks: ticks(xMin, xMax, 6),
		YTicks: ticks(yMin, yMax, 5),
		Header: headerHeight,
		Title:  title,
		Lesson: opts.Lesson,
		XLabel: opts.XLabel,
		YLabel: opts.YLabel,
	}
}

// ticks returns up to n evenly spaced tick values spanning [min, max].
func ticks(min, max float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	step := (max - min) / float64(n-1)
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, min+step*float64(i))
	}
	return out
}

// pixel maps a data point into plot-area pixel coordinates.
func (l plotLayout) pixel(x, y float64) (float64, float64) {
	px := l.Left + (x-l.XMin)/(l.XMax-l.XMin)*(l.Right-l.Left)
	py := l.Bottom - (y-l.YMin)/(l.YMax-l.YMin)*(l.Bottom-l.Top)
	return px, py
}

// --- rendering -------------------------------------------------------------

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorFrame    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorGrid     = color.RGBA{0xdd, 0xe1, 0xe6, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}

	seriesPalette = []color.RGBA{
		{0x1f, 0x77, 0xb4, 0xff}, // blue
		{0xd6, 0x27, 0x28, 0xff}, // red
		{0x2c, 0xa0, 0x2c, 0xff}, // green
		{0xff, 0x7f, 0x0e, 0xff}, // orange
		{0x94, 0x67, 0xbd, 0xff}, // purple
	}
)

func seriesColor(i int) color.RGBA {
	return seriesPalette[i%len(seriesPalette)]
}

func renderPNG(opts SnapshotOptions, layout plotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetFontFace(basicfont.Face7x13)

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(12, 12, float64(layout.Width)-24, layout.Header-12, 8)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, 28, 32, 0, 0.5)
	if layout.Lesson != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(fmt.Sprintf("lesson: %s", layout.Lesson), 28, 48, 0, 0.5)
	}

	// grid and ticks
	dc.SetLineWidth(1)
	for _, tx := range layout.XTicks {
		px, _ := layout.pixel(tx, layout.YMin)
		dc.SetColor(colorGrid)
		dc.DrawLine(px, layout.Top, px, layout.Bottom)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(formatTick(tx), px, layout.Bottom+14, 0.5, 0.5)
	}
	for _, ty := range layout.YTicks {
		_, py := layout.pixel(layout.XMin, ty)
		dc.SetColor(colorGrid)
		dc.DrawLine(layout.Left, py, layout.Right, py)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(formatTick(ty), layout.Left-8, py, 1, 0.5)
	}

	// frame
	dc.SetColor(colorFrame)
	dc.SetLineWidth(1.2)
	dc.DrawRectangle(layout.Left, layout.Top, layout.Right-layout.Left, layout.Bottom-layout.Top)
	dc.Stroke()

	// axis labels
	dc.SetColor(colorText)
	if layout.XLabel != "" {
		dc.DrawStringAnchored(layout.XLabel, (layout.Left+layout.Right)/2, layout.Bottom+32, 0.5, 0.5)
	}
	if layout.YLabel != "" {
		dc.DrawStringAnchored(layout.YLabel, layout.Left, layout.Top-10, 0.5, 0.5)
	}

	// series
	for i, s := range opts.Series {
		if len(s.X) == 0 {
			continue
		}
		dc.SetColor(seriesColor(i))
		dc.SetLineWidth(2)
		px, py := layout.pixel(s.X[0], s.Y[0])
		dc.MoveTo(px, py)
		for j := 1; j < len(s.X); j++ {
			px, py = layout.pixel(s.X[j], s.Y[j])
			dc.LineTo(px, py)
		}
		dc.Stroke()
	}

	drawLegendPNG(dc, opts, layout)

	return dc.SavePNG(opts.Path)
}

func drawLegendPNG(dc *gg.Context, opts SnapshotOptions, layout plotLayout) {
	x := layout.Right - 160
	y := layout.Top + 12
	for i, s := range opts.Series {
		dc.SetColor(seriesColor(i))
		dc.DrawRectangle(x, y-5, 14, 10)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(truncate(s.Name, 20), x+20, y, 0, 0.5)
		y += 16
	}
}

func renderSVG(opts SnapshotOptions, layout plotLayout) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, opts, layout)
}

func renderSVGToWriter(w io.Writer, opts SnapshotOptions, layout plotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(12, 12, layout.Width-24, int(layout.Header-12), 8, 8, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(28, 34, layout.Title, fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorText)))
	if layout.Lesson != "" {
		canvas.Text(28, 50, fmt.Sprintf("lesson: %s", layout.Lesson), fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}

	// grid and ticks
	for _, tx := range layout.XTicks {
		px, _ := layout.pixel(tx, layout.YMin)
		canvas.Line(int(px), int(layout.Top), int(px), int(layout.Bottom), fmt.Sprintf("stroke:%s;stroke-width:1", css(colorGrid)))
		canvas.Text(int(px), int(layout.Bottom)+16, formatTick(tx),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}
	for _, ty := range layout.YTicks {
		_, py := layout.pixel(layout.XMin, ty)
		canvas.Line(int(layout.Left), int(py), int(layout.Right), int(py), fmt.Sprintf("stroke:%s;stroke-width:1", css(colorGrid)))
		canvas.Text(int(layout.Left)-8, int(py)+4, formatTick(ty),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:end", css(colorSubtle)))
	}

	// frame
	canvas.Rect(int(layout.Left), int(layout.Top), int(layout.Right-layout.Left), int(layout.Bottom-layout.Top),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.2", css(colorFrame)))

	// axis labels
	if layout.XLabel != "" {
		canvas.Text(int((layout.Left+layout.Right)/2), int(layout.Bottom)+34, layout.XLabel,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", css(colorText)))
	}
	if layout.YLabel != "" {
		canvas.Text(int(layout.Left), int(layout.Top)-10, layout.YLabel,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", css(colorText)))
	}

	// series
	for i, s := range opts.Series {
		if len(s.X) == 0 {
			continue
		}
		xs := make([]int, len(s.X))
		ys := make([]int, len(s.Y))
		for j := range s.X {
			px, py := layout.pixel(s.X[j], s.Y[j])
			xs[j] = int(math.Round(px))
			ys[j] = int(math.Round(py))
		}
		canvas.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(seriesColor(i))))
	}

	// legend
	x := int(layout.Right) - 160
	y := int(layout.Top) + 12
	for i, s := range opts.Series {
		canvas.Rect(x, y-5, 14, 10, fmt.Sprintf("fill:%s", css(seriesColor(i))))
		canvas.Text(x+20, y+4, truncate(s.Name, 20),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
		y += 16
	}

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1000 || (av < 0.01 && av > 0):
		return fmt.Sprintf("%.2g", v)
	case av >= 10:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
