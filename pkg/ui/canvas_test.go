package ui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func plainLines(c *Canvas) []string {
	return strings.Split(c.RenderPlain(), "\n")
}

func countDots(c *Canvas) int {
	n := 0
	for _, r := range c.RenderPlain() {
		if r >= 0x2800 && r <= 0x28FF {
			n++
		}
	}
	return n
}

func TestCanvasDimensions(t *testing.T) {
	c := NewCanvas(20, 8)
	w, h := c.Size()
	if w != 20 || h != 8 {
		t.Errorf("Size() = (%d, %d), want (20, 8)", w, h)
	}

	lines := plainLines(c)
	if len(lines) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if utf8.RuneCountInString(l) != 20 {
			t.Errorf("row %d has %d cells, want 20", i, utf8.RuneCountInString(l))
		}
	}
}

func TestCanvasPoint(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetBounds(0, 10, 0, 10)

	c.Point(5, 5, 0)
	if countDots(c) != 1 {
		t.Errorf("expected exactly 1 marked cell, got %d", countDots(c))
	}

	// Out-of-bounds points are dropped.
	c.Clear()
	c.Point(-1, 5, 0)
	c.Point(11, 5, 0)
	c.Point(5, -1, 0)
	if countDots(c) != 0 {
		t.Errorf("out-of-bounds points should be ignored, got %d cells", countDots(c))
	}
}

func TestCanvasLineEndpoints(t *testing.T) {
	c := NewCanvas(20, 10)
	c.SetBounds(0, 10, 0, 10)
	c.Line(0, 0, 10, 10, 0)

	lines := plainLines(c)
	// y grows upward, so (0,0) is bottom-left and (10,10) top-right.
	bottom := lines[len(lines)-1]
	top := lines[0]
	if strings.TrimSpace(bottom) == "" {
		t.Error("bottom row should contain the line start")
	}
	if strings.TrimSpace(top) == "" {
		t.Error("top row should contain the line end")
	}
	firstCell, _ := utf8.DecodeRuneInString(bottom)
	if firstCell == ' ' {
		t.Error("bottom-left cell should be marked for a diagonal from the origin")
	}
}

func TestCanvasPolyline(t *testing.T) {
	c := NewCanvas(20, 10)
	c.SetBounds(0, 3, 0, 3)
	c.Polyline([]float64{0, 1, 2, 3}, []float64{0, 3, 0, 3}, 0)
	if countDots(c) == 0 {
		t.Error("polyline should mark cells")
	}

	// Mismatched input is a no-op; a single point draws one dot.
	c.Clear()
	c.Polyline([]float64{1, 2}, []float64{1}, 0)
	if countDots(c) != 0 {
		t.Errorf("mismatched polyline should draw nothing, got %d cells", countDots(c))
	}
	c.Polyline([]float64{1}, []float64{1}, 0)
	if countDots(c) != 1 {
		t.Errorf("single-point polyline should draw one cell, got %d", countDots(c))
	}
}

func TestCanvasCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.SetBounds(-2, 2, -2, 2)
	c.Circle(0, 0, 1, 1, 0)

	if countDots(c) < 4 {
		t.Errorf("circle should mark several cells, got %d", countDots(c))
	}
	// Center stays empty.
	lines := plainLines(c)
	midRow := lines[len(lines)/2]
	midCell := []rune(midRow)[10]
	if midCell != ' ' {
		t.Errorf("circle center should be empty, got %q", midCell)
	}
}

func TestCanvasDegenerateBounds(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetBounds(3, 3, 7, 7)
	// Must not divide by zero; the point lands somewhere on the canvas.
	c.Point(3, 7, 0)
	if countDots(c) != 1 {
		t.Errorf("point at degenerate bounds should still render, got %d", countDots(c))
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetBounds(0, 1, 0, 1)
	c.Line(0, 0, 1, 1, 0)
	c.Clear()
	if countDots(c) != 0 {
		t.Errorf("Clear should remove all dots, got %d", countDots(c))
	}
}

func TestCanvasRenderStyled(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetBounds(0, 1, 0, 1)
	c.Line(0, 0, 1, 1, 0)
	c.Line(0, 1, 1, 0, 1)

	out := c.Render(TestTheme())
	if out == "" {
		t.Fatal("styled render should not be empty")
	}
	if len(strings.Split(out, "\n")) != 5 {
		t.Errorf("styled render should have 5 rows")
	}
}

func TestBarChart(t *testing.T) {
	theme := TestTheme()
	out := BarChart(theme, []int{1, 2, 3, 4}, 8, 4, nil)
	rows := strings.Split(out, "\n")
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if !strings.Contains(out, "█") {
		t.Error("tallest bar should fill whole cells")
	}

	// Highlighted indices still render.
	out = BarChart(theme, []int{4, 1, 2}, 6, 3, map[int]bool{0: true, 2: true})
	if !strings.Contains(out, "█") {
		t.Error("highlighted chart should still contain bars")
	}
}

func TestBarChartEmpty(t *testing.T) {
	if out := BarChart(TestTheme(), nil, 10, 4, nil); out != "" {
		t.Errorf("empty values should render nothing, got %q", out)
	}
	if out := BarChart(TestTheme(), []int{1, 2}, 0, 4, nil); out != "" {
		t.Errorf("zero width should render nothing, got %q", out)
	}
}

func TestBarChartUniformValues(t *testing.T) {
	out := BarChart(TestTheme(), []int{3, 3, 3}, 6, 3, nil)
	// All bars reach the top row.
	topRow := strings.Split(out, "\n")[0]
	if !strings.Contains(topRow, "█") {
		t.Error("uniform values should all reach the top")
	}
}
