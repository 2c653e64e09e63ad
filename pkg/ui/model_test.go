package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vizlab/vizlab/internal/store"
	"github.com/vizlab/vizlab/pkg/catalog"
	"github.com/vizlab/vizlab/pkg/config"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cat, err := catalog.New(catalog.BuiltIn())
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return NewModel(config.DefaultConfig(), cat, nil, nil)
}

func pressKey(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	res, _ := m.Update(msg)
	next, ok := res.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", res)
	}
	return next
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelCatalogView(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "VizLab") {
		t.Error("catalog view should contain the app title")
	}
	if !strings.Contains(view, "Projectile Motion") {
		t.Error("catalog view should list the built-in lessons")
	}
	if !strings.Contains(view, "enter") {
		t.Error("catalog view should show key hints")
	}
}

func TestModelFreshOverlayClosed(t *testing.T) {
	// A model that never opened a lesson still carries a usable overlay;
	// the first View asks it IsOpen before any message arrives.
	m := newTestModel(t)
	if m.demo.IsOpen() {
		t.Fatal("overlay should start closed")
	}
	if strings.TrimSpace(m.View()) == "" {
		t.Fatal("fresh model should render the catalog")
	}
}

func TestModelInit(t *testing.T) {
	m := newTestModel(t)
	if cmd := m.Init(); cmd == nil {
		t.Error("Init should schedule the tick loop")
	}
}

func TestModelWindowSize(t *testing.T) {
	m := newTestModel(t)
	m = pressKey(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})
	if m.width != 140 || m.height != 50 {
		t.Errorf("size = %dx%d, want 140x50", m.width, m.height)
	}
}

func TestModelOpenLessonByID(t *testing.T) {
	m := newTestModel(t)

	if err := m.OpenLessonByID("econ-market"); err != nil {
		t.Fatalf("OpenLessonByID: %v", err)
	}
	if m.view != viewLesson {
		t.Error("model should be in the lesson view")
	}
	view := m.View()
	if !strings.Contains(view, "Supply & Demand") {
		t.Error("lesson view should contain the simulation title")
	}
	if !strings.Contains(view, "equilibrium") {
		t.Error("lesson view should contain the status readout")
	}

	if err := m.OpenLessonByID("nope"); err == nil {
		t.Error("expected error for unknown lesson")
	}
}

func TestModelEnterOpensLesson(t *testing.T) {
	m := newTestModel(t)
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewLesson {
		t.Fatal("enter should open the selected lesson")
	}
	if m.page == nil {
		t.Fatal("opened lesson should have a page")
	}
	if !m.clock.Playing() {
		t.Error("opened lesson should start playing")
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewCatalog {
		t.Error("esc should return to the catalog")
	}
}

func TestModelFavoriteKeyOpensLesson(t *testing.T) {
	cat, err := catalog.New(catalog.BuiltIn())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.SetFavorite(2, "bio-mitosis")
	m := NewModel(cfg, cat, nil, nil)

	m = pressKey(t, m, runeKey("2"))
	if m.view != viewLesson {
		t.Fatal("favorite key should open the lesson")
	}
	if m.page.Lesson.ID != "bio-mitosis" {
		t.Errorf("opened %s, want bio-mitosis", m.page.Lesson.ID)
	}

	// Unassigned slots do nothing.
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = pressKey(t, m, runeKey("7"))
	if m.view != viewCatalog {
		t.Error("unassigned favorite should stay on the catalog")
	}
}

func TestModelLessonPlaybackKeys(t *testing.T) {
	m := newTestModel(t)
	if err := m.OpenLessonByID("physics-projectile"); err != nil {
		t.Fatal(err)
	}

	m = pressKey(t, m, runeKey(" "))
	if m.clock.Playing() {
		t.Error("space should pause")
	}
	m = pressKey(t, m, runeKey(" "))
	if !m.clock.Playing() {
		t.Error("space should resume")
	}

	m = pressKey(t, m, runeKey("+"))
	if m.clock.Speed() != 2 {
		t.Errorf("speed = %v after +, want 2", m.clock.Speed())
	}
	m = pressKey(t, m, runeKey("-"))
	m = pressKey(t, m, runeKey("-"))
	if m.clock.Speed() != 0.5 {
		t.Errorf("speed = %v after two -, want 0.5", m.clock.Speed())
	}
}

func TestModelControlKeys(t *testing.T) {
	m := newTestModel(t)
	if err := m.OpenLessonByID("physics-projectile"); err != nil {
		t.Fatal(err)
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.controls.Selected() != 1 {
		t.Errorf("tab should select the next control, got %d", m.controls.Selected())
	}
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.controls.Selected() != 0 {
		t.Errorf("shift+tab should select the previous control, got %d", m.controls.Selected())
	}

	before := m.page.Sim.Params()[0].Value()
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.page.Sim.Params()[0].Value(); got <= before {
		t.Errorf("right arrow should increase the selected param, %v -> %v", before, got)
	}
}

func TestModelTick(t *testing.T) {
	m := newTestModel(t)
	if err := m.OpenLessonByID("physics-projectile"); err != nil {
		t.Fatal(err)
	}

	// A second of ticks reveals part of the trajectory.
	for i := 0; i < 30; i++ {
		res, cmd := m.Update(tickMsg(time.Now()))
		m = res.(Model)
		if cmd == nil {
			t.Fatal("tick should reschedule itself")
		}
	}
	if m.page.Sim.Done() {
		t.Error("one second should not finish the flight")
	}
	if strings.TrimSpace(m.page.Draw(m.theme, 60, 16)) == "" {
		t.Error("ticked page should still draw")
	}
}

func TestModelDemoOverlay(t *testing.T) {
	m := newTestModel(t)
	if err := m.OpenLessonByID("chem-titration"); err != nil {
		t.Fatal(err)
	}

	m = pressKey(t, m, runeKey("d"))
	if !m.demo.IsOpen() {
		t.Fatal("'d' should open the walkthrough")
	}
	if !strings.Contains(m.View(), "Guided Walkthrough") {
		t.Error("overlay should replace the lesson view")
	}

	// Keys route to the overlay while it is open.
	m = pressKey(t, m, runeKey("n"))
	if m.demo.Stepper().Current() != 1 {
		t.Errorf("overlay should consume 'n', step = %d", m.demo.Stepper().Current())
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.demo.IsOpen() {
		t.Error("esc should close the overlay")
	}
	if m.view != viewLesson {
		t.Error("closing the overlay should stay on the lesson")
	}
}

func TestModelMarkCompleted(t *testing.T) {
	cat, err := catalog.New(catalog.BuiltIn())
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	m := NewModel(config.DefaultConfig(), cat, st, nil)
	if err := m.OpenLessonByID("cs-sorting"); err != nil {
		t.Fatal(err)
	}
	m = pressKey(t, m, runeKey("x"))

	done, err := st.CompletedLessons()
	if err != nil {
		t.Fatal(err)
	}
	if !done["cs-sorting"] {
		t.Error("'x' should record completion in the store")
	}

	p, err := st.Progress("cs-sorting")
	if err != nil {
		t.Fatal(err)
	}
	if p.Visits != 1 {
		t.Errorf("opening the lesson should record one visit, got %d", p.Visits)
	}
}

func TestModelDemoStepsRecorded(t *testing.T) {
	cat, err := catalog.New(catalog.BuiltIn())
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	m := NewModel(config.DefaultConfig(), cat, st, nil)
	if err := m.OpenLessonByID("bio-mitosis"); err != nil {
		t.Fatal(err)
	}
	m = pressKey(t, m, runeKey("d"))
	m = pressKey(t, m, runeKey("n"))
	m = pressKey(t, m, runeKey("n"))

	steps, err := st.StepsDone("bio-mitosis")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 {
		t.Errorf("expected steps 0,1,2 recorded, got %v", steps)
	}
}

func TestModelSnapshotKey(t *testing.T) {
	cat, err := catalog.New(catalog.BuiltIn())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Export.Dir = t.TempDir()
	m := NewModel(cfg, cat, nil, nil)
	if err := m.OpenLessonByID("econ-market"); err != nil {
		t.Fatal(err)
	}

	m = pressKey(t, m, runeKey("e"))
	if m.statusIsError {
		t.Fatalf("snapshot failed: %s", m.statusMsg)
	}
	if !strings.Contains(m.statusMsg, "saved") {
		t.Errorf("status = %q, want a saved path", m.statusMsg)
	}

	entries, err := os.ReadDir(cfg.Export.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".svg") {
		t.Errorf("expected one svg in the export dir, got %v", entries)
	}
}

func TestModelLessonReload(t *testing.T) {
	dir := t.TempDir()
	lessonsPath := filepath.Join(dir, "lessons.yaml")
	cat, err := catalog.New(catalog.BuiltIn())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.LessonsPath = lessonsPath

	m := NewModel(cfg, cat, nil, nil)
	before := m.catalog.Len()

	doc := `lessons:
  - id: extra-lesson
    title: Extra Lesson
    subject: physics
    summary: Added at runtime.
`
	if err := os.WriteFile(lessonsPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	m = pressKey(t, m, FileChangedMsg{})

	if m.catalog.Len() != before+1 {
		t.Errorf("catalog should grow after reload, %d -> %d", before, m.catalog.Len())
	}
	if m.statusMsg != "lessons reloaded" {
		t.Errorf("status = %q, want reload confirmation", m.statusMsg)
	}
}

func TestModelConfigReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := config.ConfigPath()

	m := newTestModel(t)

	doc := "ui:\n  frames_per_sec: 60\nfavorites:\n  3: cs-sorting\n"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	m = pressKey(t, m, FileChangedMsg{Path: path})

	if m.cfg.UI.FramesPerSec != 60 {
		t.Errorf("frames_per_sec = %d after reload, want 60", m.cfg.UI.FramesPerSec)
	}
	if m.cfg.FavoriteLesson(3) != "cs-sorting" {
		t.Errorf("favorite 3 = %q after reload, want cs-sorting", m.cfg.FavoriteLesson(3))
	}
	if m.statusMsg != "config reloaded" {
		t.Errorf("status = %q, want reload confirmation", m.statusMsg)
	}
}

func TestModelStatusLine(t *testing.T) {
	m := newTestModel(t)
	m.setStatus("something broke", true)
	if !strings.Contains(m.View(), "something broke") {
		t.Error("status message should appear in the view")
	}
}
