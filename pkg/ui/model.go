package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vizlab/vizlab/internal/store"
	"github.com/vizlab/vizlab/pkg/catalog"
	"github.com/vizlab/vizlab/pkg/config"
	"github.com/vizlab/vizlab/pkg/debug"
	"github.com/vizlab/vizlab/pkg/export"
	"github.com/vizlab/vizlab/pkg/metrics"
	"github.com/vizlab/vizlab/pkg/sim"
	"github.com/vizlab/vizlab/pkg/watcher"
)

type viewState int

const (
	viewCatalog viewState = iota
	viewLesson
)

// tickMsg drives the simulation clock at the configured frame rate.
type tickMsg time.Time

func tickCmd(framesPerSec int) tea.Cmd {
	if framesPerSec <= 0 {
		framesPerSec = 30
	}
	return tea.Tick(time.Second/time.Duration(framesPerSec), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// FileChangedMsg is sent when a watched file changes on disk. Path names
// the file; an empty Path is treated as a lessons change.
type FileChangedMsg struct {
	Path string
}

// WatchFilesCmd waits for the next file-change notification.
func WatchFilesCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		ev := <-w.Events()
		return FileChangedMsg{Path: ev.Path}
	}
}

// lessonItem adapts a catalog lesson for bubbles/list.
type lessonItem struct {
	lesson    catalog.Lesson
	completed bool
	locked    bool
	favorite  int
}

func (i lessonItem) FilterValue() string {
	return i.lesson.Title + " " + string(i.lesson.Subject)
}

// catalogDelegate renders two-line lesson rows with subject icons.
type catalogDelegate struct {
	theme Theme
}

func (d catalogDelegate) Height() int                         { return 2 }
func (d catalogDelegate) Spacing() int                        { return 1 }
func (d catalogDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d catalogDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(lessonItem)
	if !ok {
		return
	}
	r := d.theme.Renderer

	icon, color := d.theme.GetSubjectIcon(it.lesson.Subject)
	title := it.lesson.Title
	switch {
	case it.completed:
		title += " ✓"
	case it.locked:
		title += " (locked)"
	}
	if it.favorite > 0 {
		title = fmt.Sprintf("%s [%d]", title, it.favorite)
	}

	titleStyle := r.NewStyle().Foreground(color).Bold(true)
	summaryStyle := d.theme.SubtextStyle
	prefix := "  "
	if index == m.Index() {
		prefix = r.NewStyle().Foreground(d.theme.Highlight).Render("▸ ")
		titleStyle = titleStyle.Underline(true)
	}
	if it.locked {
		titleStyle = d.theme.MutedText
		summaryStyle = d.theme.MutedText
	}

	summary := it.lesson.Summary
	if it.locked && len(it.lesson.Prereqs) > 0 {
		summary = "complete " + strings.Join(it.lesson.Prereqs, ", ") + " first"
	}

	fmt.Fprintf(w, "%s%s %s\n%s", prefix, icon, titleStyle.Render(title),
		"    "+summaryStyle.Render(summary))
}

// Model is the root TUI model: a lesson catalog that opens into
// interactive lesson views with an optional walkthrough overlay.
type Model struct {
	cfg     config.Config
	theme   Theme
	catalog *catalog.Catalog
	store   *store.Store     // nil disables progress tracking
	watcher *watcher.Watcher // nil disables live lesson reload

	view     viewState
	list     list.Model
	page     *Page
	demo     DemoModel
	controls Controls
	clock    *sim.Clock

	width  int
	height int

	statusMsg     string
	statusIsError bool
	completed     map[string]bool
}

// NewModel builds the root model. store and w may be nil.
func NewModel(cfg config.Config, cat *catalog.Catalog, st *store.Store, w *watcher.Watcher) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	m := Model{
		cfg:     cfg,
		theme:   theme,
		catalog: cat,
		store:   st,
		watcher: w,
		// Sane defaults so the first frame renders before WindowSizeMsg.
		width:     100,
		height:    32,
		completed: map[string]bool{},
	}
	// A closed empty overlay, so View can ask IsOpen before any lesson opens.
	m.demo = NewDemoModel(theme, nil)
	m.demo.SetSize(m.width, m.height)
	m.refreshCompleted()

	l := list.New(m.buildItems(), catalogDelegate{theme: theme}, m.width, m.height-4)
	l.Title = "VizLab"
	l.Styles.Title = theme.Header
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	m.list = l
	return m
}

func (m *Model) refreshCompleted() {
	if m.store == nil {
		return
	}
	done, err := m.store.CompletedLessons()
	if err != nil {
		debug.Log("completed lessons query failed: %v", err)
		return
	}
	m.completed = done
}

func (m Model) buildItems() []list.Item {
	lessons, err := m.catalog.Order()
	if err != nil {
		lessons = m.catalog.Lessons()
	}
	unlocked := map[string]bool{}
	for _, l := range m.catalog.Available(m.completed) {
		unlocked[l.ID] = true
	}
	items := make([]list.Item, 0, len(lessons))
	for _, l := range lessons {
		items = append(items, lessonItem{
			lesson:    l,
			completed: m.completed[l.ID],
			locked:    !unlocked[l.ID] && !m.completed[l.ID],
			favorite:  m.cfg.LessonFavoriteNumber(l.ID),
		})
	}
	return items
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.cfg.UI.FramesPerSec)}
	if m.watcher != nil {
		cmds = append(cmds, WatchFilesCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height-4)
		m.demo.SetSize(m.width, m.height)
		return m, nil

	case FileChangedMsg:
		if p := config.ConfigPath(); p != "" && msg.Path == p {
			m.reloadConfig()
		} else {
			m.reloadLessons()
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFilesCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case tickMsg:
		if m.view == viewLesson && m.page != nil && m.clock.Playing() {
			dt := m.clock.Tick(1.0 / float64(max(m.cfg.UI.FramesPerSec, 1)))
			func() {
				defer metrics.Timer(metrics.SimAdvance)()
				m.page.Sim.Advance(dt)
			}()
		}
		return m, tickCmd(m.cfg.UI.FramesPerSec)

	case tea.KeyMsg:
		// The overlay owns the keyboard while it is open.
		if m.demo.IsOpen() {
			var cmd tea.Cmd
			m.demo, cmd = m.demo.Update(msg)
			if m.demo.ShouldClose() {
				m.demo.ResetClose()
			}
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		if m.view == viewCatalog {
			return m.handleCatalogKeys(msg)
		}
		return m.handleLessonKeys(msg)
	}

	if m.view == viewCatalog {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit

	case "enter":
		if it, ok := m.list.SelectedItem().(lessonItem); ok {
			if it.locked {
				m.setStatus(fmt.Sprintf("%s is locked: finish its prerequisites first", it.lesson.Title), true)
				return m, nil
			}
			m.openLesson(it.lesson)
		}
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(key[0] - '0')
		if id := m.cfg.FavoriteLesson(n); id != "" {
			if lesson, ok := m.catalog.Get(id); ok {
				m.openLesson(lesson)
				return m, nil
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleLessonKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.closeLesson()
		return m, nil

	case " ":
		m.clock.TogglePlay()
		return m, nil

	case "+", "=":
		m.clock.SetSpeed(m.clock.Speed() * 2)
		return m, nil

	case "-", "_":
		m.clock.SetSpeed(m.clock.Speed() / 2)
		return m, nil

	case "tab", "down", "j":
		m.controls.Next(m.page.Sim)
		return m, nil

	case "shift+tab", "up", "k":
		m.controls.Prev(m.page.Sim)
		return m, nil

	case "right", "l":
		m.controls.Adjust(m.page.Sim, true)
		m.page.Sim.Reset()
		return m, nil

	case "left", "h":
		m.controls.Adjust(m.page.Sim, false)
		m.page.Sim.Reset()
		return m, nil

	case "r":
		m.page.Sim.Reset()
		m.clock.Rewind()
		m.clock.Play()
		return m, nil

	case "d":
		m.demo.Open()
		return m, nil

	case "x":
		m.markCompleted()
		return m, nil

	case "e":
		m.exportSnapshot()
		return m, nil

	case "c":
		m.copyDataToClipboard()
		return m, nil
	}
	return m, nil
}

// OpenLessonByID jumps straight into a lesson, skipping the catalog.
// Used by the --lesson flag and the default-lesson config setting.
func (m *Model) OpenLessonByID(id string) error {
	lesson, ok := m.catalog.Get(id)
	if !ok {
		return fmt.Errorf("unknown lesson %q", id)
	}
	m.openLesson(lesson)
	if m.page == nil {
		return fmt.Errorf("lesson %q has no visualization", id)
	}
	return nil
}

func (m *Model) openLesson(lesson catalog.Lesson) {
	page, err := NewPage(lesson)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.page = page
	m.view = viewLesson
	m.clock = sim.NewClock()
	m.clock.SetSpeed(m.cfg.UI.SpeedFactor)
	m.clock.Play()
	m.controls = NewControls(m.theme)
	m.demo = NewDemoModel(m.theme, page.Steps)
	m.demo.SetSize(m.width, m.height)
	m.setStatus("", false)

	if m.store != nil {
		if err := m.store.RecordVisit(lesson.ID); err != nil {
			debug.Log("recording visit for %s: %v", lesson.ID, err)
		}
		id := lesson.ID
		st := m.store
		m.demo.SetOnStepShown(func(step int) {
			if err := st.MarkStepDone(id, step); err != nil {
				debug.Log("marking step %d done for %s: %v", step, id, err)
			}
		})
	}
}

func (m *Model) closeLesson() {
	m.page = nil
	m.view = viewCatalog
	m.refreshCompleted()
	m.list.SetItems(m.buildItems())
	m.setStatus("", false)
}

func (m *Model) markCompleted() {
	if m.page == nil {
		return
	}
	id := m.page.Lesson.ID
	if m.store != nil {
		if err := m.store.MarkCompleted(id); err != nil {
			m.setStatus(fmt.Sprintf("saving progress: %v", err), true)
			return
		}
	}
	m.completed[id] = true
	m.setStatus(fmt.Sprintf("%s marked complete", m.page.Lesson.Title), false)
}

func (m *Model) exportSnapshot() {
	if m.page == nil {
		return
	}
	lesson := m.page.Lesson
	name := fmt.Sprintf("%s-%s.svg", lesson.ID, time.Now().Format("20060102-150405"))
	path := filepath.Join(m.cfg.Export.Dir, name)
	opts := export.SnapshotOptions{
		Path:   path,
		Format: "svg",
		Title:  m.page.Sim.Title(),
		Lesson: lesson.ID,
		XLabel: m.page.XLabel,
		YLabel: m.page.YLabel,
		Width:  m.cfg.Export.Width,
		Height: m.cfg.Export.Height,
		Series: m.page.Series(),
	}
	if err := export.SaveSnapshot(opts); err != nil {
		m.setStatus(fmt.Sprintf("snapshot failed: %v", err), true)
		return
	}
	if m.store != nil {
		if err := m.store.RecordExport(lesson.ID, path, "svg"); err != nil {
			debug.Log("recording export: %v", err)
		}
	}
	m.setStatus("saved "+path, false)
}

func (m *Model) copyDataToClipboard() {
	if m.page == nil {
		return
	}
	doc := export.NewSeriesDocument(export.SnapshotOptions{
		Title:  m.page.Sim.Title(),
		Lesson: m.page.Lesson.ID,
		Series: m.page.Series(),
	})
	if err := export.CopyJSON(doc); err != nil {
		m.setStatus(fmt.Sprintf("clipboard copy failed: %v", err), true)
		return
	}
	m.setStatus("plot data copied as JSON", false)
}

func (m *Model) reloadLessons() {
	path := m.cfg.ResolvedLessonsPath()
	cat, err := catalog.Load(path)
	if err != nil {
		m.setStatus(fmt.Sprintf("reloading lessons: %v", err), true)
		return
	}
	m.catalog = cat
	m.list.SetItems(m.buildItems())
	m.setStatus("lessons reloaded", false)
	debug.Log("lessons file %s reloaded, %d lessons", path, cat.Len())
}

// reloadConfig re-reads config.yaml while the TUI runs. A --lessons
// override survives the reload; frame rate and favorites apply from the
// next tick and list rebuild.
func (m *Model) reloadConfig() {
	cfg, err := config.Load()
	if err != nil {
		m.setStatus(fmt.Sprintf("reloading config: %v", err), true)
		return
	}
	cfg.LessonsPath = m.cfg.LessonsPath
	m.cfg = cfg
	m.list.SetItems(m.buildItems())
	m.setStatus("config reloaded", false)
	debug.Log("config file reloaded")
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m Model) View() string {
	defer metrics.Timer(metrics.FrameRender)()

	if m.demo.IsOpen() {
		return m.demo.CenterOverlay(m.width, m.height)
	}
	if m.view == viewLesson && m.page != nil {
		return m.lessonView()
	}
	return m.catalogView()
}

func (m Model) catalogView() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.footer(
		"↑/↓ select", "enter open", "1-9 favorites", "/ filter", "q quit",
	))
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) lessonView() string {
	r := m.theme.Renderer

	icon, color := m.theme.GetSubjectIcon(m.page.Lesson.Subject)
	title := r.NewStyle().Foreground(color).Bold(true).Render(
		fmt.Sprintf("%s %s", icon, m.page.Sim.Title()))

	plotH := m.height - 12
	if plotH < 6 {
		plotH = 6
	}
	plot := m.page.Draw(m.theme, m.width-4, plotH)

	playState := "▶"
	if !m.clock.Playing() {
		playState = "⏸"
	}
	status := m.theme.SubtextStyle.Render(fmt.Sprintf("%s %.2gx  ·  %s",
		playState, m.clock.Speed(), m.page.Status()))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(plot)
	b.WriteString("\n")
	b.WriteString(status)
	b.WriteString("\n\n")
	b.WriteString(m.controls.View(m.page.Sim, m.width-4))
	b.WriteString("\n")
	b.WriteString(m.footer(
		"space play/pause", "+/- speed", "tab control", "←/→ adjust",
		"r restart", "d walkthrough", "e snapshot", "c copy", "x done", "esc back",
	))
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) footer(hints ...string) string {
	r := m.theme.Renderer
	keyStyle := r.NewStyle().Foreground(m.theme.Highlight)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		key, desc, found := strings.Cut(h, " ")
		if !found {
			parts = append(parts, keyStyle.Render(h))
			continue
		}
		parts = append(parts, keyStyle.Render(key)+" "+m.theme.SubtextStyle.Render(desc))
	}
	return strings.Join(parts, m.theme.MutedText.Render(" │ "))
}

func (m Model) statusLine() string {
	if m.statusMsg == "" {
		return ""
	}
	style := m.theme.GoodText
	if m.statusIsError {
		style = m.theme.WarnText
	}
	return "\n" + style.Render(m.statusMsg)
}
