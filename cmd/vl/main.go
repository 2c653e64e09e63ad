package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vizlab/vizlab/internal/store"
	"github.com/vizlab/vizlab/pkg/catalog"
	"github.com/vizlab/vizlab/pkg/config"
	"github.com/vizlab/vizlab/pkg/export"
	"github.com/vizlab/vizlab/pkg/metrics"
	"github.com/vizlab/vizlab/pkg/ui"
	"github.com/vizlab/vizlab/pkg/version"
	"github.com/vizlab/vizlab/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	lessonFlag := flag.String("lesson", "", "Open a lesson directly by ID")
	lessonsPath := flag.String("lessons", "", "Path to a user lessons YAML file (overrides config)")
	snapshotFlag := flag.String("snapshot", "", "Export a snapshot of the given lesson ID (or 'all') and exit")
	outFlag := flag.String("out", "", "Snapshot output base path (skips the interactive wizard)")
	formatsFlag := flag.String("formats", "svg", "Comma-separated snapshot formats: png,svg,json")
	robotCatalog := flag.Bool("robot-catalog", false, "Print the lesson catalog with progress as JSON and exit")
	timingStats := flag.Bool("timing-stats", false, "Print timing stats to stderr on exit")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: vl [options]")
		fmt.Println("\nAn interactive terminal lab of STEM visualizations.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("vl %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if *lessonsPath != "" {
		cfg.LessonsPath = *lessonsPath
	}

	cat, err := catalog.Load(cfg.ResolvedLessonsPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading lessons: %v\n", err)
		os.Exit(1)
	}

	if *timingStats {
		defer printTimingStats()
	}

	if *robotCatalog {
		if err := runRobotCatalog(cat); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *snapshotFlag == "all" {
		if err := runSnapshotAll(cat, cfg, *outFlag, *formatsFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if *snapshotFlag != "" {
		if err := runSnapshot(cat, cfg, *snapshotFlag, *outFlag, *formatsFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Progress tracking is best effort: a broken state dir should not keep
	// the lab from opening.
	st, err := store.Open(config.ProgressDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: progress tracking disabled: %v\n", err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	// Live-reload user lessons and config edits while the TUI runs. The
	// files need not exist yet; their first appearance is a change.
	var w *watcher.Watcher
	var watchPaths []string
	if p := cfg.ResolvedLessonsPath(); p != "" {
		watchPaths = append(watchPaths, p)
	}
	if p := config.ConfigPath(); p != "" {
		watchPaths = append(watchPaths, p)
	}
	if len(watchPaths) > 0 {
		w, err = watcher.New(watchPaths)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m := ui.NewModel(cfg, cat, st, w)
	startLesson := *lessonFlag
	if startLesson == "" {
		startLesson = cfg.UI.DefaultLesson
	}
	if startLesson != "" {
		if err := m.OpenLessonByID(startLesson); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running visualization lab: %v\n", err)
		os.Exit(1)
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set VL_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("VL_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}

// runRobotCatalog prints the machine-readable catalog for scripts and
// agents: lesson metadata merged with stored progress, in dependency order.
func runRobotCatalog(cat *catalog.Catalog) error {
	progress := map[string]store.LessonProgress{}
	if st, err := store.Open(config.ProgressDBPath()); err == nil {
		defer st.Close()
		all, err := st.AllProgress()
		if err != nil {
			return err
		}
		for _, p := range all {
			progress[p.LessonID] = p
		}
	}
	return export.WriteRobotCatalog(os.Stdout, cat, progress)
}

func runSnapshot(cat *catalog.Catalog, cfg config.Config, lessonID, out, formatsCSV string) error {
	lesson, ok := cat.Get(lessonID)
	if !ok {
		return fmt.Errorf("unknown lesson %q", lessonID)
	}
	page, err := ui.NewPage(lesson)
	if err != nil {
		return err
	}

	opts := export.SnapshotOptions{
		Title:  page.Sim.Title(),
		Lesson: lesson.ID,
		XLabel: page.XLabel,
		YLabel: page.YLabel,
		Width:  cfg.Export.Width,
		Height: cfg.Export.Height,
		Series: page.Series(),
	}

	basePath := out
	formats := splitFormats(formatsCSV)
	clipboard := false
	if basePath == "" {
		choice, err := export.RunWizard(cfg.Export.Dir, lesson.ID, page.Sim.Title())
		if err != nil {
			return err
		}
		basePath = choice.BasePath
		formats = choice.Formats
		clipboard = choice.Clipboard
		if choice.Title != "" {
			opts.Title = choice.Title
		}
	}

	result, err := export.SaveAll(opts, basePath, formats)
	if err != nil {
		return err
	}
	for _, p := range result.Paths {
		fmt.Println("saved", p)
	}

	if clipboard {
		if err := export.CopyJSON(export.NewSeriesDocument(opts)); err != nil {
			return fmt.Errorf("copying data to clipboard: %w", err)
		}
		fmt.Println("plot data copied to clipboard")
	}

	if st, err := store.Open(config.ProgressDBPath()); err == nil {
		defer st.Close()
		for _, p := range result.Paths {
			ext := strings.TrimPrefix(filepath.Ext(p), ".")
			if err := st.RecordExport(lesson.ID, p, ext); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: recording export: %v\n", err)
			}
		}
	}
	return nil
}

// runSnapshotAll exports every lesson in the catalog, one base path per
// lesson ID under the output directory. Lessons without a registered
// visualization (user-authored metadata) are skipped with a notice.
func runSnapshotAll(cat *catalog.Catalog, cfg config.Config, outDir, formatsCSV string) error {
	if outDir == "" {
		outDir = cfg.Export.Dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	formats := splitFormats(formatsCSV)

	lessons, err := cat.Order()
	if err != nil {
		lessons = cat.Lessons()
	}

	var g errgroup.Group
	results := make([]export.BatchResult, len(lessons))
	for i, lesson := range lessons {
		page, err := ui.NewPage(lesson)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", lesson.ID, err)
			continue
		}
		opts := export.SnapshotOptions{
			Title:  page.Sim.Title(),
			Lesson: lesson.ID,
			XLabel: page.XLabel,
			YLabel: page.YLabel,
			Width:  cfg.Export.Width,
			Height: cfg.Export.Height,
			Series: page.Series(),
		}
		base := filepath.Join(outDir, lesson.ID)
		g.Go(func() error {
			r, err := export.SaveAll(opts, base, formats)
			if err != nil {
				return fmt.Errorf("%s: %w", opts.Lesson, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, r := range results {
		for _, p := range r.Paths {
			fmt.Println("saved", p)
		}
	}
	return nil
}

func splitFormats(csv string) []string {
	var out []string
	for _, f := range strings.Split(csv, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func printTimingStats() {
	for _, s := range metrics.AllTimingStats() {
		fmt.Fprintf(os.Stderr, "%-16s count=%-6d avg=%.2fms max=%.2fms\n",
			s.Name, s.Count, s.AvgMs, s.MaxMs)
	}
}
