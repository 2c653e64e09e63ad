package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	// A fresh database should answer queries without error.
	done, err := s.CompletedLessons()
	if err != nil {
		t.Fatalf("CompletedLessons on fresh db: %v", err)
	}
	if len(done) != 0 {
		t.Errorf("expected no completed lessons, got %d", len(done))
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestRecordVisit(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.RecordVisit("physics-projectile"); err != nil {
			t.Fatalf("RecordVisit: %v", err)
		}
	}

	p, err := s.Progress("physics-projectile")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.Visits != 3 {
		t.Errorf("Visits = %d, want 3", p.Visits)
	}
	if p.LastVisited == nil {
		t.Error("expected LastVisited to be set")
	}
	if p.Completed {
		t.Error("visit should not mark lesson completed")
	}
}

func TestProgressUnknownLesson(t *testing.T) {
	s := openTestStore(t)

	p, err := s.Progress("never-seen")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.LessonID != "never-seen" {
		t.Errorf("LessonID = %q, want %q", p.LessonID, "never-seen")
	}
	if p.Visits != 0 || p.Completed || p.LastVisited != nil {
		t.Errorf("expected zero progress, got %+v", p)
	}
}

func TestMarkCompleted(t *testing.T) {
	s := openTestStore(t)

	if err := s.MarkCompleted("chem-titration"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	done, err := s.CompletedLessons()
	if err != nil {
		t.Fatalf("CompletedLessons: %v", err)
	}
	if !done["chem-titration"] {
		t.Error("expected chem-titration to be completed")
	}
}

func TestMarkCompletedPreservesVisits(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordVisit("bio-mitosis"); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkCompleted("bio-mitosis"); err != nil {
		t.Fatal(err)
	}

	p, err := s.Progress("bio-mitosis")
	if err != nil {
		t.Fatal(err)
	}
	if p.Visits != 1 {
		t.Errorf("Visits = %d, want 1", p.Visits)
	}
	if !p.Completed {
		t.Error("expected lesson to be completed")
	}
}

func TestMarkStepDone(t *testing.T) {
	s := openTestStore(t)

	for _, step := range []int{2, 0, 1, 1} { // 1 twice: idempotent
		if err := s.MarkStepDone("econ-market", step); err != nil {
			t.Fatalf("MarkStepDone(%d): %v", step, err)
		}
	}

	steps, err := s.StepsDone("econ-market")
	if err != nil {
		t.Fatalf("StepsDone: %v", err)
	}
	want := []int{0, 1, 2}
	if len(steps) != len(want) {
		t.Fatalf("StepsDone = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("StepsDone[%d] = %d, want %d", i, steps[i], want[i])
		}
	}
}

func TestResetSteps(t *testing.T) {
	s := openTestStore(t)

	if err := s.MarkStepDone("cs-sorting", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.ResetSteps("cs-sorting"); err != nil {
		t.Fatalf("ResetSteps: %v", err)
	}

	steps, err := s.StepsDone("cs-sorting")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 0 {
		t.Errorf("expected no steps after reset, got %v", steps)
	}
}

func TestAllProgress(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordVisit("physics-projectile"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordVisit("chem-titration"); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkStepDone("chem-titration", 0); err != nil {
		t.Fatal(err)
	}

	all, err := s.AllProgress()
	if err != nil {
		t.Fatalf("AllProgress: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("AllProgress returned %d rows, want 2", len(all))
	}

	byID := make(map[string]LessonProgress)
	for _, p := range all {
		byID[p.LessonID] = p
	}
	if len(byID["chem-titration"].StepsDone) != 1 {
		t.Errorf("expected 1 step for chem-titration, got %v", byID["chem-titration"].StepsDone)
	}
}

func TestExports(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordExport("physics-projectile", "/tmp/shot.png", "png"); err != nil {
		t.Fatalf("RecordExport: %v", err)
	}
	if err := s.RecordExport("physics-projectile", "/tmp/shot.svg", "svg"); err != nil {
		t.Fatal(err)
	}

	n, err := s.ExportCount("physics-projectile")
	if err != nil {
		t.Fatalf("ExportCount: %v", err)
	}
	if n != 2 {
		t.Errorf("ExportCount = %d, want 2", n)
	}

	n, err = s.ExportCount("bio-mitosis")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("ExportCount for unexported lesson = %d, want 0", n)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MarkCompleted("physics-projectile"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	done, err := s2.CompletedLessons()
	if err != nil {
		t.Fatal(err)
	}
	if !done["physics-projectile"] {
		t.Error("expected completion to survive reopen")
	}
}
