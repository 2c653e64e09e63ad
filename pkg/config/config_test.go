package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.Theme != "auto" {
		t.Errorf("expected default theme 'auto', got %q", cfg.UI.Theme)
	}
	if cfg.UI.FramesPerSec != 30 {
		t.Errorf("expected frames_per_sec 30, got %d", cfg.UI.FramesPerSec)
	}
	if cfg.UI.SpeedFactor != 1 {
		t.Errorf("expected speed_factor 1, got %f", cfg.UI.SpeedFactor)
	}
	if cfg.Export.Width != 800 || cfg.Export.Height != 600 {
		t.Errorf("expected 800x600 export size, got %dx%d", cfg.Export.Width, cfg.Export.Height)
	}
	if cfg.Favorites == nil {
		t.Error("expected favorites map to be initialized")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("expected default config, got theme %q", cfg.UI.Theme)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
lessons_path: ~/stem/lessons.yaml

favorites:
  1: physics-projectile
  2: chem-titration

ui:
  theme: dark
  frames_per_sec: 60
  default_lesson: bio-mitosis

export:
  dir: /tmp/vl-exports
  width: 1024
  height: 768
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// lessons_path should have ~ expanded
	home, _ := os.UserHomeDir()
	expectedPath := filepath.Join(home, "stem/lessons.yaml")
	if cfg.LessonsPath != expectedPath {
		t.Errorf("expected expanded path %q, got %q", expectedPath, cfg.LessonsPath)
	}

	if cfg.Favorites[1] != "physics-projectile" {
		t.Errorf("expected favorite 1 = 'physics-projectile', got %q", cfg.Favorites[1])
	}
	if cfg.Favorites[2] != "chem-titration" {
		t.Errorf("expected favorite 2 = 'chem-titration', got %q", cfg.Favorites[2])
	}

	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme 'dark', got %q", cfg.UI.Theme)
	}
	if cfg.UI.FramesPerSec != 60 {
		t.Errorf("expected frames_per_sec 60, got %d", cfg.UI.FramesPerSec)
	}
	if cfg.UI.DefaultLesson != "bio-mitosis" {
		t.Errorf("expected default_lesson 'bio-mitosis', got %q", cfg.UI.DefaultLesson)
	}
	if cfg.Export.Dir != "/tmp/vl-exports" {
		t.Errorf("expected absolute export dir preserved, got %q", cfg.Export.Dir)
	}
	if cfg.Export.Width != 1024 {
		t.Errorf("expected export width 1024, got %d", cfg.Export.Width)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Config{
		LessonsPath: "/path/to/lessons.yaml",
		Favorites: map[int]string{
			1: "econ-market",
			3: "cs-sorting",
		},
		UI: UIConfig{
			Theme:        "light",
			FramesPerSec: 15,
			SpeedFactor:  2,
		},
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.LessonsPath != "/path/to/lessons.yaml" {
		t.Errorf("expected lessons path preserved, got %q", loaded.LessonsPath)
	}
	if loaded.Favorites[1] != "econ-market" {
		t.Errorf("expected favorite 1 = 'econ-market', got %q", loaded.Favorites[1])
	}
	if loaded.Favorites[3] != "cs-sorting" {
		t.Errorf("expected favorite 3 = 'cs-sorting', got %q", loaded.Favorites[3])
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("expected 'light', got %q", loaded.UI.Theme)
	}
	if loaded.UI.SpeedFactor != 2 {
		t.Errorf("expected speed_factor 2, got %f", loaded.UI.SpeedFactor)
	}
}

func TestResolvedLessonsPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cfg := DefaultConfig()
	expected := filepath.Join(dir, "vl", "lessons.yaml")
	if got := cfg.ResolvedLessonsPath(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}

	cfg.LessonsPath = "/explicit/lessons.yaml"
	if got := cfg.ResolvedLessonsPath(); got != "/explicit/lessons.yaml" {
		t.Errorf("expected explicit path to win, got %q", got)
	}
}

func TestFavoriteLesson(t *testing.T) {
	cfg := Config{
		Favorites: map[int]string{
			1: "physics-projectile",
		},
	}

	if got := cfg.FavoriteLesson(1); got != "physics-projectile" {
		t.Errorf("expected favorite 1 to return physics-projectile, got %q", got)
	}
	if got := cfg.FavoriteLesson(5); got != "" {
		t.Errorf("expected empty string for unset favorite, got %q", got)
	}
}

func TestSetFavorite(t *testing.T) {
	cfg := Config{Favorites: make(map[int]string)}

	cfg.SetFavorite(1, "bio-mitosis")
	if cfg.Favorites[1] != "bio-mitosis" {
		t.Error("expected favorite 1 set to 'bio-mitosis'")
	}

	// Clear favorite
	cfg.SetFavorite(1, "")
	if _, ok := cfg.Favorites[1]; ok {
		t.Error("expected favorite 1 to be cleared")
	}
}

func TestLessonFavoriteNumber(t *testing.T) {
	cfg := Config{
		Favorites: map[int]string{
			2: "chem-titration",
			5: "econ-market",
		},
	}

	if n := cfg.LessonFavoriteNumber("chem-titration"); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
	if n := cfg.LessonFavoriteNumber("econ-market"); n != 5 {
		t.Errorf("expected 5, got %d", n)
	}
	if n := cfg.LessonFavoriteNumber("unknown"); n != 0 {
		t.Errorf("expected 0 for unknown, got %d", n)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "vl")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := DataDir()
	expected := filepath.Join(dir, "vl")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got := StateDir()
	expected := filepath.Join(dir, "vl")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestProgressDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	expected := filepath.Join(dir, "vl", "progress.db")
	if got := ProgressDBPath(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestLoadFrom_EmptyFavorites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ui:
  theme: dark
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Favorites == nil {
		t.Error("expected favorites map to be initialized even when empty in config")
	}
}

func TestLoadFrom_ZeroFrameRateDefaulted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ui:
  frames_per_sec: 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.UI.FramesPerSec != 30 {
		t.Errorf("expected frames_per_sec defaulted to 30, got %d", cfg.UI.FramesPerSec)
	}
	if cfg.UI.SpeedFactor != 1 {
		t.Errorf("expected speed_factor defaulted to 1, got %f", cfg.UI.SpeedFactor)
	}
}
