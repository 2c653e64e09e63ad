// Package config handles loading and saving vl configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/vl/config.yaml
//   - Data:    ~/.local/share/vl/ (user lessons, exports)
//   - State:   ~/.local/state/vl/ (progress database)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme         string  `yaml:"theme,omitempty"`          // dark, light, auto
	FramesPerSec  int     `yaml:"frames_per_sec,omitempty"` // Animation frame rate (default 30)
	DefaultLesson string  `yaml:"default_lesson,omitempty"` // Lesson opened on startup
	SpeedFactor   float64 `yaml:"speed_factor,omitempty"`   // Initial clock speed (0.25-8)
}

// ExportConfig controls snapshot export defaults.
type ExportConfig struct {
	Dir    string `yaml:"dir,omitempty"`    // Output directory (default data dir)
	Width  int    `yaml:"width,omitempty"`  // Image width in pixels (default 800)
	Height int    `yaml:"height,omitempty"` // Image height in pixels (default 600)
}

// Config is the top-level configuration for vl.
type Config struct {
	LessonsPath string         `yaml:"lessons_path,omitempty"` // Extra lessons YAML file
	Favorites   map[int]string `yaml:"favorites,omitempty"`    // Number key (1-9) -> lesson ID
	UI          UIConfig       `yaml:"ui,omitempty"`
	Export      ExportConfig   `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Favorites: make(map[int]string),
		UI: UIConfig{
			Theme:        "auto",
			FramesPerSec: 30,
			SpeedFactor:  1,
		},
		Export: ExportConfig{
			Width:  800,
			Height: 600,
		},
	}
}

// ConfigDir returns the XDG config directory for vl.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "vl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vl")
}

// DataDir returns the XDG data directory for vl.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "vl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "vl")
}

// StateDir returns the XDG state directory for vl.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "vl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "vl")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LessonsPath returns the path to the user lessons YAML file.
// An explicit lessons_path in the config wins over the default location.
func (c Config) ResolvedLessonsPath() string {
	if c.LessonsPath != "" {
		return expandHome(c.LessonsPath)
	}
	dir := DataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "lessons.yaml")
}

// ProgressDBPath returns the path to the progress database.
func ProgressDBPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "progress.db")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Ensure favorites map is initialized
	if cfg.Favorites == nil {
		cfg.Favorites = make(map[int]string)
	}

	cfg.LessonsPath = expandHome(cfg.LessonsPath)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	if cfg.UI.FramesPerSec <= 0 {
		cfg.UI.FramesPerSec = 30
	}
	if cfg.UI.SpeedFactor <= 0 {
		cfg.UI.SpeedFactor = 1
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FavoriteLesson returns the lesson ID assigned to number key n (1-9), or "".
func (c Config) FavoriteLesson(n int) string {
	return c.Favorites[n]
}

// SetFavorite assigns a lesson ID to a number key (1-9).
func (c *Config) SetFavorite(n int, lessonID string) {
	if c.Favorites == nil {
		c.Favorites = make(map[int]string)
	}
	if lessonID == "" {
		delete(c.Favorites, n)
	} else {
		c.Favorites[n] = lessonID
	}
}

// LessonFavoriteNumber returns the favorite number (1-9) for a lesson ID, or 0 if not favorited.
func (c Config) LessonFavoriteNumber(id string) int {
	for n, lid := range c.Favorites {
		if strings.EqualFold(lid, id) {
			return n
		}
	}
	return 0
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
