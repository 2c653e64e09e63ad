package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	json "github.com/goccy/go-json"

	"github.com/vizlab/vizlab/internal/store"
	"github.com/vizlab/vizlab/pkg/catalog"
)

// SeriesDocument is the JSON shape for exported lesson data.
type SeriesDocument struct {
	Lesson      string    `json:"lesson"`
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Series      []Series  `json:"series"`
}

// NewSeriesDocument builds a document from snapshot options, stamped with the
// current time.
func NewSeriesDocument(opts SnapshotOptions) SeriesDocument {
	return SeriesDocument{
		Lesson:      opts.Lesson,
		Title:       opts.Title,
		GeneratedAt: time.Now().UTC(),
		Series:      opts.Series,
	}
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc SeriesDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding series data: %w", err)
	}
	return nil
}

// SaveJSON writes the document to a file, creating parent directories.
func SaveJSON(path string, doc SeriesDocument) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()
	return WriteJSON(file, doc)
}

// CopyJSON puts the document on the system clipboard as JSON.
func CopyJSON(doc SeriesDocument) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		return err
	}
	if err := clipboard.WriteAll(buf.String()); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// RobotLesson is one catalog entry in machine-readable form, with progress
// merged in when available.
type RobotLesson struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Subject   string   `json:"subject"`
	Summary   string   `json:"summary,omitempty"`
	Prereqs   []string `json:"prereqs,omitempty"`
	Visits    int      `json:"visits,omitempty"`
	Completed bool     `json:"completed,omitempty"`
	Available bool     `json:"available"`
}

// RobotCatalogDocument is the top-level --robot-catalog output.
type RobotCatalogDocument struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Lessons     []RobotLesson `json:"lessons"`
}

// WriteRobotCatalog writes the catalog in topological order as JSON, suitable
// for script consumption. progress may be nil when no store is open.
func WriteRobotCatalog(w io.Writer, cat *catalog.Catalog, progress map[string]store.LessonProgress) error {
	ordered, err := cat.Order()
	if err != nil {
		return fmt.Errorf("ordering catalog: %w", err)
	}

	done := make(map[string]bool)
	for id, p := range progress {
		if p.Completed {
			done[id] = true
		}
	}
	available := make(map[string]bool)
	for _, l := range cat.Available(done) {
		available[l.ID] = true
	}

	doc := RobotCatalogDocument{GeneratedAt: time.Now().UTC()}
	for _, l := range ordered {
		rl := RobotLesson{
			ID:        l.ID,
			Title:     l.Title,
			Subject:   string(l.Subject),
			Summary:   l.Summary,
			Prereqs:   l.Prereqs,
			Available: available[l.ID],
		}
		if p, ok := progress[l.ID]; ok {
			rl.Visits = p.Visits
			rl.Completed = p.Completed
		}
		doc.Lessons = append(doc.Lessons, rl)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding robot catalog: %w", err)
	}
	return nil
}
