package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vizlab/vizlab/pkg/metrics"
)

// userFile is the lesson overlay document.
type userFile struct {
	Lessons []Lesson `yaml:"lessons"`
}

// LoadUserLessons reads user-authored lessons from a YAML file. A missing
// file is not an error; teachers opt in by creating one.
func LoadUserLessons(path string) ([]Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading lessons: %w", err)
	}

	var f userFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing lessons: %w", err)
	}
	return f.Lessons, nil
}

// Load builds the effective catalog: built-ins overlaid with the user file
// at path (ignored when path is empty).
func Load(path string) (*Catalog, error) {
	defer metrics.Timer(metrics.CatalogLoad)()
	lessons := BuiltIn()
	if path != "" {
		user, err := LoadUserLessons(path)
		if err != nil {
			return nil, err
		}
		lessons = Merge(lessons, user)
	}
	return New(lessons)
}
