//go:build ignore

// generate_lessons.go creates sample user lesson files for manual testing
// of the catalog overlay and the live-reload watcher.
// Usage: go run scripts/generate_lessons.go
//
// Creates:
//   tests/testdata/lessons/chain.yaml    (10-lesson linear course)
//   tests/testdata/lessons/diamond.yaml  (intro, 4 parallel, capstone)
//   tests/testdata/lessons/random.yaml   (40-lesson random DAG)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vizlab/vizlab/pkg/catalog"
	"github.com/vizlab/vizlab/pkg/testutil"
)

func main() {
	outputDir := "tests/testdata/lessons"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	g := testutil.New(testutil.GeneratorConfig{Seed: 42, IDPrefix: "sample"})
	sets := []struct {
		name    string
		lessons []catalog.Lesson
	}{
		{"chain", g.ToLessons(g.Chain(10))},
		{"diamond", g.ToLessons(g.Diamond(4))},
		{"random", g.ToLessons(g.RandomDAG(40, 0.08))},
	}

	for _, s := range sets {
		if _, err := catalog.New(s.lessons); err != nil {
			fmt.Fprintf(os.Stderr, "Generated %s set is invalid: %v\n", s.name, err)
			os.Exit(1)
		}
		path := filepath.Join(outputDir, s.name+".yaml")
		if err := os.WriteFile(path, []byte(testutil.ToYAML(s.lessons)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%d lessons)\n", path, len(s.lessons))
	}
}
