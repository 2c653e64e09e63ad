// Package testutil provides deterministic lesson-catalog fixtures for
// testing the prerequisite graph machinery.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vizlab/vizlab/pkg/catalog"
)

// GraphFixture is an abstract prerequisite graph: edges point from a
// lesson to one of its prerequisites.
type GraphFixture struct {
	Description string   `json:"description"`
	Nodes       []string `json:"nodes"`
	Edges       [][2]int `json:"edges"` // [lesson_idx, prereq_idx]
}

// GeneratorConfig controls lesson generation.
type GeneratorConfig struct {
	Seed     int64  // Random seed for determinism (0 = use current time)
	IDPrefix string // Prefix for lesson IDs (default: "test")
}

// Generator creates lesson fixtures with various prerequisite topologies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with a fixed seed.
func NewDefault() *Generator {
	return New(GeneratorConfig{Seed: 42})
}

func (g *Generator) nodeIDs(size int) []string {
	ids := make([]string, size)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%03d", g.cfg.IDPrefix, i)
	}
	return ids
}

// Chain builds a linear course: each lesson requires the previous one.
func (g *Generator) Chain(size int) GraphFixture {
	gf := GraphFixture{
		Description: fmt.Sprintf("chain of %d lessons", size),
		Nodes:       g.nodeIDs(size),
	}
	for i := 1; i < size; i++ {
		gf.Edges = append(gf.Edges, [2]int{i, i - 1})
	}
	return gf
}

// Diamond builds one intro lesson, width parallel lessons requiring it,
// and one capstone requiring all of the middle layer.
func (g *Generator) Diamond(width int) GraphFixture {
	size := width + 2
	gf := GraphFixture{
		Description: fmt.Sprintf("diamond with %d parallel lessons", width),
		Nodes:       g.nodeIDs(size),
	}
	last := size - 1
	for i := 1; i <= width; i++ {
		gf.Edges = append(gf.Edges, [2]int{i, 0})
		gf.Edges = append(gf.Edges, [2]int{last, i})
	}
	return gf
}

// Tree builds a course tree: every lesson at depth d requires its parent
// at depth d-1.
func (g *Generator) Tree(depth, breadth int) GraphFixture {
	gf := GraphFixture{
		Description: fmt.Sprintf("tree depth=%d breadth=%d", depth, breadth),
	}
	type node struct{ idx, level int }
	var queue []node

	add := func() int {
		idx := len(gf.Nodes)
		gf.Nodes = append(gf.Nodes, fmt.Sprintf("%s-%03d", g.cfg.IDPrefix, idx))
		return idx
	}

	root := add()
	queue = append(queue, node{root, 0})
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.level >= depth {
			continue
		}
		for b := 0; b < breadth; b++ {
			child := add()
			gf.Edges = append(gf.Edges, [2]int{child, n.idx})
			queue = append(queue, node{child, n.level + 1})
		}
	}
	return gf
}

// Disconnected builds several independent course tracks.
func (g *Generator) Disconnected(components, componentSize int) GraphFixture {
	gf := GraphFixture{
		Description: fmt.Sprintf("%d tracks of %d lessons", components, componentSize),
		Nodes:       g.nodeIDs(components * componentSize),
	}
	for c := 0; c < components; c++ {
		base := c * componentSize
		for i := 1; i < componentSize; i++ {
			gf.Edges = append(gf.Edges, [2]int{base + i, base + i - 1})
		}
	}
	return gf
}

// Cycle builds a prerequisite loop, which a valid catalog must reject.
func (g *Generator) Cycle(size int) GraphFixture {
	gf := GraphFixture{
		Description: fmt.Sprintf("cycle of %d lessons", size),
		Nodes:       g.nodeIDs(size),
	}
	for i := 0; i < size; i++ {
		gf.Edges = append(gf.Edges, [2]int{i, (i + 1) % size})
	}
	return gf
}

// RandomDAG builds a random acyclic prerequisite graph. Edges only point
// from higher indices to lower ones, which guarantees acyclicity.
func (g *Generator) RandomDAG(size int, density float64) GraphFixture {
	gf := GraphFixture{
		Description: fmt.Sprintf("random DAG size=%d density=%.2f", size, density),
		Nodes:       g.nodeIDs(size),
	}
	for i := 1; i < size; i++ {
		for j := 0; j < i; j++ {
			if g.rng.Float64() < density {
				gf.Edges = append(gf.Edges, [2]int{i, j})
			}
		}
	}
	return gf
}

var subjects = []catalog.Subject{
	catalog.Physics,
	catalog.Chemistry,
	catalog.Biology,
	catalog.Economics,
	catalog.CompSci,
}

// ToLessons converts a fixture into concrete lessons.
func (g *Generator) ToLessons(gf GraphFixture) []catalog.Lesson {
	prereqs := make(map[int][]string)
	for _, e := range gf.Edges {
		prereqs[e[0]] = append(prereqs[e[0]], gf.Nodes[e[1]])
	}
	lessons := make([]catalog.Lesson, len(gf.Nodes))
	for i, id := range gf.Nodes {
		lessons[i] = catalog.Lesson{
			ID:      id,
			Title:   strings.ToUpper(id[:1]) + id[1:],
			Subject: subjects[g.rng.Intn(len(subjects))],
			Summary: fmt.Sprintf("Generated lesson %d for %s", i, gf.Description),
			Prereqs: prereqs[i],
		}
	}
	return lessons
}

// ToYAML renders lessons as a user lessons file document.
func ToYAML(lessons []catalog.Lesson) string {
	doc := struct {
		Lessons []catalog.Lesson `yaml:"lessons"`
	}{Lessons: lessons}
	out, err := yaml.Marshal(doc)
	if err != nil {
		panic(err) // fixtures are always marshalable
	}
	return string(out)
}

// Quick helpers for the common cases.

func QuickChain(size int) []catalog.Lesson {
	g := NewDefault()
	return g.ToLessons(g.Chain(size))
}

func QuickDiamond(width int) []catalog.Lesson {
	g := NewDefault()
	return g.ToLessons(g.Diamond(width))
}

func QuickCycle(size int) []catalog.Lesson {
	g := NewDefault()
	return g.ToLessons(g.Cycle(size))
}

func QuickRandom(size int, density float64) []catalog.Lesson {
	g := NewDefault()
	return g.ToLessons(g.RandomDAG(size, density))
}
