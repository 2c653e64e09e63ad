// Package catalog holds the lesson catalog: which visualizations exist,
// what subject they belong to, and how they depend on each other. Lessons
// form a prerequisite DAG; ordering and cycle detection run on gonum's
// graph package so the TUI can list lessons in a study-able order and
// refuse content whose prerequisites can never be satisfied.
package catalog

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vizlab/vizlab/pkg/metrics"
)

// Subject is the AP course area a lesson belongs to.
type Subject string

const (
	Physics   Subject = "physics"
	Chemistry Subject = "chemistry"
	Biology   Subject = "biology"
	Economics Subject = "economics"
	CompSci   Subject = "compsci"
)

// Lesson is one visualization page's metadata. The page implementation
// (simulation, drawing, demo steps) is registered by the UI layer under the
// same ID; the catalog only knows about ordering and description.
type Lesson struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Subject Subject  `yaml:"subject"`
	Summary string   `yaml:"summary"`
	Prereqs []string `yaml:"prereqs,omitempty"`
}

// BuiltIn returns the lessons that ship with the binary.
func BuiltIn() []Lesson {
	return []Lesson{
		{
			ID:      "physics-projectile",
			Title:   "Projectile Motion with Air Drag",
			Subject: Physics,
			Summary: "Launch angle, speed, and drag shape a trajectory; compare against the vacuum parabola.",
		},
		{
			ID:      "chem-titration",
			Title:   "Weak Acid Titration",
			Subject: Chemistry,
			Summary: "Pour strong base into a weak acid and watch the pH curve find its equivalence point.",
		},
		{
			ID:      "bio-mitosis",
			Title:   "Mitosis Phases",
			Subject: Biology,
			Summary: "Walk the cell cycle from interphase through cytokinesis, phase by phase.",
		},
		{
			ID:      "econ-market",
			Title:   "Supply & Demand Equilibrium",
			Subject: Economics,
			Summary: "Shift supply and demand curves and watch price and quantity settle.",
		},
		{
			ID:      "cs-sorting",
			Title:   "Sorting Algorithms",
			Subject: CompSci,
			Summary: "Bubble, insertion, selection, and quicksort animated one comparison at a time.",
			Prereqs: nil,
		},
	}
}

// Catalog is a validated set of lessons.
type Catalog struct {
	lessons []Lesson
	byID    map[string]int
}

// New builds a catalog, rejecting duplicate IDs, prerequisites that point
// at unknown lessons, and prerequisite cycles.
func New(lessons []Lesson) (*Catalog, error) {
	c := &Catalog{
		lessons: lessons,
		byID:    make(map[string]int, len(lessons)),
	}
	for i, l := range lessons {
		if l.ID == "" {
			return nil, fmt.Errorf("lesson %d has no id", i)
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson id %q", l.ID)
		}
		c.byID[l.ID] = i
	}
	for _, l := range lessons {
		for _, pre := range l.Prereqs {
			if _, ok := c.byID[pre]; !ok {
				return nil, fmt.Errorf("lesson %q requires unknown lesson %q", l.ID, pre)
			}
		}
	}
	if _, err := c.Order(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the lesson with the given ID.
func (c *Catalog) Get(id string) (Lesson, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Lesson{}, false
	}
	return c.lessons[i], true
}

// Lessons returns all lessons in insertion order.
func (c *Catalog) Lessons() []Lesson { return c.lessons }

// Len returns the number of lessons.
func (c *Catalog) Len() int { return len(c.lessons) }

// Order returns the lessons topologically sorted so every prerequisite
// precedes its dependents. Ties keep a stable, ID-sorted order. A
// prerequisite cycle is reported as an error naming the lessons involved.
func (c *Catalog) Order() ([]Lesson, error) {
	defer metrics.Timer(metrics.CatalogOrder)()

	g := simple.NewDirectedGraph()
	for i := range c.lessons {
		g.AddNode(simple.Node(i))
	}
	for i, l := range c.lessons {
		for _, pre := range l.Prereqs {
			j := c.byID[pre]
			if i == j {
				return nil, fmt.Errorf("lesson %q requires itself", l.ID)
			}
			g.SetEdge(simple.Edge{F: simple.Node(j), T: simple.Node(i)})
		}
	}

	sorted, err := topo.SortStabilized(g, func(ns []graph.Node) {
		sort.Slice(ns, func(a, b int) bool {
			return c.lessons[ns[a].ID()].ID < c.lessons[ns[b].ID()].ID
		})
	})
	if err != nil {
		if unorderable, ok := err.(topo.Unorderable); ok {
			var ids []string
			for _, scc := range unorderable {
				for _, n := range scc {
					ids = append(ids, c.lessons[n.ID()].ID)
				}
			}
			sort.Strings(ids)
			return nil, fmt.Errorf("prerequisite cycle among lessons %v", ids)
		}
		return nil, err
	}

	out := make([]Lesson, len(sorted))
	for i, n := range sorted {
		out[i] = c.lessons[n.ID()]
	}
	return out, nil
}

// Available reports which lessons have all prerequisites in the done set.
func (c *Catalog) Available(done map[string]bool) []Lesson {
	var out []Lesson
	for _, l := range c.lessons {
		ok := true
		for _, pre := range l.Prereqs {
			if !done[pre] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, l)
		}
	}
	return out
}

// Merge overlays user lessons onto base. A user lesson with an existing ID
// replaces the built-in; new IDs append.
func Merge(base, user []Lesson) []Lesson {
	out := make([]Lesson, len(base))
	copy(out, base)
	index := make(map[string]int, len(base))
	for i, l := range base {
		index[l.ID] = i
	}
	for _, l := range user {
		if i, ok := index[l.ID]; ok {
			out[i] = l
		} else {
			index[l.ID] = len(out)
			out = append(out, l)
		}
	}
	return out
}
