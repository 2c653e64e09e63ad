package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/vizlab/vizlab/pkg/catalog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestChainTopology(t *testing.T) {
	lessons := QuickChain(5)
	AssertLessonCount(t, lessons, 5)
	AssertNoDuplicateIDs(t, lessons)
	AssertPrereqExists(t, lessons, "test-004", "test-003")
	if len(lessons[0].Prereqs) != 0 {
		t.Errorf("chain root should have no prereqs, got %v", lessons[0].Prereqs)
	}
}

func TestDiamondTopology(t *testing.T) {
	lessons := QuickDiamond(3)
	AssertLessonCount(t, lessons, 5)
	capstone := lessons[len(lessons)-1]
	if len(capstone.Prereqs) != 3 {
		t.Errorf("capstone should require all 3 middle lessons, got %v", capstone.Prereqs)
	}
}

func TestRandomDAGIsDeterministic(t *testing.T) {
	a := QuickRandom(30, 0.1)
	b := QuickRandom(30, 0.1)
	if len(a) != len(b) {
		t.Fatalf("same seed produced different sizes: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || len(a[i].Prereqs) != len(b[i].Prereqs) {
			t.Fatalf("same seed produced different lesson %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRandomDAGBuildsValidCatalog(t *testing.T) {
	lessons := QuickRandom(50, 0.08)
	cat, err := catalog.New(lessons)
	if err != nil {
		t.Fatalf("random DAG should form a valid catalog: %v", err)
	}
	ordered, err := cat.Order()
	if err != nil {
		t.Fatalf("ordering random DAG: %v", err)
	}
	AssertTopologicalOrder(t, ordered)
}

func TestCycleIsRejectedByCatalog(t *testing.T) {
	if _, err := catalog.New(QuickCycle(4)); err == nil {
		t.Fatal("expected cycle to be rejected")
	}
}

func TestTreeShape(t *testing.T) {
	g := NewDefault()
	gf := g.Tree(2, 2)
	// 1 root + 2 children + 4 grandchildren
	if len(gf.Nodes) != 7 {
		t.Errorf("expected 7 nodes, got %d", len(gf.Nodes))
	}
	if len(gf.Edges) != 6 {
		t.Errorf("expected 6 edges, got %d", len(gf.Edges))
	}
}

func TestToYAMLRoundTrips(t *testing.T) {
	lessons := QuickChain(3)
	doc := ToYAML(lessons)
	if !strings.Contains(doc, "lessons:") {
		t.Fatalf("missing document key in:\n%s", doc)
	}

	path := t.TempDir() + "/lessons.yaml"
	writeFile(t, path, doc)
	loaded, err := catalog.LoadUserLessons(path)
	if err != nil {
		t.Fatalf("loading generated document: %v", err)
	}
	AssertLessonCount(t, loaded, 3)
	AssertPrereqExists(t, loaded, "test-002", "test-001")
}

func TestDisconnectedTracks(t *testing.T) {
	g := NewDefault()
	lessons := g.ToLessons(g.Disconnected(3, 4))
	AssertLessonCount(t, lessons, 12)
	cat, err := catalog.New(lessons)
	if err != nil {
		t.Fatalf("disconnected tracks should be valid: %v", err)
	}
	// Only the three track heads are available at the start.
	if got := len(cat.Available(nil)); got != 3 {
		t.Errorf("expected 3 available track heads, got %d", got)
	}
}
