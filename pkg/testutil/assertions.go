package testutil

import (
	"testing"

	"github.com/vizlab/vizlab/pkg/catalog"
)

// AssertLessonCount verifies the expected number of lessons.
func AssertLessonCount(t *testing.T, lessons []catalog.Lesson, expected int) {
	t.Helper()
	if len(lessons) != expected {
		t.Errorf("expected %d lessons, got %d", expected, len(lessons))
	}
}

// AssertNoDuplicateIDs verifies all lesson IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, lessons []catalog.Lesson) {
	t.Helper()
	seen := make(map[string]bool)
	for _, l := range lessons {
		if seen[l.ID] {
			t.Errorf("duplicate lesson ID: %s", l.ID)
		}
		seen[l.ID] = true
	}
}

// AssertTopologicalOrder verifies every lesson appears after all of its
// prerequisites.
func AssertTopologicalOrder(t *testing.T, lessons []catalog.Lesson) {
	t.Helper()
	pos := make(map[string]int, len(lessons))
	for i, l := range lessons {
		pos[l.ID] = i
	}
	for _, l := range lessons {
		for _, pre := range l.Prereqs {
			p, ok := pos[pre]
			if !ok {
				t.Errorf("lesson %s requires %s, which is not in the list", l.ID, pre)
				continue
			}
			if p >= pos[l.ID] {
				t.Errorf("lesson %s at %d appears before its prerequisite %s at %d",
					l.ID, pos[l.ID], pre, p)
			}
		}
	}
}

// AssertPrereqExists verifies a specific prerequisite edge.
func AssertPrereqExists(t *testing.T, lessons []catalog.Lesson, lessonID, prereqID string) {
	t.Helper()
	for _, l := range lessons {
		if l.ID != lessonID {
			continue
		}
		for _, pre := range l.Prereqs {
			if pre == prereqID {
				return
			}
		}
		t.Errorf("expected prerequisite %s -> %s not found", lessonID, prereqID)
		return
	}
	t.Errorf("lesson %s not found", lessonID)
}
