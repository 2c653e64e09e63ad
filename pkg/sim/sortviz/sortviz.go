// Package sortviz implements the sorting-algorithm visualization: each
// algorithm runs once up front against a deterministic shuffle, recording a
// frame per comparison, and playback steps through the recording.
package sortviz

import (
	"math/rand"
	"sort"

	"github.com/vizlab/vizlab/pkg/sim"
)

// Algorithm selects which sort is animated.
type Algorithm int

const (
	Bubble Algorithm = iota
	Insertion
	Selection
	Quick
	numAlgorithms
)

var algorithmNames = [...]string{"Bubble", "Insertion", "Selection", "Quick"}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return "unknown"
	}
	return algorithmNames[a]
}

// Frame is one recorded moment of a sort: the array contents plus the two
// indices under comparison.
type Frame struct {
	Data    []int
	I, J    int
	Swapped bool
}

// recorder captures frames as an algorithm mutates its working copy.
type recorder struct {
	data   []int
	frames []Frame
}

func (r *recorder) snap(i, j int, swapped bool) {
	cp := make([]int, len(r.data))
	copy(cp, r.data)
	r.frames = append(r.frames, Frame{Data: cp, I: i, J: j, Swapped: swapped})
}

func (r *recorder) compare(i, j int) bool {
	r.snap(i, j, false)
	return r.data[i] > r.data[j]
}

func (r *recorder) swap(i, j int) {
	r.data[i], r.data[j] = r.data[j], r.data[i]
	r.snap(i, j, true)
}

// Record runs the algorithm over data (left unmodified) and returns the
// frame sequence, ending with a final frame of the sorted array.
func Record(alg Algorithm, data []int) []Frame {
	r := &recorder{data: make([]int, len(data))}
	copy(r.data, data)

	switch alg {
	case Bubble:
		bubbleSort(r)
	case Insertion:
		insertionSort(r)
	case Selection:
		selectionSort(r)
	case Quick:
		quickSort(r, 0, len(r.data)-1)
	}

	r.snap(-1, -1, false)
	return r.frames
}

func bubbleSort(r *recorder) {
	n := len(r.data)
	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-1-i; j++ {
			if r.compare(j, j+1) {
				r.swap(j, j+1)
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
}

func insertionSort(r *recorder) {
	for i := 1; i < len(r.data); i++ {
		for j := i; j > 0 && r.compare(j-1, j); j-- {
			r.swap(j-1, j)
		}
	}
}

func selectionSort(r *recorder) {
	n := len(r.data)
	for i := 0; i < n-1; i++ {
		min := i
		for j := i + 1; j < n; j++ {
			if r.compare(min, j) {
				min = j
			}
		}
		if min != i {
			r.swap(i, min)
		}
	}
}

func quickSort(r *recorder, lo, hi int) {
	if lo >= hi {
		return
	}
	p := lo
	for j := lo; j < hi; j++ {
		if r.compare(hi, j) {
			r.swap(p, j)
			p++
		}
	}
	r.swap(p, hi)
	quickSort(r, lo, p-1)
	quickSort(r, p+1, hi)
}

// Shuffled returns 1..n in a deterministic shuffle for the given seed, so a
// lesson replays identically every time.
func Shuffled(n int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	data := make([]int, n)
	for i := range data {
		data[i] = i + 1
	}
	rng.Shuffle(n, func(i, j int) {
		data[i], data[j] = data[j], data[i]
	})
	return data
}

// SortViz is the interactive simulation playing back a recording.
type SortViz struct {
	size  *sim.Param
	speed *sim.Param
	alg   Algorithm

	frames []Frame
	pos    float64
}

// NewSortViz creates the simulation with bubble sort over 24 bars.
func NewSortViz() *SortViz {
	s := &SortViz{
		size:  sim.NewParam("Bars", "", 8, 48, 4, 24),
		speed: sim.NewParam("Frames/s", "", 5, 120, 5, 30),
	}
	s.Reset()
	return s
}

func (s *SortViz) Title() string          { return "Sorting Algorithms: " + s.alg.String() }
func (s *SortViz) Params() []*sim.Param   { return []*sim.Param{s.size, s.speed} }
func (s *SortViz) Toggles() []*sim.Toggle { return nil }

// Algorithm returns the currently animated algorithm.
func (s *SortViz) Algorithm() Algorithm { return s.alg }

// SetAlgorithm switches algorithms and re-records.
func (s *SortViz) SetAlgorithm(a Algorithm) {
	if a < 0 || a >= numAlgorithms {
		return
	}
	s.alg = a
	s.Reset()
}

// CycleAlgorithm advances to the next algorithm, wrapping.
func (s *SortViz) CycleAlgorithm() {
	s.SetAlgorithm((s.alg + 1) % numAlgorithms)
}

// Reset re-records the current algorithm over a fresh deterministic shuffle.
func (s *SortViz) Reset() {
	n := int(s.size.Value())
	s.frames = Record(s.alg, Shuffled(n, 1))
	s.pos = 0
}

// Advance plays back frames at the configured rate.
func (s *SortViz) Advance(dt float64) {
	s.pos += dt * s.speed.Value()
	if max := float64(len(s.frames) - 1); s.pos > max {
		s.pos = max
	}
}

// Done reports whether playback reached the final frame.
func (s *SortViz) Done() bool { return int(s.pos) >= len(s.frames)-1 }

// Frame returns the frame under the playhead.
func (s *SortViz) Frame() Frame { return s.frames[int(s.pos)] }

// Progress returns playback position in [0, 1].
func (s *SortViz) Progress() float64 {
	if len(s.frames) <= 1 {
		return 1
	}
	return s.pos / float64(len(s.frames)-1)
}

// Comparisons returns the number of comparison frames in the recording.
func (s *SortViz) Comparisons() int {
	n := 0
	for _, f := range s.frames {
		if !f.Swapped && f.I >= 0 {
			n++
		}
	}
	return n
}

// IsSorted reports whether ints are in ascending order; exposed for tests
// and the completion banner.
func IsSorted(data []int) bool {
	return sort.IntsAreSorted(data)
}
