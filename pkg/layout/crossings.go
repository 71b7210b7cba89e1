package layout

import "github.com/archsketch/archsketch/pkg/arch"

// CountCrossings counts pairs of edges whose endpoints interleave under
// the given node ordering: edge i crosses edge j iff the relative order of
// their sources differs from the relative order of their targets. Edges
// with an endpoint missing from pos are ignored, as are self-loops (their
// drawn path is degenerate, so they cannot interleave meaningfully).
//
// The count is pairwise, O(E²). Single layers in architecture diagrams
// hold at most a few dozen edges, so the simple form beats maintaining an
// inversion tree across swaps.
func CountCrossings(edges []arch.Edge, pos map[string]int) int {
	type placed struct{ src, dst int }
	var es []placed
	for _, e := range edges {
		s, okS := pos[e.Source]
		t, okT := pos[e.Target]
		if !okS || !okT || e.Source == e.Target {
			continue
		}
		es = append(es, placed{s, t})
	}

	crossings := 0
	for i := 0; i < len(es); i++ {
		for j := i + 1; j < len(es); j++ {
			if cross(es[i].src, es[i].dst, es[j].src, es[j].dst) {
				crossings++
			}
		}
	}
	return crossings
}

// cross reports whether two edges interleave: the source order and target
// order disagree. Shared endpoints never count as a crossing.
func cross(s1, t1, s2, t2 int) bool {
	return (s1-s2)*(t1-t2) < 0
}
