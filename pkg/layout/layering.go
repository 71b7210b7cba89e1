package layout

import "github.com/archsketch/archsketch/pkg/arch"

// assignLayers computes a total layering of the graph via wave-based
// topological leveling.
//
// Layer 0 holds all nodes with in-degree zero, in input order. Each wave
// decrements the in-degree of the current layer's successors; successors
// reaching zero join the next layer. Nodes that never reach zero in-degree
// (members of a cycle, directly or transitively) are collected into one
// final layer, appended after all computed layers, in input order. This
// keeps leveling terminating and total for arbitrary directed graphs; the
// cyclic remainder simply has no principled internal order.
//
// Edges whose endpoints are not both known nodes contribute nothing to
// the in-degree counts.
func assignLayers(nodes []arch.Node, edges []arch.Edge) [][]string {
	if len(nodes) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	successors := make(map[string][]string, len(nodes))
	inDegree := make(map[string]int, len(nodes))
	for _, e := range edges {
		if _, ok := known[e.Source]; !ok {
			continue
		}
		if _, ok := known[e.Target]; !ok {
			continue
		}
		successors[e.Source] = append(successors[e.Source], e.Target)
		inDegree[e.Target]++
	}

	assigned := make(map[string]struct{}, len(nodes))
	var layers [][]string

	var current []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			current = append(current, n.ID)
			assigned[n.ID] = struct{}{}
		}
	}

	for len(current) > 0 {
		layers = append(layers, current)
		var next []string
		for _, id := range current {
			for _, succ := range successors[id] {
				if _, done := assigned[succ]; done {
					continue
				}
				inDegree[succ]--
				if inDegree[succ] == 0 {
					next = append(next, succ)
					assigned[succ] = struct{}{}
				}
			}
		}
		current = next
	}

	// Whatever never reached zero in-degree sits in a cycle. Park it all
	// in one trailing layer, preserving input order.
	var remainder []string
	for _, n := range nodes {
		if _, ok := assigned[n.ID]; !ok {
			remainder = append(remainder, n.ID)
		}
	}
	if len(remainder) > 0 {
		layers = append(layers, remainder)
	}

	return layers
}
