package layout

import (
	"math"
	"slices"

	"github.com/archsketch/archsketch/pkg/arch"
)

// barycenterSentinel sorts nodes without predecessors in the previous
// layer after everything else while keeping their relative input order.
const barycenterSentinel = math.MaxFloat64

// orderLayers reduces crossings in a multi-layer layering using a single
// top-down barycenter pass. Layer 0 keeps its input order. Every
// subsequent layer is sorted by the mean position index of each node's
// direct predecessors within the already-ordered previous layer; ties and
// sentinel values are broken by stable sort, preserving input order.
//
// The pass mutates layers in place. Running it again on its own output
// yields the same order when barycenters are distinct (it is idempotent
// on tie-free DAGs).
func orderLayers(layers [][]string, edges []arch.Edge) {
	predecessors := make(map[string][]string)
	for _, e := range edges {
		predecessors[e.Target] = append(predecessors[e.Target], e.Source)
	}

	for i := 1; i < len(layers); i++ {
		if len(layers[i]) < 2 {
			continue
		}
		prevPos := PosMap(layers[i-1])

		bary := make(map[string]float64, len(layers[i]))
		for _, id := range layers[i] {
			bary[id] = barycenter(predecessors[id], prevPos)
		}

		slices.SortStableFunc(layers[i], func(a, b string) int {
			switch {
			case bary[a] < bary[b]:
				return -1
			case bary[a] > bary[b]:
				return 1
			default:
				return 0
			}
		})
	}
}

// barycenter returns the mean index of preds within prevPos, counting only
// predecessors that actually appear in the previous layer. Nodes with no
// such predecessor get the sentinel and sort last.
func barycenter(preds []string, prevPos map[string]int) float64 {
	sum, count := 0, 0
	for _, p := range preds {
		if idx, ok := prevPos[p]; ok {
			sum += idx
			count++
		}
	}
	if count == 0 {
		return barycenterSentinel
	}
	return float64(sum) / float64(count)
}

// orderSingleLayer reduces crossings within a single layer by local
// pairwise-adjacent-swap hill climbing: full passes over adjacent node
// pairs, committing any swap that strictly reduces the total crossing
// count, until a pass makes no improvement.
//
// The crossing count is a non-negative integer and every committed swap
// strictly decreases it, so the climb terminates in finitely many passes
// at a local (not global) optimum. The result never has more crossings
// than the input order.
func orderSingleLayer(ids []string, edges []arch.Edge) []string {
	if len(ids) < 2 {
		return ids
	}

	order := slices.Clone(ids)
	best := CountCrossings(edges, PosMap(order))

	for improved := true; improved; {
		improved = false
		for i := 0; i+1 < len(order); i++ {
			order[i], order[i+1] = order[i+1], order[i]
			if c := CountCrossings(edges, PosMap(order)); c < best {
				best = c
				improved = true
			} else {
				order[i], order[i+1] = order[i+1], order[i]
			}
		}
	}

	return order
}
