package layout

import (
	"slices"
	"testing"

	"github.com/archsketch/archsketch/pkg/arch"
)

func nodes(ids ...string) []arch.Node {
	ns := make([]arch.Node, len(ids))
	for i, id := range ids {
		ns[i] = arch.Node{ID: id, Type: arch.TypeService, Status: arch.StatusStable}
	}
	return ns
}

func edge(src, dst string) arch.Edge {
	return arch.Edge{Source: src, Target: dst, Interaction: arch.InteractionSync}
}

func flatten(layers [][]string) []string {
	var all []string
	for _, l := range layers {
		all = append(all, l...)
	}
	return all
}

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []arch.Node
		edges      []arch.Edge
		wantLayers [][]string
	}{
		{
			name:       "Empty",
			nodes:      nil,
			edges:      nil,
			wantLayers: nil,
		},
		{
			name:       "Chain",
			nodes:      nodes("a", "b", "c"),
			edges:      []arch.Edge{edge("a", "b"), edge("b", "c")},
			wantLayers: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:       "Diamond",
			nodes:      nodes("a", "b", "c", "d"),
			edges:      []arch.Edge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")},
			wantLayers: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name:       "NoEdgesSingleLayer",
			nodes:      nodes("x", "y", "z"),
			edges:      nil,
			wantLayers: [][]string{{"x", "y", "z"}},
		},
		{
			name:       "ThreeCycleFallsIntoOneLayer",
			nodes:      nodes("a", "b", "c"),
			edges:      []arch.Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")},
			wantLayers: [][]string{{"a", "b", "c"}},
		},
		{
			name:       "CycleBehindRootGetsTrailingLayer",
			nodes:      nodes("root", "p", "q"),
			edges:      []arch.Edge{edge("root", "p"), edge("p", "q"), edge("q", "p")},
			wantLayers: [][]string{{"root"}, {"p", "q"}},
		},
		{
			name:       "DanglingEdgeIgnored",
			nodes:      nodes("a", "b"),
			edges:      []arch.Edge{edge("a", "b"), edge("a", "ghost"), edge("ghost", "b")},
			wantLayers: [][]string{{"a"}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assignLayers(tt.nodes, tt.edges)
			if len(got) != len(tt.wantLayers) {
				t.Fatalf("layers = %v, want %v", got, tt.wantLayers)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.wantLayers[i]) {
					t.Errorf("layer %d = %v, want %v", i, got[i], tt.wantLayers[i])
				}
			}
		})
	}
}

// Every node lands in exactly one layer, even with cycles present.
func TestLayeringTotality(t *testing.T) {
	ns := nodes("a", "b", "c", "d", "e", "f")
	es := []arch.Edge{
		edge("a", "b"),
		edge("b", "c"), edge("c", "d"), edge("d", "b"), // cycle b→c→d→b
		edge("a", "e"),
	}

	layers := assignLayers(ns, es)
	all := flatten(layers)
	slices.Sort(all)
	want := []string{"a", "b", "c", "d", "e", "f"}
	if !slices.Equal(all, want) {
		t.Errorf("assigned nodes = %v, want %v", all, want)
	}

	seen := make(map[string]int)
	for _, l := range layers {
		for _, id := range l {
			seen[id]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("node %s assigned %d times", id, n)
		}
	}
}

func TestBarycenterOrdering(t *testing.T) {
	// Layer 0 fixed as [l, r]. In layer 1, "x" hangs under r and "y" under
	// l; barycenter ordering must flip them to [y, x].
	layers := [][]string{{"l", "r"}, {"x", "y"}}
	es := []arch.Edge{edge("r", "x"), edge("l", "y")}

	orderLayers(layers, es)
	if !slices.Equal(layers[1], []string{"y", "x"}) {
		t.Errorf("layer 1 = %v, want [y x]", layers[1])
	}
}

func TestBarycenterOrphansSortLast(t *testing.T) {
	layers := [][]string{{"a"}, {"orphan", "child"}}
	es := []arch.Edge{edge("a", "child")}

	orderLayers(layers, es)
	if !slices.Equal(layers[1], []string{"child", "orphan"}) {
		t.Errorf("layer 1 = %v, want [child orphan]", layers[1])
	}
}

// Running the barycenter pass twice on a tie-free DAG yields the same
// order as running it once.
func TestBarycenterIdempotent(t *testing.T) {
	es := []arch.Edge{
		edge("a", "q"), edge("a", "p"),
		edge("b", "p"), edge("b", "r"),
		edge("c", "r"),
	}
	layers := [][]string{{"a", "b", "c"}, {"r", "q", "p"}}

	orderLayers(layers, es)
	once := slices.Clone(layers[1])
	orderLayers(layers, es)
	if !slices.Equal(layers[1], once) {
		t.Errorf("second pass changed order: %v → %v", once, layers[1])
	}
}

func TestSingleLayerOrderingNeverWorsens(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges []arch.Edge
	}{
		{
			name:  "CrossingPair",
			ids:   []string{"a", "b", "c", "d"},
			edges: []arch.Edge{edge("a", "d"), edge("c", "b")},
		},
		{
			name: "ThreeCycle",
			ids:  []string{"a", "b", "c"},
			edges: []arch.Edge{
				edge("a", "b"), edge("b", "c"), edge("c", "a"),
			},
		},
		{
			name:  "NoEdges",
			ids:   []string{"x", "y"},
			edges: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := CountCrossings(tt.edges, PosMap(tt.ids))
			order := orderSingleLayer(tt.ids, tt.edges)
			after := CountCrossings(tt.edges, PosMap(order))

			if after > before {
				t.Errorf("crossings went %d → %d", before, after)
			}

			sorted := slices.Clone(order)
			slices.Sort(sorted)
			wantSorted := slices.Clone(tt.ids)
			slices.Sort(wantSorted)
			if !slices.Equal(sorted, wantSorted) {
				t.Errorf("ordering lost nodes: %v", order)
			}
		})
	}
}

func TestCountCrossings(t *testing.T) {
	pos := PosMap([]string{"a", "b", "c", "d"})
	tests := []struct {
		name  string
		edges []arch.Edge
		want  int
	}{
		{"None", nil, 0},
		{"Parallel", []arch.Edge{edge("a", "c"), edge("b", "d")}, 0},
		{"Nested", []arch.Edge{edge("a", "d"), edge("b", "c")}, 1},
		{"Crossing", []arch.Edge{edge("a", "d"), edge("c", "b")}, 1},
		{"SharedEndpointNoCross", []arch.Edge{edge("a", "c"), edge("b", "c")}, 0},
		{"DanglingIgnored", []arch.Edge{edge("a", "ghost"), edge("c", "b")}, 0},
		{"SelfLoopIgnored", []arch.Edge{edge("a", "a"), edge("c", "b")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCrossings(tt.edges, pos); got != tt.want {
				t.Errorf("CountCrossings = %d, want %d", got, tt.want)
			}
		})
	}
}

// Nodes in one layer never overlap horizontally given fixed spacing.
func TestNoHorizontalOverlap(t *testing.T) {
	eng := New()
	ns := nodes("a", "b", "c", "d", "e")
	res := eng.Compute(ns, nil) // one wide layer

	layer := res.Layers[0]
	for i := 0; i+1 < len(layer); i++ {
		left := res.Positions[layer[i]]
		right := res.Positions[layer[i+1]]
		if left.X+left.Width > right.X {
			t.Errorf("nodes %s and %s overlap: [%f,%f] vs [%f,...]",
				layer[i], layer[i+1], left.X, left.X+left.Width, right.X)
		}
	}
}

func TestComputeConcreteTwoNode(t *testing.T) {
	eng := New()
	ns := []arch.Node{
		{ID: "a", Type: arch.TypeClient, Status: arch.StatusNew},
		{ID: "b", Type: arch.TypeService, Status: arch.StatusStable},
	}
	es := []arch.Edge{edge("a", "b")}

	res := eng.Compute(ns, es)

	if len(res.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(res.Layers))
	}
	if !slices.Equal(res.Layers[0], []string{"a"}) || !slices.Equal(res.Layers[1], []string{"b"}) {
		t.Errorf("layers = %v", res.Layers)
	}
	if res.SingleLayer {
		t.Error("SingleLayer = true for a 2-layer graph")
	}

	a, b := res.Positions["a"], res.Positions["b"]
	if b.Y-a.Y != eng.LayerSpacing {
		t.Errorf("vertical gap = %f, want %f", b.Y-a.Y, eng.LayerSpacing)
	}

	route, ok := res.Route("a", "b")
	if !ok {
		t.Fatal("Route returned no path for positioned endpoints")
	}
	if len(route.Points) != 2 {
		t.Fatalf("points = %d, want straight 2-point path", len(route.Points))
	}
	if route.Points[0] != (Point{X: a.CenterX(), Y: a.Bottom()}) {
		t.Errorf("start = %+v, want source bottom-center", route.Points[0])
	}
	if route.Points[1] != (Point{X: b.CenterX(), Y: b.Top()}) {
		t.Errorf("end = %+v, want target top-center", route.Points[1])
	}
}

func TestComputeThreeCycleUsesBusRouting(t *testing.T) {
	eng := New()
	ns := nodes("a", "b", "c")
	es := []arch.Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")}

	res := eng.Compute(ns, es)

	if !res.SingleLayer {
		t.Fatal("3-cycle should collapse into a single layer")
	}
	if len(res.Layers) != 1 || len(res.Layers[0]) != 3 {
		t.Fatalf("layers = %v", res.Layers)
	}

	for _, e := range es {
		route, ok := res.Route(e.Source, e.Target)
		if !ok {
			t.Fatalf("route %s→%s missing", e.Source, e.Target)
		}
		if len(route.Points) != 4 {
			t.Errorf("route %s→%s has %d points, want 4-point bus",
				e.Source, e.Target, len(route.Points))
		}
		// The bus line must clear the row: both middle points above row top.
		top := res.Positions[e.Source].Top()
		if route.Points[1].Y >= top || route.Points[2].Y >= top {
			t.Errorf("bus segment does not clear the row: %+v", route.Points)
		}
	}
}

func TestRouteDanglingEndpoint(t *testing.T) {
	eng := New()
	res := eng.Compute(nodes("a"), nil)

	if _, ok := res.Route("a", "ghost"); ok {
		t.Error("route to missing target should report no path")
	}
	if _, ok := res.Route("ghost", "a"); ok {
		t.Error("route from missing source should report no path")
	}
}

func TestComputeIsFreshPerCall(t *testing.T) {
	eng := New()
	ns := nodes("a", "b")
	es := []arch.Edge{edge("a", "b")}

	first := eng.Compute(ns, es)
	second := eng.Compute(ns, es)

	if &first.Positions == &second.Positions {
		t.Fatal("Compute must not share position maps between calls")
	}
	for id, p := range first.Positions {
		if second.Positions[id] != p {
			t.Errorf("layout not deterministic for %s: %+v vs %+v", id, p, second.Positions[id])
		}
	}
}
