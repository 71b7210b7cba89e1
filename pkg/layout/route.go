package layout

// busClearance is how far above the row top the single-layer bus line
// runs. Together with the node height it forms the fixed vertical offset
// from the source's bottom-center.
const busClearance = 50.0

// Point is one vertex of a connector polyline.
type Point struct {
	X float64
	Y float64
}

// Route is an ordered polyline between two node anchors. A valid route
// has at least two points.
type Route struct {
	Points []Point
}

// Route computes the connector path between two positioned nodes.
//
// In the multi-layer case the route is a straight 2-point path from the
// source's bottom-center to the target's top-center. In the single-layer
// case no vertical separation exists, so the route is a 4-point orthogonal
// bus: up from the source's bottom-center to a line clearing the row,
// across to the target's x, then down into the target's top-center.
//
// The boolean result is false when either endpoint has no position
// (dangling edge): callers must skip the edge and emit no connector.
// Self-loops are not special-cased and route degenerately.
func (r *Result) Route(sourceID, targetID string) (Route, bool) {
	src, okS := r.Positions[sourceID]
	dst, okT := r.Positions[targetID]
	if !okS || !okT {
		return Route{}, false
	}

	start := Point{X: src.CenterX(), Y: src.Bottom()}
	end := Point{X: dst.CenterX(), Y: dst.Top()}

	if !r.SingleLayer {
		return Route{Points: []Point{start, end}}, true
	}

	busY := src.Bottom() - src.Height - busClearance
	return Route{Points: []Point{
		start,
		{X: start.X, Y: busY},
		{X: end.X, Y: busY},
		end,
	}}, true
}
