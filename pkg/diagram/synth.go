package diagram

import (
	"fmt"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/layout"
	"github.com/archsketch/archsketch/pkg/style"
)

// Tracking panel geometry.
const (
	trackingGapX      = 50.0  // gap right of the rightmost node
	trackingY         = 200.0 // panel top
	trackingIndent    = 20.0  // bullet indent under a heading
	trackingLineStep  = 25.0  // vertical step between bullets
	trackingHeadStep  = 30.0  // gap between a heading and its first bullet
	trackingBlockStep = 150.0 // gap between the solved and backlog blocks
)

// Per-node text stack geometry, relative to the node box.
const (
	labelOffsetY = 15.0
	techOffsetY  = 45.0
	alertOffsetY = 70.0
	alertStep    = 18.0
	textInset    = 10.0
)

// Stats summarizes one synthesis run for logging and UI.
type Stats struct {
	Nodes        int
	Edges        int
	DroppedEdges int // edges skipped because an endpoint had no position
	Layers       int
	SingleLayer  bool
}

// Synthesizer converts snapshots into diagram documents. A zero-configured
// Synthesizer from [NewSynthesizer] uses the default layout geometry.
//
// Synthesizers hold no per-call state and are safe for concurrent use;
// each Synthesize call runs a fresh layout and allocates a fresh document.
type Synthesizer struct {
	engine *layout.Engine
}

// NewSynthesizer creates a synthesizer with the default layout engine.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{engine: layout.New()}
}

// NewSynthesizerWithEngine creates a synthesizer with a custom engine,
// used by tests and by callers overriding geometry from configuration.
func NewSynthesizerWithEngine(e *layout.Engine) *Synthesizer {
	return &Synthesizer{engine: e}
}

// Synthesize produces the full drawable document for one snapshot:
// title block, per-node shape/label/tech/alert stack, per-edge connector
// (+ optional label), and the evolution-tracking side panel.
//
// Missing optional fields (tech stack, rationale, alerts, tracking) simply
// suppress their primitives. Dangling edges are dropped silently and
// counted in Stats.DroppedEdges. The only error condition is a structural
// contract violation reported by [arch.Snapshot.Validate]; no layout or
// emission happens for an invalid snapshot.
//
// Emission order is deterministic given deterministic input: title,
// nodes in input order, edges in input order, then tracking. Ordering
// carries no rendering semantics but keeps output comparable in tests.
func (sy *Synthesizer) Synthesize(snap arch.Snapshot) (Document, Stats, error) {
	if err := snap.Validate(); err != nil {
		return Document{}, Stats{}, err
	}

	em := &emitter{}

	em.title(snap)

	nodes := snap.Architecture.Nodes
	edges := snap.Architecture.Edges
	res := sy.engine.Compute(nodes, edges)

	for _, n := range nodes {
		pos, ok := res.Positions[n.ID]
		if !ok {
			continue // Compute positions every input node
		}
		em.node(n, pos)
	}

	dropped := 0
	for _, e := range edges {
		route, ok := res.Route(e.Source, e.Target)
		if !ok {
			dropped++
			continue
		}
		em.edge(e, route)
	}

	if snap.EvolutionTracking != nil {
		em.tracking(*snap.EvolutionTracking, res)
	}

	doc := Document{
		Type:     DocumentType,
		Version:  DocumentVersion,
		Source:   DocumentSource,
		Elements: em.elements,
	}
	stats := Stats{
		Nodes:        len(nodes),
		Edges:        len(edges),
		DroppedEdges: dropped,
		Layers:       len(res.Layers),
		SingleLayer:  res.SingleLayer,
	}
	return doc, stats, nil
}

// emitter accumulates elements for one synthesis call. The counter feeds
// ids for anonymous text primitives; node and edge primitives use ids
// derived from their origin for traceability.
type emitter struct {
	elements []Element
	counter  int
}

func (em *emitter) add(e Element) {
	em.elements = append(em.elements, e)
}

func (em *emitter) nextID() string {
	em.counter++
	return fmt.Sprintf("element_%d", em.counter)
}

func (em *emitter) title(snap arch.Snapshot) {
	t := baseElement(em.nextID(), KindText)
	t.X, t.Y = 50, 20
	t.Width, t.Height = 600, 40
	t.Text = fmt.Sprintf("Round %d: %s", snap.RoundID, snap.RoundTitle)
	t.FontSize = style.FontSizeTitle
	t.FontFamily = 1
	t.TextAlign = "left"
	t.VerticalAlign = "top"
	t.Baseline = 32
	t.StrokeColor = style.ColorTitle
	t.FontStyle = "bold"
	t.LineHeight = 1.25
	em.add(t)

	if snap.DecisionRationale == "" {
		return
	}
	r := baseElement(em.nextID(), KindText)
	r.X, r.Y = 50, 70
	r.Width, r.Height = 800, 30
	r.Text = "💡 " + snap.DecisionRationale
	r.FontSize = style.FontSizeRationale
	r.FontFamily = 1
	r.TextAlign = "left"
	r.VerticalAlign = "top"
	r.Baseline = 20
	r.StrokeColor = style.ColorMuted
	r.LineHeight = 1.25
	em.add(r)
}

func (em *emitter) node(n arch.Node, pos layout.Position) {
	shapeKind, icon := style.ShapeFor(n.Type)
	colors := style.ColorsFor(n.Status)

	shape := baseElement("shape_"+n.ID, string(shapeKind))
	shape.X, shape.Y = pos.X, pos.Y
	shape.Width, shape.Height = pos.Width, pos.Height
	shape.StrokeColor = colors.Stroke
	shape.BackgroundColor = colors.Fill
	if shapeKind == style.ShapeRectangle {
		shape.Roundness = &Roundness{Type: 3}
	} else {
		shape.Roundness = &Roundness{Type: 2}
	}
	em.add(shape)

	label := baseElement("label_"+n.ID, KindText)
	label.X, label.Y = pos.X+textInset, pos.Y+labelOffsetY
	label.Width, label.Height = pos.Width-2*textInset, 25
	label.Text = icon + " " + n.DisplayLabel()
	label.FontSize = style.FontSizeLabel
	label.FontFamily = 1
	label.TextAlign = "center"
	label.VerticalAlign = "top"
	label.Baseline = 20
	label.StrokeColor = style.ColorLabel
	label.LineHeight = 1.25
	em.add(label)

	if n.TechStack != "" {
		tech := baseElement("tech_"+n.ID, KindText)
		tech.X, tech.Y = pos.X+textInset, pos.Y+techOffsetY
		tech.Width, tech.Height = pos.Width-2*textInset, 20
		tech.Text = n.TechStack
		tech.FontSize = style.FontSizeTech
		tech.FontFamily = 1
		tech.TextAlign = "center"
		tech.VerticalAlign = "top"
		tech.Baseline = 14
		tech.StrokeColor = style.ColorMuted
		tech.LineHeight = 1.25
		em.add(tech)
	}

	alertY := pos.Y + alertOffsetY
	for i, alert := range n.Alerts {
		a := baseElement(fmt.Sprintf("alert_%s_%d", n.ID, i), KindText)
		a.X, a.Y = pos.X+textInset, alertY
		a.Width, a.Height = pos.Width-2*textInset, 15
		a.Text = "⚠️ " + alert
		a.FontSize = style.FontSizeAlert
		a.FontFamily = 1
		a.TextAlign = "left"
		a.VerticalAlign = "top"
		a.Baseline = 12
		a.StrokeColor = style.ColorAlert
		a.LineHeight = 1.25
		em.add(a)
		alertY += alertStep
	}
}

func (em *emitter) edge(e arch.Edge, route layout.Route) {
	stroke := style.StrokeFor(e.Interaction)
	origin := route.Points[0]

	arrow := baseElement(fmt.Sprintf("edge_%s_%s", e.Source, e.Target), KindArrow)
	arrow.X, arrow.Y = origin.X, origin.Y
	arrow.StrokeColor = style.ColorEdge
	arrow.StrokeWidth = stroke.Width
	arrow.StrokeStyle = stroke.Style
	arrow.EndArrowhead = "arrow"

	minX, maxX := origin.X, origin.X
	minY, maxY := origin.Y, origin.Y
	arrow.Points = make([][2]float64, len(route.Points))
	for i, p := range route.Points {
		arrow.Points[i] = [2]float64{p.X - origin.X, p.Y - origin.Y}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	arrow.Width = maxX - minX
	arrow.Height = maxY - minY
	em.add(arrow)

	if e.Label == "" {
		return
	}

	// Center the label on the route's middle segment with an opaque
	// background so it stays legible over crossing lines.
	mid := middleSegmentMidpoint(route.Points)
	label := baseElement(fmt.Sprintf("edge_label_%s_%s", e.Source, e.Target), KindText)
	label.X, label.Y = mid.X-50, mid.Y-10
	label.Width, label.Height = 100, 20
	label.Text = e.Label
	label.FontSize = style.FontSizeEdgeLabel
	label.FontFamily = 1
	label.TextAlign = "center"
	label.VerticalAlign = "middle"
	label.Baseline = 15
	label.StrokeColor = style.ColorEdgeText
	label.BackgroundColor = "#ffffff"
	label.StrokeWidth = 1
	label.LineHeight = 1.25
	em.add(label)
}

// middleSegmentMidpoint returns the midpoint of the middle segment of a
// polyline: for a straight 2-point route that is the segment's midpoint;
// for the 4-point bus route it is the center of the horizontal crossbar.
func middleSegmentMidpoint(points []layout.Point) layout.Point {
	i := (len(points) - 1) / 2
	a, b := points[i], points[i+1]
	return layout.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func (em *emitter) tracking(tr arch.Tracking, res *layout.Result) {
	maxX := 1000.0
	if len(res.Positions) > 0 {
		maxX = 0
		for _, p := range res.Positions {
			if right := p.X + p.Width; right > maxX {
				maxX = right
			}
		}
	}
	x := maxX + trackingGapX

	y := trackingY
	if len(tr.SolvedIssues) > 0 {
		em.trackingBlock(x, y, "✅ Solved issues:", style.ColorSolved, style.ColorMuted, tr.SolvedIssues)
	}
	if len(tr.NewBacklog) > 0 {
		if len(tr.SolvedIssues) > 0 {
			y += trackingBlockStep
		}
		em.trackingBlock(x, y, "⚠️ New issues:", style.ColorBacklog, style.ColorAlert, tr.NewBacklog)
	}
}

func (em *emitter) trackingBlock(x, y float64, heading, headColor, bulletColor string, issues []string) {
	h := baseElement(em.nextID(), KindText)
	h.X, h.Y = x, y
	h.Width, h.Height = 300, 25
	h.Text = heading
	h.FontSize = style.FontSizeTracking
	h.FontFamily = 1
	h.TextAlign = "left"
	h.VerticalAlign = "top"
	h.Baseline = 20
	h.StrokeColor = headColor
	h.FontStyle = "bold"
	h.LineHeight = 1.25
	em.add(h)

	bulletY := y + trackingHeadStep
	for _, issue := range issues {
		b := baseElement(em.nextID(), KindText)
		b.X, b.Y = x+trackingIndent, bulletY
		b.Width, b.Height = 280, 20
		b.Text = "• " + issue
		b.FontSize = style.FontSizeBullet
		b.FontFamily = 1
		b.TextAlign = "left"
		b.VerticalAlign = "top"
		b.Baseline = 15
		b.StrokeColor = bulletColor
		b.LineHeight = 1.25
		em.add(b)
		bulletY += trackingLineStep
	}
}
