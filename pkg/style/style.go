// Package style maps semantic node and edge attributes to visual attributes.
//
// All mappings are total functions over closed enumerations with explicit
// fallbacks: an unrecognized node type renders as a generic service
// rectangle, an unrecognized status as the stable gray pair, and an
// unrecognized interaction as a solid sync stroke. Nothing here fails.
//
// The package holds no state beyond read-only constants and is safe to
// call concurrently from any number of goroutines.
package style

import "github.com/archsketch/archsketch/pkg/arch"

// ShapeKind is the drawable shape class for a node.
type ShapeKind string

// Supported shape kinds. These match the primitive kinds emitted by the
// diagram package one-to-one.
const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeDiamond   ShapeKind = "diamond"
)

// ColorPair is a stroke/fill color pairing derived from node status.
type ColorPair struct {
	Stroke string
	Fill   string
}

// Stroke is a stroke style derived from edge interaction kind.
type Stroke struct {
	Style string // "solid" or "dashed"
	Width int
}

// Geometry constants for layout and emission. These are fixed: every node
// shares one size, and rows are centered within the canvas width.
const (
	NodeWidth    = 200.0
	NodeHeight   = 100.0
	CanvasWidth  = 2000.0
	LayerSpacing = 250.0
	NodeSpacing  = 300.0
	Margin       = 100.0
	TitleGap     = 150.0 // vertical room reserved above the first layer
)

// Font sizes for the text primitives.
const (
	FontSizeTitle     = 24
	FontSizeRationale = 14
	FontSizeLabel     = 16
	FontSizeTech      = 12
	FontSizeAlert     = 11
	FontSizeEdgeLabel = 12
	FontSizeTracking  = 14
	FontSizeBullet    = 12
)

// Text colors.
const (
	ColorTitle    = "#1e1e1e"
	ColorLabel    = "#1e1e1e"
	ColorMuted    = "#495057"
	ColorAlert    = "#c92a2a"
	ColorSolved   = "#2f9e44"
	ColorBacklog  = "#f59f00"
	ColorEdge     = "#1e1e1e"
	ColorEdgeText = "#495057"
)

var typeToShape = map[arch.NodeType]ShapeKind{
	arch.TypeClient:     ShapeEllipse,
	arch.TypeGateway:    ShapeDiamond,
	arch.TypeService:    ShapeRectangle,
	arch.TypeDatabase:   ShapeRectangle,
	arch.TypeCache:      ShapeRectangle,
	arch.TypeQueue:      ShapeRectangle,
	arch.TypeThirdParty: ShapeRectangle,
}

var typeToIcon = map[arch.NodeType]string{
	arch.TypeClient:     "📱",
	arch.TypeGateway:    "🚪",
	arch.TypeService:    "⚙️",
	arch.TypeDatabase:   "🗄️",
	arch.TypeCache:      "⚡",
	arch.TypeQueue:      "📬",
	arch.TypeThirdParty: "🔌",
}

var statusToColors = map[arch.NodeStatus]ColorPair{
	arch.StatusNew:      {Stroke: "#2f9e44", Fill: "#d3f9d8"},
	arch.StatusModified: {Stroke: "#f59f00", Fill: "#fff3bf"},
	arch.StatusStable:   {Stroke: "#868e96", Fill: "#e9ecef"},
}

var interactionToStroke = map[arch.Interaction]Stroke{
	arch.InteractionSync:  {Style: "solid", Width: 2},
	arch.InteractionAsync: {Style: "dashed", Width: 2},
}

// ShapeFor returns the shape kind and icon glyph for a node type.
// Unrecognized types fall back to the generic service rectangle and gear.
func ShapeFor(t arch.NodeType) (ShapeKind, string) {
	shape, ok := typeToShape[t]
	if !ok {
		shape = ShapeRectangle
	}
	icon, ok := typeToIcon[t]
	if !ok {
		icon = typeToIcon[arch.TypeService]
	}
	return shape, icon
}

// ColorsFor returns the stroke/fill pair for a node status.
// Unrecognized statuses fall back to the stable gray pair.
func ColorsFor(s arch.NodeStatus) ColorPair {
	if c, ok := statusToColors[s]; ok {
		return c
	}
	return statusToColors[arch.StatusStable]
}

// StrokeFor returns the stroke style for an edge interaction kind.
// Unrecognized kinds fall back to the solid sync stroke.
func StrokeFor(i arch.Interaction) Stroke {
	if s, ok := interactionToStroke[i]; ok {
		return s
	}
	return interactionToStroke[arch.InteractionSync]
}
