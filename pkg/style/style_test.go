package style

import (
	"testing"

	"github.com/archsketch/archsketch/pkg/arch"
)

func TestShapeFor(t *testing.T) {
	tests := []struct {
		name      string
		typ       arch.NodeType
		wantShape ShapeKind
		wantIcon  string
	}{
		{"Client", arch.TypeClient, ShapeEllipse, "📱"},
		{"Gateway", arch.TypeGateway, ShapeDiamond, "🚪"},
		{"Service", arch.TypeService, ShapeRectangle, "⚙️"},
		{"Database", arch.TypeDatabase, ShapeRectangle, "🗄️"},
		{"Cache", arch.TypeCache, ShapeRectangle, "⚡"},
		{"Queue", arch.TypeQueue, ShapeRectangle, "📬"},
		{"ThirdParty", arch.TypeThirdParty, ShapeRectangle, "🔌"},
		{"UnknownFallsBack", arch.NodeType("mainframe"), ShapeRectangle, "⚙️"},
		{"EmptyFallsBack", arch.NodeType(""), ShapeRectangle, "⚙️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, icon := ShapeFor(tt.typ)
			if shape != tt.wantShape {
				t.Errorf("shape = %q, want %q", shape, tt.wantShape)
			}
			if icon != tt.wantIcon {
				t.Errorf("icon = %q, want %q", icon, tt.wantIcon)
			}
		})
	}
}

func TestColorsFor(t *testing.T) {
	tests := []struct {
		name   string
		status arch.NodeStatus
		want   ColorPair
	}{
		{"New", arch.StatusNew, ColorPair{Stroke: "#2f9e44", Fill: "#d3f9d8"}},
		{"Modified", arch.StatusModified, ColorPair{Stroke: "#f59f00", Fill: "#fff3bf"}},
		{"Stable", arch.StatusStable, ColorPair{Stroke: "#868e96", Fill: "#e9ecef"}},
		{"UnknownFallsBackToStable", arch.NodeStatus("ancient"), ColorPair{Stroke: "#868e96", Fill: "#e9ecef"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorsFor(tt.status); got != tt.want {
				t.Errorf("ColorsFor(%q) = %+v, want %+v", tt.status, got, tt.want)
			}
		})
	}
}

func TestStrokeFor(t *testing.T) {
	tests := []struct {
		name        string
		interaction arch.Interaction
		want        Stroke
	}{
		{"Sync", arch.InteractionSync, Stroke{Style: "solid", Width: 2}},
		{"Async", arch.InteractionAsync, Stroke{Style: "dashed", Width: 2}},
		{"UnknownFallsBackToSync", arch.Interaction("telepathy"), Stroke{Style: "solid", Width: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrokeFor(tt.interaction); got != tt.want {
				t.Errorf("StrokeFor(%q) = %+v, want %+v", tt.interaction, got, tt.want)
			}
		})
	}
}
