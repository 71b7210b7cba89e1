// Package layout turns an architecture node/edge graph into absolute 2D
// positions plus connector routes.
//
// The engine runs three steps per call:
//
//  1. Layering: wave-based topological leveling (see layering.go). Cyclic
//     remainders land in one final catch-all layer, so leveling is total
//     even for non-DAG inputs.
//  2. Intra-layer ordering: crossing reduction (see ordering.go). Multi-layer
//     graphs use a top-down barycenter pass; single-layer graphs use
//     adjacent-swap hill climbing on the pairwise crossing count.
//  3. Coordinate assignment: deterministic grid placement. Layer index maps
//     to a fixed vertical offset and each row is horizontally centered
//     within the canvas.
//
// Every call builds fresh state and returns a new [Result]; nothing is
// shared between invocations, so an Engine may be used from any number of
// goroutines concurrently.
package layout

import (
	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/style"
)

// Position is the axis-aligned bounding box computed for one node.
type Position struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CenterX returns the horizontal center of the box.
func (p Position) CenterX() float64 { return p.X + p.Width/2 }

// CenterY returns the vertical center of the box.
func (p Position) CenterY() float64 { return p.Y + p.Height/2 }

// Top returns the y coordinate of the top edge.
func (p Position) Top() float64 { return p.Y }

// Bottom returns the y coordinate of the bottom edge.
func (p Position) Bottom() float64 { return p.Y + p.Height }

// Engine computes layouts with fixed spacing constants.
// The zero value is not usable; create engines with [New].
type Engine struct {
	CanvasWidth  float64
	LayerSpacing float64
	NodeSpacing  float64
	Margin       float64
	TitleGap     float64
	NodeWidth    float64
	NodeHeight   float64
}

// New returns an engine configured with the default geometry constants.
func New() *Engine {
	return &Engine{
		CanvasWidth:  style.CanvasWidth,
		LayerSpacing: style.LayerSpacing,
		NodeSpacing:  style.NodeSpacing,
		Margin:       style.Margin,
		TitleGap:     style.TitleGap,
		NodeWidth:    style.NodeWidth,
		NodeHeight:   style.NodeHeight,
	}
}

// Result is the outcome of one layout computation. It is never mutated
// after Compute returns; re-layout produces a fresh Result.
type Result struct {
	// Positions maps node ID to its bounding box. Nodes absent from the
	// input have no entry; callers must treat a missing entry as a
	// degenerate position and skip dependent geometry.
	Positions map[string]Position

	// Layers holds the final ordered layering: Layers[i] is the
	// left-to-right node ID sequence of layer i.
	Layers [][]string

	// SingleLayer reports whether leveling collapsed the whole graph into
	// one layer. It selects the connector routing mode.
	SingleLayer bool
}

// Compute assigns every node to a layer, orders each layer to reduce edge
// crossings, and places nodes on the canvas. The input slices are not
// modified. Compute never fails: cycles, dangling edges, and empty graphs
// all produce a (possibly empty) Result.
func (e *Engine) Compute(nodes []arch.Node, edges []arch.Edge) *Result {
	layers := assignLayers(nodes, edges)
	single := len(layers) == 1

	if single {
		layers[0] = orderSingleLayer(layers[0], edges)
	} else {
		orderLayers(layers, edges)
	}

	res := &Result{
		Positions:   make(map[string]Position, len(nodes)),
		Layers:      layers,
		SingleLayer: single,
	}

	startY := e.Margin + e.TitleGap
	for i, layer := range layers {
		y := startY + float64(i)*e.LayerSpacing
		rowWidth := float64(len(layer)) * e.NodeSpacing
		startX := (e.CanvasWidth - rowWidth) / 2
		for j, id := range layer {
			res.Positions[id] = Position{
				X:      startX + float64(j)*e.NodeSpacing,
				Y:      y,
				Width:  e.NodeWidth,
				Height: e.NodeHeight,
			}
		}
	}

	return res
}

// PosMap creates a position-index lookup from an ordered slice of node IDs.
// It is used to convert orderings into fast lookups for crossing counts.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
