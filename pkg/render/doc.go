// Package render provides preview rendering for architecture snapshots.
//
// # Overview
//
// The canonical Archsketch output is the Excalidraw document produced by the
// diagram package. This package holds the alternative, non-editable preview
// formats:
//
//   - Graphviz DOT and SVG previews (in [dot] subpackage)
//
// # Previews
//
// The [dot] subpackage renders a snapshot as a Graphviz digraph, either as
// DOT text or as an SVG rendered in-process via goccy/go-graphviz. Previews
// are lossy on purpose: they show graph structure and styling but not the
// fixed-grid geometry of the Excalidraw document.
//
//	text := dot.ToDOT(snap, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, text)
//
// [dot]: github.com/archsketch/archsketch/pkg/render/dot
package render
