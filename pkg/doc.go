// Package pkg provides the core libraries for Archsketch diagram synthesis.
//
// # Overview
//
// Archsketch transforms architecture evolution snapshots into ready-to-open
// Excalidraw diagrams. Each snapshot describes one round of a system's
// evolution (components, interactions, tracking notes); the libraries here
// turn it into a deterministic layered diagram. The pkg directory is
// organized into four main areas:
//
//  1. Domain model and styling ([arch], [style])
//  2. Layout and synthesis ([layout], [diagram], [render])
//  3. Infrastructure ([cache], [store], [observability])
//  4. Orchestration ([pipeline])
//
// # Architecture
//
// The typical data flow through Archsketch:
//
//	Snapshot JSON
//	         ↓
//	    [arch] package (decode + validate)
//	         ↓
//	    [layout] package (leveling, ordering, coordinates, routing)
//	         ↓
//	    [diagram] package (Excalidraw element synthesis)
//	         ↓
//	    Excalidraw/DOT/SVG output
//
// # Quick Start
//
// Synthesize a snapshot into an Excalidraw document:
//
//	import (
//	    "github.com/archsketch/archsketch/pkg/arch"
//	    "github.com/archsketch/archsketch/pkg/diagram"
//	)
//
//	snap, _ := arch.ReadSnapshotFile("round3.json")
//	doc, stats, _ := diagram.NewSynthesizer().Synthesize(snap)
//	_ = diagram.WriteDocumentFile(doc, "round3.excalidraw.json")
//	_ = stats
//
// # Main Packages
//
// [arch] - Snapshot model: rounds, nodes, edges, evolution tracking, and
// structural validation. Unknown enum values are tolerated here and absorbed
// by style fallbacks downstream.
//
// [style] - Total mapping from node types, statuses, and interactions to
// visual attributes (shape, colors, icon, stroke style). Every lookup has a
// defined fallback, so styling never fails.
//
// [layout] - Deterministic layered layout: Kahn leveling with a cycle
// catch-all layer, barycenter ordering, adjacent-swap refinement, fixed-grid
// coordinates, and straight or orthogonal bus edge routing.
//
// [diagram] - Synthesis of positioned layouts into a flat list of
// Excalidraw-compatible primitives (shapes, text, arrows, tracking panel).
//
// [render] - Alternative preview formats. [render/dot] emits Graphviz DOT
// and renders SVG previews.
//
// [cache] - Content-addressed memoization of synthesized documents and
// rendered previews, with file, Redis, and null backends.
//
// [store] - Durable round persistence (snapshots and documents) with file
// and MongoDB backends.
//
// [pipeline] - Complete synthesis pipeline (validate → layout → synthesize →
// render) used by both the CLI and the HTTP API. Ensures consistent behavior
// across entry points.
//
// [observability] - Lifecycle hooks for synthesis, caching, and the HTTP
// server, with no-op defaults.
//
// [errors] - Coded errors shared across packages, mapped to exit codes and
// HTTP statuses at the edges.
//
// [buildinfo] - Build-time version information injected via ldflags.
package pkg
