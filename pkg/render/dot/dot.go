// Package dot renders architecture snapshots as Graphviz DOT and SVG
// previews. The DOT export is a quick-look companion to the full diagram
// document: Graphviz does its own layout, so only the semantic styling
// (status colors, interaction stroke, node shape) carries over.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/errors"
	"github.com/archsketch/archsketch/pkg/style"
)

// Options configures DOT rendering.
type Options struct {
	// Detailed includes tech stack and alerts in node labels.
	// When false, only the node label is shown.
	Detailed bool
}

var shapeToDOT = map[style.ShapeKind]string{
	style.ShapeRectangle: "box",
	style.ShapeEllipse:   "ellipse",
	style.ShapeDiamond:   "diamond",
}

// ToDOT converts a snapshot to Graphviz DOT. The resulting string can be
// rendered with [RenderSVG]. Edges referencing unknown nodes are emitted
// as-is; Graphviz materializes the missing endpoint, which makes dangling
// references visible rather than silently dropped in this preview format.
func ToDOT(snap arch.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph architecture {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("Round %d: %s", snap.RoundID, snap.RoundTitle))
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  node [style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range snap.Architecture.Nodes {
		attrs := nodeAttrs(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Architecture.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n arch.Node, detailed bool) []string {
	shape, _ := style.ShapeFor(n.Type)
	colors := style.ColorsFor(n.Status)

	label := n.DisplayLabel()
	if detailed {
		parts := []string{label}
		if n.TechStack != "" {
			parts = append(parts, n.TechStack)
		}
		for _, alert := range n.Alerts {
			parts = append(parts, "! "+alert)
		}
		label = strings.Join(parts, "\n")
	}

	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("shape=%s", shapeToDOT[shape]),
		fmt.Sprintf("fillcolor=%q", colors.Fill),
		fmt.Sprintf("color=%q", colors.Stroke),
	}
}

func edgeAttrs(e arch.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if style.StrokeFor(e.Interaction).Style == "dashed" {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg tag so the viewBox starts at the
// origin, which keeps embedded previews from clipping.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
