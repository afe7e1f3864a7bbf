package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

// pointsPerInch is the Graphviz input scale: positions are read in points.
const pointsPerInch = 72.0

// DOT converts a scene to an undirected Graphviz graph with every node
// pinned at its layout position. Graphviz's y axis points up, so
// y is flipped against the scene height.
//
// Node IDs are prefixed with the graph index so that several graphs of an
// arranged scene can share IDs.
func DOT(s graph.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  inputscale=%g;\n", pointsPerInch)
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%.2f,%.2f\";\n", s.Width, s.Height)
	buf.WriteString("  node [shape=circle, fixedsize=true, width=0.3, style=filled, fillcolor=white, color=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")

	for gi := range s.Graphs {
		g := &s.Graphs[gi]
		buf.WriteString("\n")
		if g.Name != "" {
			fmt.Fprintf(&buf, "  // %s\n", strings.ReplaceAll(g.Name, "\n", " "))
		}
		for _, n := range g.Nodes {
			fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\"];\n",
				dotID(gi, n.ID), n.DisplayLabel(), n.X, s.Height-n.Y)
		}
		idx := g.Index()
		for _, e := range g.Edges {
			if _, ok := idx[e.From]; !ok {
				continue
			}
			if _, ok := idx[e.To]; !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %q -- %q", dotID(gi, e.From), dotID(gi, e.To))
			if c := bondColor(e.EffectiveOrder()); c != "" {
				fmt.Fprintf(&buf, " [color=%q]", c)
			}
			buf.WriteString(";\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotID(graphIndex int, id string) string {
	return fmt.Sprintf("g%d_%s", graphIndex, id)
}

// bondColor draws multiple bonds with Graphviz's parallel color list.
func bondColor(order float64) string {
	switch {
	case order >= 3:
		return "black:invis:black:invis:black"
	case order >= 2:
		return "black:invis:black"
	case order > 1:
		return "black:invis:gray60"
	default:
		return ""
	}
}

// PNG renders a scene to PNG with Graphviz. The neato engine keeps pinned
// positions, so the image matches the computed layout.
func PNG(ctx context.Context, s graph.Scene) ([]byte, error) {
	return renderDOT(ctx, DOT(s), graphviz.PNG)
}

// GraphvizSVG renders a scene to SVG with Graphviz instead of the built-in
// SVG writer.
func GraphvizSVG(ctx context.Context, s graph.Scene) ([]byte, error) {
	return renderDOT(ctx, DOT(s), graphviz.SVG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
