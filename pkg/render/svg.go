package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

const (
	defaultNodeRadius = 9.0
	defaultBondGap    = 6.0
	defaultStroke     = "#222222"
	defaultFontSize   = 14.0
)

// elementColors follows the usual CPK convention for heteroatoms. Carbon
// and unknown symbols use the stroke color.
var elementColors = map[string]string{
	"N":  "#3050F8",
	"O":  "#E02020",
	"S":  "#C8A000",
	"P":  "#FF8000",
	"F":  "#50B000",
	"Cl": "#1FB01F",
	"Br": "#A62929",
	"I":  "#940094",
	"B":  "#E08070",
}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	radius     float64
	gap        float64
	stroke     string
	background string
}

// WithoutLabels draws atoms as plain dots.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithNodeRadius sets the atom circle radius.
func WithNodeRadius(radius float64) SVGOption { return func(r *svgRenderer) { r.radius = radius } }

// WithBondGap sets the distance between the lines of a multiple bond.
func WithBondGap(gap float64) SVGOption { return func(r *svgRenderer) { r.gap = gap } }

// WithStroke sets the color of bonds and carbon labels.
func WithStroke(color string) SVGOption { return func(r *svgRenderer) { r.stroke = color } }

// WithBackground fills the canvas. The default is transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// SVG draws a scene at its own size. Every graph becomes one <g> element;
// bonds are drawn first so atom circles cover the line ends.
func SVG(s graph.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{
		labels: true,
		radius: defaultNodeRadius,
		gap:    defaultBondGap,
		stroke: defaultStroke,
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	for i := range s.Graphs {
		r.renderGraph(&buf, i, &s.Graphs[i])
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderGraph(buf *bytes.Buffer, i int, g *graph.Graph) {
	fmt.Fprintf(buf, `  <g class="graph" id="graph-%d"`, i)
	if g.Name != "" {
		fmt.Fprintf(buf, ` data-name="%s"`, escapeXML(g.Name))
	}
	buf.WriteString(">\n")

	idx := g.Index()
	fmt.Fprintf(buf, `    <g class="bonds" stroke="%s" stroke-width="2" stroke-linecap="round">`+"\n", escapeXML(r.stroke))
	for _, e := range g.Edges {
		a, okA := idx[e.From]
		b, okB := idx[e.To]
		if !okA || !okB || a == b {
			continue
		}
		r.renderBond(buf, g.Nodes[a], g.Nodes[b], e.EffectiveOrder())
	}
	buf.WriteString("    </g>\n")

	for _, n := range g.Nodes {
		r.renderAtom(buf, i, n)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderBond(buf *bytes.Buffer, a, b graph.Node, order float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit normal to the bond.
	nx, ny := -dy/length, dx/length

	line := func(off float64, dashed bool) {
		ox, oy := nx*off, ny*off
		fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"`,
			a.X+ox, a.Y+oy, b.X+ox, b.Y+oy)
		if dashed {
			buf.WriteString(` stroke-dasharray="4 3"`)
		}
		buf.WriteString("/>\n")
	}

	half := r.gap / 2
	switch {
	case order >= 3:
		line(0, false)
		line(r.gap, false)
		line(-r.gap, false)
	case order >= 2:
		line(half, false)
		line(-half, false)
	case order > 1:
		line(half, false)
		line(-half, true)
	default:
		line(0, false)
	}
}

// renderAtom draws n. Element ids carry the graph index because molecules
// in one scene reuse node IDs.
func (r *svgRenderer) renderAtom(buf *bytes.Buffer, graphIndex int, n graph.Node) {
	id := escapeXML(svgID(graphIndex, n.ID))
	symbol, _ := n.Meta[graph.MetaSymbol].(string)
	color := r.stroke
	if c, ok := elementColors[symbol]; ok {
		color = c
	}

	if !r.labels {
		fmt.Fprintf(buf, `    <circle class="atom" id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			id, n.X, n.Y, r.radius/2, color)
		return
	}

	fmt.Fprintf(buf, `    <circle class="atom" id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="white"/>`+"\n",
		id, n.X, n.Y, r.radius)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="%.0f" fill="%s">%s</text>`+"\n",
		n.X, n.Y, defaultFontSize, color, escapeXML(n.DisplayLabel()))
}

func svgID(graphIndex int, id string) string {
	return fmt.Sprintf("g%d-%s", graphIndex, id)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
