// Package render draws laid-out scenes.
//
// # Overview
//
// Rendering never moves nodes: every function reads the positions
// computed by the layout engine and the viewport size stored in the
// [graph.Scene].
//
//   - [SVG]: built-in SVG writer with element-colored labels and
//     parallel lines for multiple bonds
//   - [DOT]: Graphviz DOT source with every node pinned in place
//   - [PNG], [GraphvizSVG]: DOT rendered in process by Graphviz
//
// # SVG
//
//	svg := render.SVG(scene, render.WithBackground("white"))
//
// Bond orders map to line styles: 1 is one line, 2 two parallel lines, 3
// three, and aromatic bonds (order 1.5) a solid and a dashed line. Edges
// whose endpoints are missing are not drawn.
//
// # Graphviz
//
// [PNG] uses [github.com/goccy/go-graphviz], which bundles Graphviz as
// WebAssembly, so no system install is needed. The neato engine keeps
// pinned positions, so the image matches the computed layout.
package render
