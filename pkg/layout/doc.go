// Package layout positions small node-link graphs inside a viewport.
//
// # Overview
//
// The engine is built for molecule-sized graphs (tens of nodes). A call to
// [Engine.Layout] runs a short pipeline over one graph:
//
//  1. [ComputeBounds]: axis-aligned bounding box of the nodes
//  2. [Center] on the origin
//  3. [Simulate]: a few passes of pairwise repulsion plus edge springs
//  4. [Scale] to the padded viewport, capped by MaxScale
//  5. [Center] on the viewport center
//
// Graphs that already look laid out are only re-centered; see
// [SkipMinExtent], [SkipMaxFraction] and [Config.DisableSizeHeuristic].
//
// [Engine.LayoutMultiple] places several graphs in a row, as in a reaction
// (reactants then products), with an exact gap between bounding boxes.
//
// # Force Model
//
// All forces in one pass are accumulated from the same snapshot of positions
// and applied together, so node order does not affect the result. Every edge
// has the same rest length regardless of bond order. Edges whose endpoints
// are missing from the node set are ignored.
//
// # Usage
//
//	engine := layout.NewEngine(layout.DefaultConfig(), layout.WithLogger(logger))
//	engine.Layout(&g, layout.Viewport{Width: 800, Height: 600})
//
// # Errors
//
// Layout never fails. Degenerate input (empty graphs, coincident nodes,
// zero-width bounding boxes) produces a well-defined placement. Only
// [Config.Validate] and [Viewport.Validate] return errors, for callers that
// accept parameters from users.
package layout

import (
	"io"

	"github.com/charmbracelet/log"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
