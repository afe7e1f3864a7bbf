package pipeline

import (
	"math"

	"github.com/matzehuels/chemlayout/pkg/graph"
	"github.com/matzehuels/chemlayout/pkg/layout"
)

// Layout modes reported to observability hooks.
const (
	ModeSingle   = "single"
	ModeArranged = "arranged"
)

// =============================================================================
// Scene Generation
// =============================================================================

// GenerateScene lays out copies of graphs and returns them as a scene. The
// input graphs are not modified.
//
// A single graph is fitted to the viewport with [layout.Engine.Layout].
// Several graphs, or a single one with opts.Arrange, are placed in a row
// with [layout.Engine.LayoutMultiple]. A row taller than the viewport is
// moved down to start at the padding, and the scene grows to contain it.
func GenerateScene(graphs []graph.Graph, opts Options) graph.Scene {
	s, _ := generateScene(graphs, opts)
	return s
}

// generateScene also reports the layout outcome.
func generateScene(graphs []graph.Graph, opts Options) (graph.Scene, string) {
	opts.SetLayoutDefaults()
	vp := opts.Viewport()
	engine := layout.NewEngine(opts.LayoutConfig(), layout.WithLogger(opts.Logger))

	work := make([]graph.Graph, len(graphs))
	for i := range graphs {
		work[i] = graphs[i].Clone()
	}

	s := graph.Scene{
		Width:   vp.Width,
		Height:  vp.Height,
		Padding: vp.Padding,
		Graphs:  work,
	}

	if len(work) == 1 && !opts.Arrange {
		outcome := engine.Layout(&work[0], vp)
		return s, outcome.String()
	}

	engine.LayoutMultiple(work, vp, opts.Spacing)
	s.Arranged = true
	s.Spacing = opts.Spacing
	if b, ok := layout.SceneBounds(work); ok {
		// Rows taller than the viewport rise above the top edge; shift the
		// whole row down so it starts inside the padding.
		if b.MinY < vp.Padding {
			dy := vp.Padding - b.MinY
			for i := range work {
				work[i].Translate(0, dy)
			}
			b.MinY += dy
			b.MaxY += dy
		}
		s.Width = math.Max(s.Width, b.MaxX+vp.Padding)
		s.Height = math.Max(s.Height, b.MaxY+vp.Padding)
	}
	return s, layout.OutcomeFull.String()
}

// layoutMode names the engine entry point GenerateScene will use.
func layoutMode(graphs []graph.Graph, opts Options) string {
	if len(graphs) == 1 && !opts.Arrange {
		return ModeSingle
	}
	return ModeArranged
}
