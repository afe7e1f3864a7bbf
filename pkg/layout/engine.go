package layout

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

// Outcome reports which path [Engine.Layout] took.
type Outcome int

const (
	// OutcomeUntouched means the graph was left as is (engine disabled,
	// nil graph, or no nodes).
	OutcomeUntouched Outcome = iota
	// OutcomeRecentered means the size heuristic judged the graph already
	// laid out; it was only translated to the viewport center.
	OutcomeRecentered
	// OutcomeFull means the graph went through simulation, scaling and
	// centering.
	OutcomeFull
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecentered:
		return "recentered"
	case OutcomeFull:
		return "full"
	default:
		return "untouched"
	}
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger used for debug and warning output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine lays out graphs according to a [Config].
//
// Each engine owns its configuration; there is no package-level state.
// Methods may be called from multiple goroutines, but concurrent calls must
// not share a graph.
type Engine struct {
	mu     sync.RWMutex
	cfg    Config
	logger *log.Logger
}

// NewEngine returns an engine using cfg.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, logger: discardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// SetConfig replaces the configuration. Calls already in progress keep the
// configuration they started with.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
}

// SetEnabled toggles [Engine.Layout]. It does not affect
// [Engine.LayoutMultiple].
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.cfg.Enabled = enabled
	e.mu.Unlock()
}

// Enabled reports whether [Engine.Layout] is active.
func (e *Engine) Enabled() bool { return e.Config().Enabled }

// Layout positions g inside vp, mutating node coordinates in place.
//
// Graphs that already look laid out (see [SkipMinExtent] and
// [SkipMaxFraction]) are only re-centered unless the heuristic is disabled.
// Otherwise the graph is centered on the origin, relaxed by [Simulate],
// scaled to the padded viewport and centered on the viewport center.
func (e *Engine) Layout(g *graph.Graph, vp Viewport) Outcome {
	cfg := e.Config()
	if !cfg.Enabled || g == nil || len(g.Nodes) == 0 {
		return OutcomeUntouched
	}

	cx, cy := vp.Center()
	b, _ := ComputeBounds(g.Nodes)
	if !cfg.DisableSizeHeuristic && alreadyLaidOut(b, vp) {
		Center(g.Nodes, cx, cy)
		e.logger.Debug("layout skipped, graph already sized", "graph", g.Name, "width", b.Width(), "height", b.Height())
		return OutcomeRecentered
	}

	pad := cfg.padding(vp)
	Center(g.Nodes, 0, 0)
	stats := Simulate(g, cfg)
	if stats.DroppedEdges > 0 {
		e.logger.Debug("ignored dangling edges", "graph", g.Name, "count", stats.DroppedEdges)
	}
	s := Scale(g.Nodes, vp.Width-2*pad, vp.Height-2*pad, cfg.MaxScale, e.logger)
	Center(g.Nodes, cx, cy)

	e.logger.Debug("layout complete", "graph", g.Name, "nodes", len(g.Nodes), "springs", stats.Springs, "scale", s)
	return OutcomeFull
}

// LayoutMultiple arranges graphs left to right inside vp, mutating node
// coordinates in place.
//
// Each graph is centered on the origin and relaxed by [Simulate]; graphs are
// not scaled. They are then placed in input order with the left edge of the
// first at the viewport padding and exactly spacing units between adjacent
// bounding boxes, each centered on the viewport's horizontal midline. A zero
// spacing selects [DefaultSpacing].
//
// Graphs without nodes are skipped and take no room. Unlike
// [Engine.Layout], this method runs whether or not the engine is enabled.
func (e *Engine) LayoutMultiple(graphs []graph.Graph, vp Viewport, spacing float64) {
	cfg := e.Config()
	if spacing == 0 {
		spacing = DefaultSpacing
	}

	_, cy := vp.Center()
	cursor := cfg.padding(vp)
	placed := 0
	for i := range graphs {
		g := &graphs[i]
		if len(g.Nodes) == 0 {
			continue
		}
		Center(g.Nodes, 0, 0)
		stats := Simulate(g, cfg)
		if stats.DroppedEdges > 0 {
			e.logger.Debug("ignored dangling edges", "graph", g.Name, "count", stats.DroppedEdges)
		}

		b, _ := ComputeBounds(g.Nodes)
		g.Translate(cursor-b.MinX, cy-b.CenterY())
		cursor += b.Width() + spacing
		placed++
	}

	if placed > 0 {
		e.logger.Debug("row layout complete", "graphs", placed, "spacing", spacing, "right_edge", cursor-spacing)
	}
}

// padding returns the viewport padding, or the configured one when the
// viewport carries none.
func (c Config) padding(vp Viewport) float64 {
	if vp.Padding > 0 {
		return vp.Padding
	}
	return c.Padding
}

// alreadyLaidOut applies the size heuristic to bounds b.
func alreadyLaidOut(b Bounds, vp Viewport) bool {
	w, h := b.Width(), b.Height()
	return w > SkipMinExtent && w < SkipMaxFraction*vp.Width &&
		h > SkipMinExtent && h < SkipMaxFraction*vp.Height
}
