// Package pkg provides the core libraries for chemlayout.
//
// # Overview
//
// Chemlayout computes 2D coordinates for molecule graphs. Atoms are pushed
// apart and bonds pulled toward a rest length by a short force simulation,
// then the result is scaled and centred to fit a viewport. Several graphs
// (a reaction, a multi-record SD file) are placed side by side in a row.
//
// # Architecture
//
//	SMILES / reaction SMILES / SD file / graph JSON
//	         ↓
//	    [chem] packages (parse into molecules, convert to graphs)
//	         ↓
//	    [layout] package (force simulation, scaling, centring, rows)
//	         ↓
//	    [render] package (SVG, DOT, PNG)
//
// [pipeline] ties the steps together for the CLI and the HTTP API, with
// results cached through [cache].
//
// # Quick Start
//
//	m, _ := smiles.Parse("c1ccccc1O")
//	g := m.Graph()
//
//	engine := layout.NewEngine(layout.DefaultConfig())
//	engine.Layout(&g, layout.Viewport{Width: 800, Height: 600})
//
//	svg := render.SVG(graph.Scene{Width: 800, Height: 600, Graphs: []graph.Graph{g}})
//
// Or let the pipeline do all of it:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{Input: "CCO", Formats: []string{"svg"}})
//
// # Packages
//
// [graph] - Graph, node, edge and scene types with their JSON formats.
//
// [layout] - The layout engine: bounds, force simulation, scaling, centring.
//
// [chem] - Molecules and reactions; [chem/smiles] and [chem/sdf] read them.
//
// [render] - Scene rendering to SVG, and to DOT and PNG through Graphviz.
//
// [pipeline] - Parse, layout and render with per-stage caching.
//
// [cache] - File, Redis and null cache backends plus key construction.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Hook interfaces; [observability/metrics] backs them
// with Prometheus collectors.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/layout
// [chem]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/chem
// [chem/smiles]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/chem/smiles
// [chem/sdf]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/chem/sdf
// [render]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/observability
// [observability/metrics]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/observability/metrics
package pkg
