package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/chemlayout/pkg/chem"
	"github.com/matzehuels/chemlayout/pkg/chem/sdf"
	"github.com/matzehuels/chemlayout/pkg/graph"
	"github.com/matzehuels/chemlayout/pkg/render"
)

// Render generates output artifacts for a scene in the requested formats.
func Render(ctx context.Context, s graph.Scene, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.SVG(s, svgOpts...)
		case FormatPNG:
			data, err = render.PNG(ctx, s)
		case FormatDOT:
			data = []byte(render.DOT(s))
		case FormatJSON:
			data, err = graph.MarshalScene(s)
		case FormatSDF:
			data = renderSDF(s)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromSceneData renders output from serialized scene data.
// This is useful when the layout was computed elsewhere (e.g., cached or
// written by the layout command).
func RenderFromSceneData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	s, err := graph.UnmarshalScene(data)
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return Render(ctx, s, opts)
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.HideLabels {
		svgOpts = append(svgOpts, render.WithoutLabels())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, render.WithBackground(opts.Background))
	}
	return svgOpts
}

// renderSDF converts laid-out graphs back to molecules so that the
// computed 2D coordinates can be exported as molfile records.
func renderSDF(s graph.Scene) []byte {
	mols := make([]*chem.Molecule, len(s.Graphs))
	for i := range s.Graphs {
		mols[i] = chem.FromGraph(s.Graphs[i])
	}
	return []byte(sdf.WriteString(mols...))
}
