package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/chemlayout/pkg/chem"
	"github.com/matzehuels/chemlayout/pkg/chem/sdf"
	"github.com/matzehuels/chemlayout/pkg/chem/smiles"
	"github.com/matzehuels/chemlayout/pkg/errors"
	"github.com/matzehuels/chemlayout/pkg/graph"
)

// Parse decodes opts.Input according to opts.InputFormat.
//
// A SMILES string yields one graph (dot-separated parts stay in the same
// graph), a reaction yields its reactants then its products, and an SD file
// yields one graph per record. Graph JSON is returned as decoded.
func Parse(ctx context.Context, opts Options) ([]graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format := opts.InputFormat
	if format == "" {
		format = SniffFormat(opts.Input)
	}

	switch format {
	case InputSMILES:
		s := strings.TrimSpace(opts.Input)
		m, err := smiles.Parse(s)
		if err != nil {
			return nil, err
		}
		m.Name = opts.Name
		if m.Name == "" {
			m.Name = m.Formula()
		}
		return []graph.Graph{m.Graph()}, nil

	case InputReaction:
		r, err := smiles.ParseReaction(strings.TrimSpace(opts.Input))
		if err != nil {
			return nil, err
		}
		for _, m := range r.Molecules() {
			if m.Name == "" {
				m.Name = m.Formula()
			}
		}
		return r.Graphs(), nil

	case InputSDF:
		mols, err := sdf.ParseString(opts.Input)
		if err != nil {
			return nil, err
		}
		return chem.Graphs(mols), nil

	case InputJSON:
		graphs, err := graph.ReadDocument(strings.NewReader(opts.Input))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph document")
		}
		return graphs, nil

	default:
		return nil, ValidateInputFormat(format)
	}
}

// countGraphs returns the total node and edge counts of graphs.
func countGraphs(graphs []graph.Graph) (nodes, edges int) {
	for i := range graphs {
		nodes += graphs[i].NodeCount()
		edges += graphs[i].EdgeCount()
	}
	return nodes, edges
}

// describeGraphs is a short summary used in log lines.
func describeGraphs(graphs []graph.Graph) string {
	names := make([]string, 0, len(graphs))
	for _, g := range graphs {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("%d graphs", len(graphs))
	}
	return strings.Join(names, ", ")
}
