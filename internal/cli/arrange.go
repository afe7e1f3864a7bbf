package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chemlayout/pkg/graph"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// arrangeCommand creates the arrange command: several inputs in one row.
func (c *CLI) arrangeCommand() *cobra.Command {
	var (
		lf          layoutFlags
		rf          renderFlags
		inputFormat string
	)

	cmd := &cobra.Command{
		Use:   "arrange [input...]",
		Short: "Lay out several inputs side by side",
		Long: `Lay out several inputs side by side.

Every argument is parsed on its own (file, "-" or literal SMILES) and the
resulting molecules are placed left to right in one scene, separated by
--spacing and centred vertically:

  chemlayout arrange CCO 'c1ccccc1' caffeine.sdf -o row.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs := make([]source, len(args))
			for i, arg := range args {
				src, err := resolveInput(arg, cmd.InOrStdin())
				if err != nil {
					return err
				}
				srcs[i] = src
			}

			opts := pipeline.Options{Arrange: true}
			lf.apply(cmd.Flags(), c.Config, &opts)
			if err := rf.apply(&opts); err != nil {
				return err
			}
			base := outputBase(rf.output, "", "arrangement")
			return c.runArrange(cmd.Context(), srcs, inputFormat, opts, base, rf)
		},
	}

	rf.register(cmd)
	lf.register(cmd.Flags())
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format for every argument (default: detected per argument)")

	return cmd
}

// runArrange parses every source, arranges all graphs and renders the row.
func (c *CLI) runArrange(ctx context.Context, srcs []source, inputFormat string, opts pipeline.Options, base string, rf renderFlags) error {
	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var graphs []graph.Graph
	for _, src := range srcs {
		popts := src.options(inputFormat, "")
		popts.Refresh = opts.Refresh
		gs, err := runner.Parse(ctx, popts)
		if err != nil {
			return err
		}
		graphs = append(graphs, gs...)
	}
	c.Logger.Debug("arranging", "inputs", len(srcs), "graphs", len(graphs))

	spinner := newSpinner(ctx, fmt.Sprintf("Arranging %d molecules...", len(graphs)))
	spinner.Start()
	s, layoutHit, err := runner.GenerateSceneWithCacheInfo(ctx, graphs, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	artifacts, err := runner.Render(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, base, rf.output)
	if err != nil || rf.output == "-" {
		return err
	}

	printSuccess("Arranged %d molecules", len(graphs))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(s.Graphs), s.NodeCount(), s.EdgeCount(), layoutHit)
	return nil
}
