package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chemlayout/pkg/graph"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a computed scene.
func (c *CLI) visualizeCommand() *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "visualize [scene.json]",
		Short: "Render a computed scene",
		Long: `Render a computed scene.

The visualize command takes a .scene.json file (produced by 'layout') and
renders it to SVG, PNG, DOT or SDF. The scene already carries all
coordinates, so this step performs no layout.

Use 'render' as a shortcut to go directly from a molecule to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			if err := rf.apply(&opts); err != nil {
				return err
			}
			input := args[0]
			base := outputBase(rf.output, strings.TrimSuffix(input, ".scene.json")+".json", "")
			return c.runVisualize(cmd.Context(), input, opts, base, rf)
		},
	}

	rf.register(cmd)

	return cmd
}

// runVisualize loads the scene and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, base string, rf renderFlags) error {
	s, err := graph.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, base, rf.output)
	if err != nil || rf.output == "-" {
		return err
	}

	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(s.Graphs), s.NodeCount(), s.EdgeCount(), cacheHit)
	return nil
}
