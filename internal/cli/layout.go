package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chemlayout/pkg/graph"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing scenes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		lf          layoutFlags
		output      string
		inputFormat string
		name        string
		arrange     bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Compute a layout and write it as scene JSON",
		Long: `Compute a layout and write it as scene JSON.

The layout command parses the input and computes node coordinates without
rendering. The output is a .scene.json file (the same document as
'render -f json') that the 'visualize' command renders to SVG, PNG, DOT or SDF.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := resolveInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts := src.options(inputFormat, name)
			opts.Arrange = arrange
			lf.apply(cmd.Flags(), c.Config, &opts)

			path := output
			if path == "" || filepath.Ext(path) != ".json" {
				path = artifactPath(outputBase(output, src.path, name), pipeline.FormatJSON)
			}
			return c.runLayout(cmd.Context(), opts, path, noCache)
		},
	}

	lf.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: smiles, reaction, sdf, json (default: detected)")
	cmd.Flags().StringVar(&name, "name", "", "molecule name (single SMILES input)")
	cmd.Flags().BoolVar(&arrange, "arrange", false, "arrange in a row even for a single molecule")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout parses the input, computes the scene, and writes it.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, path string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	graphs, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()
	s, cacheHit, err := runner.GenerateSceneWithCacheInfo(ctx, graphs, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := graph.MarshalScene(s)
	if err != nil {
		return fmt.Errorf("serialize scene: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(len(s.Graphs), s.NodeCount(), s.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+path)

	return nil
}
