package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// renderFlags holds the flags shared by commands that produce artifacts.
type renderFlags struct {
	output     string
	formats    string
	hideLabels bool
	background string
	noCache    bool
	refresh    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file or base path; - writes a single format to stdout")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, dot, json, sdf (comma-separated)")
	cmd.Flags().BoolVar(&f.hideLabels, "hide-labels", false, "omit atom labels")
	cmd.Flags().StringVar(&f.background, "background", "", "SVG background colour")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

func (f *renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	opts.HideLabels = f.hideLabels
	opts.Background = f.background
	opts.Refresh = f.refresh
	return pipeline.ValidateFormats(opts.Formats)
}

// renderCommand creates the render command: parse, layout and render in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf          layoutFlags
		rf          renderFlags
		inputFormat string
		name        string
		arrange     bool
	)

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Lay out and render molecules",
		Long: `Lay out and render molecules in one step.

The input is a file (.smi, .rsmi, .sdf, .mol, .json), "-" for stdin, or a
literal SMILES or reaction SMILES string:

  chemlayout render 'c1ccccc1O' -f svg,png
  chemlayout render reactions.rsmi -o out/esterification.svg
  chemlayout render set.sdf -f sdf --iterations 10

A single molecule is fitted to the viewport. Several molecules (reactions,
multi-record SD files, or --arrange) are placed side by side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := resolveInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts := src.options(inputFormat, name)
			opts.Arrange = arrange
			lf.apply(cmd.Flags(), c.Config, &opts)
			if err := rf.apply(&opts); err != nil {
				return err
			}
			base := outputBase(rf.output, src.path, name)
			return c.runRender(cmd.Context(), opts, base, rf)
		},
	}

	rf.register(cmd)
	lf.register(cmd.Flags())
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: smiles, reaction, sdf, json (default: detected)")
	cmd.Flags().StringVar(&name, "name", "", "molecule name (single SMILES input)")
	cmd.Flags().BoolVar(&arrange, "arrange", false, "arrange in a row even for a single molecule")

	return cmd
}

// runRender executes the full pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, base string, rf renderFlags) error {
	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(res.Artifacts, base, rf.output)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(res.Artifacts)))
	if rf.output == "-" {
		return nil
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.GraphCount, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit)
	return nil
}
