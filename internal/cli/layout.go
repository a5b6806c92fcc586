package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		apply   bool
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [map.json]",
		Short: "Compute positions for every node of a mind map",
		Long: `Compute positions for every node of a mind map.

The layout command reads a mind map document, keeps the root where it is,
arranges clusters in angular sectors around it and resolves overlaps. The
output is a layout.json file holding the positions and engine diagnostics.

With --apply the positions are written back into a copy of the document
instead, ready for 'render'.

Results are cached for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMapFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg.Layout)
			opts.Refresh = refresh
			runner, err := c.newRunner(cmd.Context(), cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runLayout(cmd.Context(), runner, args[0], opts, output, apply)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, or <input>.positioned.json with --apply)")
	cmd.Flags().BoolVar(&apply, "apply", false, "write the positioned document instead of the layout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	flags.register(cmd)

	return cmd
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, output string, apply bool) error {
	doc, err := graph.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", strategyName(opts)))
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayout(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("layout computed", "nodes", len(l.Positions), "cached", cacheHit)

	path := output
	if apply {
		if path == "" {
			path = outputPath(input, ".positioned.json")
		}
		err = graph.WriteDocumentFile(graph.ApplyLayout(doc, l.Positions), path)
	} else {
		if path == "" {
			path = outputPath(input, layoutSuffix)
		}
		err = graph.WriteLayoutFile(l, path)
	}
	if err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	summary := summarize(doc, cacheHit)
	if l.Stats != nil {
		summary.Passes = l.Stats.Passes
	}
	printStats(summary)
	if l.Stats != nil && !l.Stats.Converged {
		printWarning("%s left after %s", count(l.Stats.Residual, "overlap", "overlaps"), count(l.Stats.Passes, "pass", "passes"))
	}
	printNewline()
	if apply {
		printNextStep("Preview", appName+" render "+path)
	} else {
		printNextStep("Inspect", appName+" inspect "+path)
	}

	return nil
}

// strategyName returns the strategy that opts resolves to.
func strategyName(opts pipeline.Options) string {
	if opts.Strategy == "" {
		return pipeline.DefaultStrategy
	}
	return opts.Strategy
}
