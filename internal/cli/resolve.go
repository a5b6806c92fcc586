package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/pipeline"
)

// resolveCommand creates the resolve command for incremental overlap fixes.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		output  string
		movable []string
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "resolve [map.json]",
		Short: "Nudge overlapping nodes of an already positioned mind map",
		Long: `Nudge overlapping nodes of an already positioned mind map.

Use resolve after adding or editing nodes: existing positions are kept and only
nodes that overlap are pushed apart. With --movable only the named nodes may
move; everything else stays pinned. The root never moves.

The document is updated in place unless --output is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMapFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg.Layout)
			// Incremental results are never cached.
			runner, err := c.newRunner(cmd.Context(), cfg.Cache, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runResolve(cmd.Context(), runner, args[0], movable, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite the input)")
	cmd.Flags().StringSliceVarP(&movable, "movable", "m", nil, "node ids allowed to move (default: all except the root)")
	flags.register(cmd)

	return cmd
}

// runResolve applies an incremental overlap fix and writes the document.
func (c *CLI) runResolve(ctx context.Context, runner *pipeline.Runner, input string, movable []string, opts pipeline.Options, output string) error {
	doc, err := graph.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	opts.Logger = c.Logger
	for _, id := range movable {
		if _, ok := doc.NodeByID(id); !ok {
			c.Logger.Warn("ignoring unknown movable node", "id", id)
		}
	}

	l, err := runner.ResolveIncremental(ctx, doc, movable, opts)
	if err != nil {
		return fmt.Errorf("resolve overlaps: %w", err)
	}

	path := output
	if path == "" {
		path = input
	}
	if l.Stats.Moved == 0 && path == input {
		if !l.Stats.Converged {
			printWarning("%s left, none could be reduced", count(l.Stats.Residual, "overlap", "overlaps"))
			return nil
		}
		printInfo("No overlaps to resolve")
		return nil
	}
	if err := graph.WriteDocumentFile(graph.ApplyLayout(doc, l.Positions), path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Moved %d of %d nodes", l.Stats.Moved, len(doc.Nodes))
	printFile(path)
	if !l.Stats.Converged {
		printWarning("%s left after %s", count(l.Stats.Residual, "overlap", "overlaps"), count(l.Stats.Passes, "pass", "passes"))
	}
	return nil
}
