package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // base path for outputs (extension added per format)
	formats    string  // comma-separated output formats
	layoutFile string  // layout.json whose positions are applied first
	compute    bool    // compute a fresh layout before rendering
	detailed   bool    // show ids and clusters in node labels
	hideEdges  bool    // draw nodes only
	scale      float64 // PNG scale factor
	noCache    bool
}

// renderCommand creates the render command for generating previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro    renderOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [map.json]",
		Short: "Render a positioned mind map to SVG, PNG, PDF or DOT",
		Long: `Render a positioned mind map to SVG, PNG, PDF or DOT.

Nodes are drawn exactly at their stored positions. Use --layout to take the
positions from a layout.json produced by 'layout', or --compute to lay the map
out before rendering.

PNG and PDF output requires rsvg-convert (librsvg) on the PATH.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMapFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg.Layout)
			opts.Formats = parseFormats(ro.formats)
			opts.Detailed = ro.detailed
			opts.HideEdges = ro.hideEdges
			opts.Scale = ro.scale
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), cfg.Cache, ro.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runRender(cmd.Context(), runner, args[0], ro, opts)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output base path (default: <input>.preview)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output formats, comma-separated: svg (default), png, pdf, dot, json")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().StringVarP(&ro.layoutFile, "layout", "l", "", "apply positions from a layout.json before rendering")
	cmd.Flags().BoolVar(&ro.compute, "compute", false, "compute a layout before rendering")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "show node ids and clusters")
	cmd.Flags().BoolVar(&ro.hideEdges, "hide-edges", false, "draw nodes only")
	cmd.Flags().Float64Var(&ro.scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	flags.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("layout", "compute")

	return cmd
}

// runRender loads the document, positions it if requested, and writes one
// file per format.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, input string, ro renderOpts, opts pipeline.Options) error {
	doc, err := graph.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	opts.Logger = c.Logger

	if ro.layoutFile != "" {
		l, err := graph.ReadLayoutFile(ro.layoutFile)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", ro.layoutFile, err)
		}
		doc = graph.ApplyLayout(doc, l.Positions)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	var (
		artifacts map[string][]byte
		cached    bool
	)
	if ro.compute {
		var res *pipeline.Result
		res, err = runner.Execute(ctx, doc, opts)
		if res != nil {
			artifacts, cached = res.Artifacts, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit
		}
	} else {
		artifacts, cached, err = runner.RenderWithCacheInfo(ctx, doc, opts)
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := ro.output
	if base == "" {
		base = outputPath(input, ".preview")
	}
	paths, err := writeArtifacts(base, artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(summarize(doc, cached))
	return nil
}

// writeArtifacts writes each artifact to base.<format> in a stable order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
