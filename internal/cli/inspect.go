package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// inspectCommand creates the inspect command for browsing node positions.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		layoutFile string
		plain      bool
		noCache    bool
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [map.json]",
		Short: "Browse node positions, radii and angles in a table",
		Long: `Browse node positions, radii and angles in a table.

By default the mind map is laid out first (using the cache when possible).
With --layout the positions come from an existing layout.json instead. The
document's own positions are shown when --layout is "-".

Use --plain to print the table once instead of starting the interactive view.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMapFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := graph.ReadDocumentFile(args[0])
			if err != nil {
				return fmt.Errorf("load document %s: %w", args[0], err)
			}

			var sectors []mindmap.Sector
			switch layoutFile {
			case "-":
			case "":
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				runner, err := c.newRunner(cmd.Context(), cfg.Cache, noCache)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()
				opts := flags.options(cmd, cfg.Layout)
				opts.Logger = c.Logger
				l, _, err := runner.ComputeLayout(cmd.Context(), doc, opts)
				if err != nil {
					return fmt.Errorf("compute layout: %w", err)
				}
				doc = graph.ApplyLayout(doc, l.Positions)
				if l.Stats != nil {
					sectors = l.Stats.Sectors
				}
			default:
				l, err := graph.ReadLayoutFile(layoutFile)
				if err != nil {
					return fmt.Errorf("load layout %s: %w", layoutFile, err)
				}
				doc = graph.ApplyLayout(doc, l.Positions)
				if l.Stats != nil {
					sectors = l.Stats.Sectors
				}
			}

			if plain {
				return printPositions(os.Stdout, doc, sectors)
			}
			m := NewInspectModel(args[0], doc, sectors)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&layoutFile, "layout", "l", "", `layout.json to show ("-" for the document's positions)`)
	cmd.Flags().BoolVar(&plain, "plain", false, "print the table and exit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// printPositions writes the full position table and sector summary to w.
func printPositions(w io.Writer, doc graph.Document, sectors []mindmap.Sector) error {
	if _, err := fmt.Fprintln(w, positionTable(buildRows(doc), -1).Render()); err != nil {
		return err
	}
	if s := sectorSummary(sectors); s != "" {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
