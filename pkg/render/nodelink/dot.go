package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
	"github.com/matzehuels/mindlayout/pkg/render"
)

// pointsPerInch converts canvas units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures preview generation.
type Options struct {
	// Detailed adds the node ID and cluster under the title.
	Detailed bool

	// HideEdges drops edges from the preview.
	HideEdges bool
}

// clusterColors is the fill palette indexed by cluster 1..5.
var clusterColors = [...]string{
	"#ffffff", // unused
	"#dbeafe",
	"#dcfce7",
	"#fef9c3",
	"#fee2e2",
	"#ede9fe",
}

var edgeStyles = map[mindmap.Relationship]string{
	mindmap.RelationshipElaborates: "bold",
	mindmap.RelationshipContrasts:  "dashed",
	mindmap.RelationshipExample:    "dotted",
}

// ToDOT converts a positioned document to Graphviz DOT with every node pinned.
// Edges that reference unknown nodes are skipped.
func ToDOT(doc graph.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontname=\"Helvetica\", fontsize=14, penwidth=1.2];\n")
	buf.WriteString("  edge [color=\"#64748b\"];\n")
	buf.WriteString("\n")

	roles := roles(doc)
	known := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		known[n.ID] = true
		size := mindmap.EstimateSize(n.Title, roles[n.ID])
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Position.X), fmtFloat(-n.Position.Y)),
			"width=" + fmtFloat(size.W/pointsPerInch),
			"height=" + fmtFloat(size.H/pointsPerInch),
			fmt.Sprintf("fillcolor=%q", clusterColor(n.Cluster)),
		}
		if roles[n.ID] == mindmap.RoleRoot {
			attrs = append(attrs, "penwidth=2.5", "fontsize=18")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if !opts.HideEdges {
		buf.WriteString("\n")
		for _, e := range doc.Edges {
			if !known[e.Source] || !known[e.Target] {
				continue
			}
			if style, ok := edgeStyles[mindmap.Relationship(e.Relationship)]; ok {
				fmt.Fprintf(&buf, "  %q -- %q [style=%s];\n", e.Source, e.Target, style)
				continue
			}
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// roles mirrors the engine's size roles: the root, its direct neighbours,
// and everything else.
func roles(doc graph.Document) map[string]mindmap.Role {
	out := make(map[string]mindmap.Role, len(doc.Nodes))
	nodes := make([]mindmap.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = mindmap.Node{ID: n.ID}
		out[n.ID] = mindmap.RoleDescendant
	}
	ri := mindmap.RootIndex(nodes)
	if ri < 0 {
		return out
	}
	root := nodes[ri].ID
	for _, e := range doc.Edges {
		switch {
		case e.Source == root && e.Target != root:
			out[e.Target] = mindmap.RoleTopLevel
		case e.Target == root && e.Source != root:
			out[e.Source] = mindmap.RoleTopLevel
		}
	}
	if _, ok := out[root]; ok {
		out[root] = mindmap.RoleRoot
	}
	return out
}

func fmtLabel(n graph.Node, detailed bool) string {
	title := n.Title
	if title == "" {
		title = n.ID
	}
	if !detailed {
		return title
	}
	return fmt.Sprintf("%s\n%s · cluster %d", title, n.ID, mindmap.NormalizeCluster(n.Cluster))
}

func clusterColor(c int) string {
	c = mindmap.NormalizeCluster(c)
	if c < mindmap.MinCluster || c > mindmap.MaxCluster {
		return clusterColors[0]
	}
	return clusterColors[c]
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// RenderSVG renders a DOT preview to SVG using Graphviz's neato engine, which
// honours pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg header with a unitless
// one so browsers scale the preview to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT preview as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT preview as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
