package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/render/nodelink"
)

// RenderDocument generates preview artifacts for a positioned document in
// the requested formats.
func RenderDocument(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(doc, nodelink.Options{
		Detailed:  opts.Detailed,
		HideEdges: opts.HideEdges,
	})

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = graph.MarshalDocument(doc)
		case FormatSVG:
			if svg == nil {
				svg, err = nodelink.RenderSVG(ctx, dot)
			}
			data = svg
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
