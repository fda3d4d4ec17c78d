package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blueprint/pkg/layout"
	"github.com/matzehuels/blueprint/pkg/render/nodelink"
	"github.com/matzehuels/blueprint/pkg/render/svg"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(res, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(res layout.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg.Render(res, svgOptions(opts)...), nil
	case FormatHTML:
		return svg.RenderHTML(res, svgOptions(opts)...), nil
	case FormatJSON:
		return layout.Marshal(res)
	case FormatDOT:
		return []byte(nodelink.ToDOT(res, dotOptions(opts))), nil
	case FormatGraphvizSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(res, dotOptions(opts)))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func svgOptions(opts Options) []svg.Option {
	style, ok := svg.StyleByName(opts.Style)
	if !ok {
		style = svg.Simple{}
	}
	out := []svg.Option{svg.WithStyle(style)}
	if opts.NaturalSize {
		out = append(out, svg.WithNaturalSize())
	}
	if opts.Interactive {
		out = append(out, svg.WithInteraction())
	}
	if opts.Title != "" {
		out = append(out, svg.WithTitle(opts.Title))
	}
	return out
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed}
}
