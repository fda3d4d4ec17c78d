package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/config"
	"github.com/matzehuels/blueprint/pkg/layout"
	"github.com/matzehuels/blueprint/pkg/pipeline"
)

// renderOpts holds the render-only flags of the render command.
type renderOpts struct {
	output      string
	formats     string
	style       string
	diagram     string
	natural     bool
	interactive bool
	detailed    bool
	title       string
}

// apply copies the render flags onto opts. The style flag only overrides
// the configured style when set.
func (r renderOpts) apply(cmd *cobra.Command, opts *pipeline.Options) {
	opts.Formats = parseFormats(r.formats)
	if cmd.Flags().Changed("style") || opts.Style == "" {
		opts.Style = r.style
	}
	opts.Diagram = r.diagram
	opts.NaturalSize = r.natural
	opts.Interactive = r.interactive
	opts.Detailed = r.detailed
	opts.Title = r.title
}

// renderCommand creates the render command for generating diagram outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ropts renderOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render <graph|layout.json>",
		Short: "Render a graph or a computed layout",
		Long: `Render a graph file, or a layout written by 'layout', to one or more formats.

Formats:
  svg           standalone SVG of cards and arrows
  html          SVG embedded in an HTML fragment with hover highlighting
  json          the computed layout
  dot           Graphviz DOT source with pinned positions
  graphviz-svg  the DOT source rendered by Graphviz

A layout file is refitted when --width is set and rendered as is otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			ropts.apply(cmd, &opts)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, args[0], ropts.output, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&ropts.output, "output", "o", "", "output file, or base path for several formats")
	cmd.Flags().StringVarP(&ropts.formats, "format", "f", pipeline.FormatSVG, "output formats: svg, html, json, dot, graphviz-svg (comma-separated)")
	cmd.Flags().StringVar(&ropts.style, "style", pipeline.DefaultStyle, "visual style: simple, mono")
	cmd.Flags().StringVar(&ropts.diagram, "diagram", pipeline.DiagramGraph, "fallback for empty graphs: graph, user-flow, tech-stack")
	cmd.Flags().BoolVar(&ropts.natural, "natural", false, "size the SVG to the unscaled canvas")
	cmd.Flags().BoolVar(&ropts.interactive, "interactive", false, "highlight connected cards on hover")
	cmd.Flags().BoolVar(&ropts.detailed, "detailed", false, "include categories and tags in DOT labels")
	cmd.Flags().StringVar(&ropts.title, "title", "", "accessible title of the SVG")
	flags.register(cmd)

	return cmd
}

// runRender lays out input unless it already is a layout, then renders and
// writes every requested format.
func (c *CLI) runRender(ctx context.Context, cfg config.Config, input, output string, flags layoutFlags, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var (
		res       layout.Result
		artifacts map[string][]byte
		nodes     int
		edges     int
		cached    bool
	)
	if isLayoutFile(input) {
		res, err = readLayout(input)
		if err == nil {
			if opts.AvailableWidth > 0 {
				res = res.Refit(opts.AvailableWidth)
			}
			artifacts, cached, err = runner.RenderWithCacheInfo(ctx, res, opts)
			nodes, edges = len(res.Cards), len(res.Curves)
		}
	} else {
		var result *pipeline.Result
		result, err = c.executeFile(ctx, runner, input, opts)
		if err == nil {
			res, artifacts = result.Layout, result.Artifacts
			nodes, edges = result.Stats.NodeCount, result.Stats.EdgeCount
			cached = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths := outputPaths(input, output, opts.Formats)
	printSuccess("Rendered %d format(s)", len(opts.Formats))
	for _, f := range opts.Formats {
		if err := os.WriteFile(paths[f], artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
		printFile(paths[f])
	}
	printStats(nodes, edges, cached)
	printReport(res)
	return nil
}

func (c *CLI) executeFile(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*pipeline.Result, error) {
	g, err := pipeline.ParseFile(input)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", input, err)
	}
	return runner.Execute(ctx, g, opts)
}

func isLayoutFile(path string) bool {
	return strings.HasSuffix(path, ".layout.json")
}

func readLayout(path string) (layout.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Result{}, err
	}
	res, err := layout.Unmarshal(data)
	if err != nil {
		return layout.Result{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	return res, nil
}

// basePath derives the base output path: output without a known format
// extension, or input without its extension (and without ".layout").
func basePath(output, input string) string {
	if output != "" {
		// Longer extensions first: "x.graphviz.svg" is not "x.graphviz" + ".svg".
		for _, f := range []string{pipeline.FormatGraphvizSVG, pipeline.FormatJSON, pipeline.FormatSVG, pipeline.FormatHTML, pipeline.FormatDOT} {
			if ext := "." + pipeline.FormatExt(f); strings.HasSuffix(output, ext) {
				return strings.TrimSuffix(output, ext)
			}
		}
		return output
	}
	if isLayoutFile(input) {
		return strings.TrimSuffix(input, ".layout.json")
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPaths maps each format to its file. A single format written to an
// explicit output uses that path unchanged.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + pipeline.FormatExt(f)
	}
	return paths
}
