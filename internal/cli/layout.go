package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/config"
	"github.com/matzehuels/blueprint/pkg/layout"
	"github.com/matzehuels/blueprint/pkg/pipeline"
)

// layoutFlags are the geometry flags shared by every command that lays
// out a diagram. Flags the user did not set keep the configured values.
type layoutFlags struct {
	width   float64
	geom    layout.Config
	noCache bool
	refresh bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.width, "width", 0, "available width in pixels; 0 keeps the natural size")
	fl.Float64Var(&f.geom.CardWidth, "card-width", 0, "card width")
	fl.Float64Var(&f.geom.CardHeight, "card-height", 0, "card height")
	fl.Float64Var(&f.geom.HorizontalGap, "h-gap", 0, "gap between columns (0 uses the default)")
	fl.Float64Var(&f.geom.VerticalGap, "v-gap", 0, "gap between rows (0 uses the default)")
	fl.Float64Var(&f.geom.Padding, "padding", 0, "canvas padding")
	fl.Float64Var(&f.geom.ScaleFloor, "scale-floor", 0, "smallest scale applied when fitting to width")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options returns the configured pipeline options with the changed flags
// applied.
func (f *layoutFlags) options(cmd *cobra.Command, cfg config.Config) pipeline.Options {
	opts := configOptions(cfg)
	changed := cmd.Flags().Changed
	set := func(name string, dst *float64, v float64) {
		if changed(name) {
			*dst = v
		}
	}
	set("width", &opts.AvailableWidth, f.width)
	set("card-width", &opts.Layout.CardWidth, f.geom.CardWidth)
	set("card-height", &opts.Layout.CardHeight, f.geom.CardHeight)
	set("h-gap", &opts.Layout.HorizontalGap, f.geom.HorizontalGap)
	set("v-gap", &opts.Layout.VerticalGap, f.geom.VerticalGap)
	set("padding", &opts.Layout.Padding, f.geom.Padding)
	set("scale-floor", &opts.Layout.ScaleFloor, f.geom.ScaleFloor)
	opts.Refresh = f.refresh
	return opts
}

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		diagram string
		preview bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <graph>",
		Short: "Compute a diagram layout from a graph file",
		Long: `Compute a diagram layout from a graph file.

The graph may be JSON, YAML or Mermaid flowchart source. Cards are leveled
into columns by breadth-first distance from the roots, placed on a grid and
joined by Bezier arrows. The result is a layout.json file that 'render' turns
into SVG, HTML or DOT.

A graph without usable nodes is replaced by the canned diagram selected with
--diagram. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			opts.Diagram = diagram
			return c.runLayout(cmd.Context(), cfg, args[0], output, preview, flags.noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&diagram, "diagram", pipeline.DiagramGraph, "fallback for empty graphs: graph, user-flow, tech-stack")
	cmd.Flags().BoolVar(&preview, "preview", false, "print the card levels as a table")
	flags.register(cmd)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, cfg config.Config, input, output string, preview, noCache bool, opts pipeline.Options) error {
	g, err := pipeline.ParseFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := layout.Marshal(res)
	if err != nil {
		return err
	}
	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(input)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(res.Cards), len(res.Curves), cacheHit)
	printReport(res)
	if preview {
		printNewline()
		fmt.Println(levelTable(res))
	}
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// printReport warns about what ingestion dropped and about fallbacks.
func printReport(res layout.Result) {
	if res.Fallback {
		printWarning("Graph had no usable nodes; drew the default diagram")
	}
	rep := res.Report
	if rep.BlankIDs > 0 {
		printWarning("Skipped %d nodes without an id", rep.BlankIDs)
	}
	if len(rep.Duplicates) > 0 {
		printWarning("Kept the first of duplicate ids: %s", strings.Join(rep.Duplicates, ", "))
	}
	if n := len(rep.Dangling); n > 0 {
		printWarning("Dropped %d edges with unknown endpoints", n)
	}
}

// layoutPath is the default layout file for a graph file.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// levelTable draws one column per level, cards top to bottom.
func levelTable(res layout.Result) string {
	cards := append([]layout.PlacedCard(nil), res.Cards...)
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Level != cards[j].Level {
			return cards[i].Level < cards[j].Level
		}
		return cards[i].Y < cards[j].Y
	})

	var cols [][]string
	for _, pc := range cards {
		for len(cols) <= pc.Level {
			cols = append(cols, nil)
		}
		cell := pc.Label
		if pc.IsCategorized() {
			cell += " [" + pc.Category + "]"
		}
		cols[pc.Level] = append(cols[pc.Level], cell)
	}

	headers := make([]string, len(cols))
	depth := 0
	for i, col := range cols {
		headers[i] = fmt.Sprintf("L%d", i)
		depth = max(depth, len(col))
	}
	rows := make([][]string, depth)
	for r := range rows {
		rows[r] = make([]string, len(cols))
		for i, col := range cols {
			if r < len(col) {
				rows[r][i] = col[r]
			}
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
