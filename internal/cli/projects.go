package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	bperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/pipeline"
	"github.com/matzehuels/blueprint/pkg/store"
)

// projectsCommand creates the command group for saved blueprints.
func (c *CLI) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage saved blueprints",
	}

	cmd.AddCommand(c.projectsListCommand())
	cmd.AddCommand(c.projectsShowCommand())
	cmd.AddCommand(c.projectsDeleteCommand())
	cmd.AddCommand(c.projectsDiagramCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) projectsListCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				projects, err := st.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					summaries := make([]store.Summary, len(projects))
					for i, p := range projects {
						summaries[i] = p.Summary()
					}
					return writeJSON(cmd.OutOrStdout(), summaries)
				}
				if len(projects) == 0 {
					printInfo("No saved projects")
					printNextStep("Create one", appName+` plan "<idea>"`)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), projectTable(projects))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of projects")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON summaries")
	return cmd
}

func (c *CLI) projectsShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				p, err := getProject(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), p)
				}
				printProject(p)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full project as JSON")
	return cmd
}

func (c *CLI) projectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bperrors.ValidateProjectID(args[0]); err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted project %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) projectsDiagramCommand() *cobra.Command {
	var (
		kind    string
		dir     string
		formats string
		flags   layoutFlags
	)
	cmd := &cobra.Command{
		Use:   "diagram <id>",
		Short: "Render the diagrams of a saved project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			kinds := allDiagrams
			if kind != "all" {
				t, err := graph.ParseDiagramType(kind)
				if err != nil {
					return err
				}
				kinds = []graph.DiagramType{t}
			}
			opts := flags.options(cmd, cfg)
			opts.Formats = parseFormats(formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return c.withStore(ctx, func(st store.Store) error {
				p, err := getProject(ctx, st, args[0])
				if err != nil {
					return err
				}
				_, err = c.writeDiagrams(ctx, runner, p.Blueprint, kinds, dir, shortID(p.ID), opts)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", "all", "diagram: user-flow, tech-stack, all")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "formats (comma-separated)")
	flags.register(cmd)
	return cmd
}

func getProject(ctx context.Context, st store.Store, id string) (*store.Project, error) {
	if err := bperrors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// projectTable renders project summaries as a bordered table.
func projectTable(projects []store.Project) string {
	rows := make([][]string, len(projects))
	for i, p := range projects {
		s := p.Summary()
		rows[i] = []string{s.ID, s.Title, s.Feasibility, string(s.Mode), s.CreatedAt.Format("2006-01-02 15:04")}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Feasibility", "Mode", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			case col >= 2:
				return cellStyle.Foreground(colorGray)
			}
			return cellStyle.Foreground(colorWhite)
		}).
		Render()
}

func printProject(p *store.Project) {
	bp := p.Blueprint
	fmt.Println(StyleTitle.Render(p.Title))
	printKeyValue("ID", p.ID)
	printKeyValue("Mode", string(p.Mode))
	printKeyValue("Created", p.CreatedAt.Format("2006-01-02 15:04"))
	printKeyValue("Feasibility", styleFeasibility(bp.Feasibility.Level))
	printNewline()

	fmt.Println(StyleHighlight.Render("Features"))
	for _, f := range bp.Features.Features {
		printDetail("%s: %s", f.Name, f.WhatItDoes)
	}
	fmt.Println(StyleHighlight.Render("Tech stack"))
	for _, t := range bp.TechStack.Primary {
		printDetail("%s: %s", t.Category, t.Technology)
	}
	fmt.Println(StyleHighlight.Render("Pitch"))
	printDetail("%s", bp.Pitch.ThirtySecond)
	printNewline()
	printNextStep("Diagrams", appName+" projects diagram "+p.ID)
}
