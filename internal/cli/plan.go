package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/blueprint"
	"github.com/matzehuels/blueprint/pkg/config"
	bperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/pipeline"
	"github.com/matzehuels/blueprint/pkg/planner"
	"github.com/matzehuels/blueprint/pkg/store"
)

// errAborted is returned when the user leaves the dialogue early.
var errAborted = errors.New("dialogue aborted")

type planOpts struct {
	interactive bool
	noSave      bool
	noRender    bool
	offline     bool
	dir         string
	formats     string
}

// planCommand creates the plan command that turns an idea into a blueprint.
func (c *CLI) planCommand() *cobra.Command {
	var (
		popts planOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "plan <idea>",
		Short: "Generate a project blueprint from an idea",
		Long: `Generate a project blueprint from an idea.

In quick mode the idea goes to the planning backend as is. With --interactive
the backend first proposes clarifying questions; the answers are appended to
the idea before the blueprint is generated.

The blueprint is saved as a project and both its diagrams (user flow and tech
stack) are rendered into --dir. When the backend is unreachable the default
blueprint is used instead.`,
		Example: `  blueprint plan "A lost and found board for our campus"
  blueprint plan -i "Attendance tracker using QR codes" --dir diagrams -f svg,html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			opts.Formats = parseFormats(popts.formats)
			return c.runPlan(cmd.Context(), cfg, strings.Join(args, " "), popts, flags.noCache, opts)
		},
	}

	cmd.Flags().BoolVarP(&popts.interactive, "interactive", "i", false, "answer clarifying questions first")
	cmd.Flags().BoolVar(&popts.noSave, "no-save", false, "do not save the project")
	cmd.Flags().BoolVar(&popts.noRender, "no-render", false, "skip rendering the diagrams")
	cmd.Flags().BoolVar(&popts.offline, "offline", false, "use the default blueprint without calling the backend")
	cmd.Flags().StringVar(&popts.dir, "dir", ".", "directory for the rendered diagrams")
	cmd.Flags().StringVarP(&popts.formats, "format", "f", pipeline.FormatSVG, "diagram formats (comma-separated)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, cfg config.Config, idea string, popts planOpts, noCache bool, opts pipeline.Options) error {
	idea, err := bperrors.ValidateIdea(idea)
	if err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	client, err := c.newPlanner(cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	mode := blueprint.ModeQuick
	if popts.interactive {
		refined, err := c.runDialogue(ctx, client, idea)
		if err != nil {
			return err
		}
		idea, mode = refined, blueprint.ModeInteractive
	}

	res, cached, err := c.generate(ctx, runner, client, idea, mode, popts.offline, opts.Refresh)
	if err != nil {
		return err
	}
	bp := res.Blueprint

	printSuccess("%s", StyleTitle.Render(bp.Title()))
	printKeyValue("Feasibility", styleFeasibility(bp.Feasibility.Level))
	printKeyValue("Features", fmt.Sprintf("%d", len(bp.Features.Features)))
	if res.Provider != "" {
		printKeyValue("Provider", res.Provider)
	}
	if cached {
		printDetail("served from cache")
	}

	prefix := "blueprint"
	if !popts.noSave {
		st, err := newStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		p := store.NewProject(idea, mode, bp)
		if err := st.Save(ctx, p); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		printKeyValue("Project", StyleHighlight.Render(p.ID))
		prefix = shortID(p.ID)
	}

	if !popts.noRender {
		printNewline()
		if _, err := c.writeDiagrams(ctx, runner, bp, allDiagrams, popts.dir, prefix, opts); err != nil {
			return err
		}
	}
	return nil
}

// runDialogue asks the clarifying questions and returns the refined idea.
func (c *CLI) runDialogue(ctx context.Context, src planner.QuestionSource, idea string) (string, error) {
	spinner := newSpinnerWithContext(ctx, "Fetching questions...")
	spinner.Start()
	d, err := planner.StartDialogue(ctx, src, idea)
	spinner.Stop()
	if err != nil {
		return "", err
	}
	if d.Scripted() {
		printWarning("Backend offered no questions; asking the standard ones")
	}

	final, err := tea.NewProgram(NewDialogueModel(d), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(DialogueModel); ok && m.Aborted {
		return "", errAborted
	}
	printSuccess("Answered %d of %d questions", len(d.Answers()), len(d.Questions()))
	return planner.ValidateRefined(d.Refined())
}

// generate plans the blueprint, falling back to the default blueprint when
// the backend is unavailable or offline is set.
func (c *CLI) generate(ctx context.Context, runner *pipeline.Runner, gen pipeline.Generator, idea string, mode blueprint.Mode, offline, refresh bool) (planner.Result, bool, error) {
	if offline {
		return planner.Result{Blueprint: blueprint.Fallback()}, false, nil
	}
	spinner := newSpinnerWithContext(ctx, "Generating blueprint...")
	spinner.Start()
	prog := newProgress(c.Logger)
	res, cached, err := runner.Plan(ctx, gen, idea, mode, refresh)
	switch {
	case errors.Is(err, planner.ErrUnavailable):
		spinner.Stop()
		printWarning("Planning backend unavailable; using the default blueprint")
		c.Logger.Debug("backend error", "err", err)
		return planner.Result{Blueprint: blueprint.Fallback()}, false, nil
	case err != nil:
		spinner.StopWithError("Planning failed")
		return planner.Result{}, false, err
	}
	spinner.Stop()
	prog.done("generated blueprint", "mode", mode, "cached", cached)
	return res, cached, nil
}

var allDiagrams = []graph.DiagramType{graph.DiagramUserFlow, graph.DiagramTechStack}

// writeDiagrams lays out and renders the given diagrams of bp into dir as
// <prefix>-<diagram>.<ext> and returns the written paths.
func (c *CLI) writeDiagrams(ctx context.Context, runner *pipeline.Runner, bp blueprint.Blueprint, kinds []graph.DiagramType, dir, prefix string, opts pipeline.Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, kind := range kinds {
		res, src, err := runner.DiagramLayout(ctx, bp, kind, opts)
		if err != nil {
			return paths, fmt.Errorf("lay out %s: %w", kind, err)
		}
		o := opts
		if o.Title == "" {
			o.Title = bp.Title()
		}
		artifacts, err := runner.Render(ctx, res, o)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", kind, err)
		}
		for _, f := range o.Formats {
			name := fmt.Sprintf("%s-%s.%s", prefix, kind, pipeline.FormatExt(f))
			if err := bperrors.ValidatePath(name); err != nil {
				return paths, err
			}
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
				return paths, fmt.Errorf("write %s: %w", path, err)
			}
			paths = append(paths, path)
		}
		printInfo("%s %s", kind, StyleDim.Render(fmt.Sprintf("(%d cards, from %s)", len(res.Cards), src)))
		for _, p := range paths[len(paths)-len(o.Formats):] {
			printFile(p)
		}
	}
	return paths, nil
}

// shortID is the first block of a project UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
