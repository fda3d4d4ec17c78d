package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blueprint/pkg/blueprint"
	bperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/layout"
	"github.com/matzehuels/blueprint/pkg/pipeline"
	"github.com/matzehuels/blueprint/pkg/planner"
	"github.com/matzehuels/blueprint/pkg/store"
)

const healthTimeout = 5 * time.Second

// =============================================================================
// Requests
// =============================================================================

type layoutRequest struct {
	Graph          graph.Graph   `json:"graph"`
	Diagram        string        `json:"diagram" validate:"omitempty,oneof=graph user-flow tech-stack"`
	AvailableWidth float64       `json:"available_width" validate:"gte=0"`
	Layout         layout.Config `json:"layout"`
	Refresh        bool          `json:"refresh"`
}

type renderRequest struct {
	layoutRequest
	Format      string `json:"format" validate:"omitempty,oneof=svg html json dot graphviz-svg"`
	Style       string `json:"style" validate:"omitempty,oneof=simple mono"`
	NaturalSize bool   `json:"natural_size"`
	Interactive bool   `json:"interactive"`
	Detailed    bool   `json:"detailed"`
	Title       string `json:"title" validate:"max=200"`
}

type createProjectRequest struct {
	Idea      string          `json:"idea" validate:"required"`
	Mode      string          `json:"mode"`
	Blueprint json.RawMessage `json:"blueprint"`
	Refresh   bool            `json:"refresh"`
}

type questionsRequest struct {
	Idea string `json:"idea" validate:"required"`
}

// options merges a request with the server defaults.
func (s *Server) options(req layoutRequest) pipeline.Options {
	opts := s.defaults
	opts.Diagram = req.Diagram
	if req.AvailableWidth > 0 {
		opts.AvailableWidth = req.AvailableWidth
	}
	opts.Layout = mergeConfig(req.Layout, s.defaults.Layout)
	opts.Refresh = req.Refresh
	opts.Provider = nil
	return opts
}

func mergeConfig(c, def layout.Config) layout.Config {
	pick := func(v, d float64) float64 {
		if v > 0 {
			return v
		}
		return d
	}
	return layout.Config{
		CardWidth:       pick(c.CardWidth, def.CardWidth),
		CardHeight:      pick(c.CardHeight, def.CardHeight),
		HorizontalGap:   pick(c.HorizontalGap, def.HorizontalGap),
		VerticalGap:     pick(c.VerticalGap, def.VerticalGap),
		Padding:         pick(c.Padding, def.Padding),
		ReferenceHeight: pick(c.ReferenceHeight, def.ReferenceHeight),
		ScaleFloor:      pick(c.ScaleFloor, def.ScaleFloor),
	}
}

func validateGraph(g graph.Graph) error {
	for _, n := range g.Nodes {
		if n.ID == "" {
			continue // dropped at ingestion
		}
		if err := bperrors.ValidateNodeID(n.ID); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{"status": "healthy", "backend": "disabled"}
	if s.planner != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		data["backend"] = "ok"
		if err := s.planner.Health(ctx); err != nil {
			data["backend"] = "unavailable"
		}
	}
	respondData(w, http.StatusOK, "ok", data)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := validateGraph(req.Graph); err != nil {
		s.respondErr(w, r, err)
		return
	}
	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Graph, s.options(req))
	if err != nil {
		s.respondErr(w, r, bperrors.Wrap(bperrors.ErrCodeInvalidInput, err, "invalid layout options"))
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	respondData(w, http.StatusOK, "layout computed", res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := validateGraph(req.Graph); err != nil {
		s.respondErr(w, r, err)
		return
	}
	opts := s.options(req.layoutRequest)
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	opts.Formats = []string{req.Format}
	if req.Style != "" {
		opts.Style = req.Style
	}
	opts.NaturalSize = req.NaturalSize
	opts.Interactive = req.Interactive
	opts.Detailed = req.Detailed
	opts.Title = req.Title

	result, err := s.runner.Execute(r.Context(), req.Graph, opts)
	if err != nil {
		s.respondErr(w, r, bperrors.Wrap(bperrors.ErrCodeInternal, err, "render failed"))
		return
	}
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	writeArtifact(w, req.Format, result.Artifacts[req.Format])
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	d, err := planner.StartDialogue(r.Context(), s.planner, req.Idea)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, "questions ready", map[string]any{
		"raw_idea":  d.Idea(),
		"scripted":  d.Scripted(),
		"questions": d.Questions(),
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid request", "limit must be a positive integer")
			return
		}
		limit = n
	}
	projects, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	summaries := make([]store.Summary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, p.Summary())
	}
	respondData(w, http.StatusOK, "projects listed", summaries)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	mode, err := blueprint.ParseMode(req.Mode)
	if err != nil {
		s.respondErr(w, r, bperrors.Wrap(bperrors.ErrCodeInvalidInput, err, "invalid mode"))
		return
	}
	var idea string
	if mode == blueprint.ModeInteractive {
		idea, err = planner.ValidateRefined(req.Idea)
	} else {
		idea, err = bperrors.ValidateIdea(req.Idea)
	}
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var (
		bp       blueprint.Blueprint
		provider string
	)
	switch {
	case len(req.Blueprint) > 0 && string(req.Blueprint) != "null":
		bp, err = blueprint.Decode(req.Blueprint)
		if err != nil {
			s.respondErr(w, r, bperrors.Wrap(bperrors.ErrCodeInvalidInput, err, "malformed blueprint"))
			return
		}
	case s.planner != nil:
		res, _, err := s.runner.Plan(r.Context(), s.planner, idea, mode, req.Refresh)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		bp, provider = res.Blueprint, res.Provider
	default:
		respondError(w, http.StatusBadRequest, "invalid request", "blueprint is required when no planning backend is configured")
		return
	}

	p := store.NewProject(idea, mode, bp)
	if err := s.store.Save(r.Context(), p); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/blueprints/"+p.ID)
	respondData(w, http.StatusCreated, "project saved", map[string]any{
		"project":       p,
		"provider_used": provider,
	})
}

func (s *Server) project(w http.ResponseWriter, r *http.Request) (*store.Project, bool) {
	id := chi.URLParam(r, "id")
	if err := bperrors.ValidateProjectID(id); err != nil {
		s.respondErr(w, r, err)
		return nil, false
	}
	p, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return nil, false
	}
	return p, true
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.project(w, r); ok {
		respondData(w, http.StatusOK, "project found", p)
	}
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := bperrors.ValidateProjectID(id); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, "project deleted", nil)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	kind, err := graph.ParseDiagramType(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondErr(w, r, bperrors.Wrap(bperrors.ErrCodeInvalidDiagram, err, "unknown diagram"))
		return
	}
	q := r.URL.Query()
	opts := s.defaults
	opts.Provider = nil
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || width < 0 {
			respondError(w, http.StatusBadRequest, "invalid request", "width must be a non-negative number")
			return
		}
		opts.AvailableWidth = width
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondErr(w, r, bperrors.Wrap(bperrors.ErrCodeInvalidFormat, err, "unknown format"))
		return
	}

	p, ok := s.project(w, r)
	if !ok {
		return
	}
	res, src, err := s.runner.DiagramLayout(r.Context(), p.Blueprint, kind, opts)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.Header().Set("X-Diagram-Source", string(src))
	if format == pipeline.FormatJSON {
		respondData(w, http.StatusOK, "layout computed", res)
		return
	}

	opts.Formats = []string{format}
	opts.Title = p.Title
	artifacts, err := s.runner.Render(r.Context(), res, opts)
	if err != nil {
		s.respondErr(w, r, bperrors.Wrap(bperrors.ErrCodeInternal, err, "render failed"))
		return
	}
	writeArtifact(w, format, artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

var contentTypes = map[string]string{
	pipeline.FormatSVG:         "image/svg+xml",
	pipeline.FormatGraphvizSVG: "image/svg+xml",
	pipeline.FormatHTML:        "text/html; charset=utf-8",
	pipeline.FormatJSON:        "application/json",
	pipeline.FormatDOT:         "text/vnd.graphviz",
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
