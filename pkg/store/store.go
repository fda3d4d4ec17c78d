// Package store persists generated blueprints as projects.
//
// Three backends implement [Store]: [FileStore] keeps one JSON file per
// project for the CLI, [MemoryStore] is used by tests and ephemeral servers,
// and [MongoStore] backs multi-instance deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/blueprint/pkg/blueprint"
)

// ErrNotFound is returned when a project does not exist.
var ErrNotFound = errors.New("project not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Project is a saved blueprint together with the idea it was generated from.
type Project struct {
	ID        string              `json:"id" bson:"_id"`
	Title     string              `json:"title" bson:"title"`
	Idea      string              `json:"idea" bson:"idea"`
	Mode      blueprint.Mode      `json:"mode" bson:"mode"`
	Blueprint blueprint.Blueprint `json:"blueprint" bson:"blueprint"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
}

// Summary is the listing view of a project.
type Summary struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Mode        blueprint.Mode `json:"mode"`
	Feasibility string         `json:"feasibility"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Summary returns the listing view of p.
func (p Project) Summary() Summary {
	return Summary{
		ID:          p.ID,
		Title:       p.Title,
		Mode:        p.Mode,
		Feasibility: p.Blueprint.Feasibility.Level,
		CreatedAt:   p.CreatedAt,
	}
}

// NewProject returns an unsaved project. On first save its title is taken
// from the blueprint's problem statement, or from the idea when that is
// missing.
func NewProject(idea string, mode blueprint.Mode, bp blueprint.Blueprint) *Project {
	return &Project{Idea: idea, Mode: mode, Blueprint: bp}
}

// Store is a project repository.
type Store interface {
	// Save inserts or replaces p. A missing ID is generated and timestamps
	// are maintained; p is updated in place.
	Save(ctx context.Context, p *Project) error

	// Get returns the project with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Project, error)

	// List returns up to limit projects, newest first.
	List(ctx context.Context, limit int) ([]Project, error)

	// Delete removes a project. Deleting a missing project returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

// prepare fills the generated fields of p before it is written.
func prepare(p *Project, now time.Time) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Title == "" {
		p.Title = p.Blueprint.Title()
		if p.Title == "" || p.Title == blueprint.NotProvided {
			p.Title = truncate(p.Idea, 60)
		}
	}
	if p.Mode == "" {
		p.Mode = blueprint.ModeQuick
	}
	now = now.UTC().Truncate(time.Millisecond)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
