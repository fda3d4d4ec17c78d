package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/blueprint/pkg/blueprint"
)

// clock returns increasing times one second apart.
func clock() func() time.Time {
	t := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	mem := NewMemoryStore()
	mem.now = clock()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	fs.now = clock()
	return map[string]Store{"memory": mem, "file": fs}
}

func TestStores(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			testStore(t, s)
		})
	}
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	bp := blueprint.Fallback()
	bp.Summary.ProblemStatement = "Students miss library due dates"
	p := NewProject("A library reminder app for students", blueprint.ModeInteractive, bp)
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		t.Fatalf("ID %q is not a uuid", p.ID)
	}
	if p.Title != "Students miss library due dates" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Errorf("timestamps = %v, %v", p.CreatedAt, p.UpdatedAt)
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Idea != p.Idea || got.Mode != blueprint.ModeInteractive || got.Blueprint.Summary.ProblemStatement != bp.Summary.ProblemStatement {
		t.Errorf("Get = %+v", got)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, p.CreatedAt)
	}

	// Resaving keeps the creation time.
	created := p.CreatedAt
	p.Idea = "updated"
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if !p.CreatedAt.Equal(created) || !p.UpdatedAt.After(created) {
		t.Errorf("resave timestamps = %v, %v", p.CreatedAt, p.UpdatedAt)
	}

	untitled := NewProject("A quick idea without a summary", "", blueprint.Fallback())
	if err := s.Save(ctx, untitled); err != nil {
		t.Fatal(err)
	}
	if untitled.Title != "A quick idea without a summary" || untitled.Mode != blueprint.ModeQuick {
		t.Errorf("untitled = %q %q", untitled.Title, untitled.Mode)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != untitled.ID || list[1].ID != p.ID {
		t.Errorf("List order wrong: %v", ids(list))
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d", len(list))
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
	if err := s.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: %v", err)
	}
	if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get unknown: %v", err)
	}
}

func ids(ps []Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	ctx := context.Background()
	fs, _ := NewFileStore(t.TempDir())
	for _, id := range []string{"../escape", "not-a-uuid"} {
		if _, err := fs.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) = %v", id, err)
		}
		if err := fs.Save(ctx, &Project{ID: id}); err == nil {
			t.Errorf("Save(%q) should fail", id)
		}
	}
}

func TestFileStoreListSkipsGarbage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, _ := NewFileStore(dir)
	if err := os.WriteFile(dir+"/"+uuid.NewString()+".json", []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/notes.txt", []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(ctx, NewProject("idea that is long enough", blueprint.ModeQuick, blueprint.Fallback())); err != nil {
		t.Fatal(err)
	}
	list, err := fs.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("List returned %d projects", len(list))
	}
}

func TestTitleTruncation(t *testing.T) {
	p := NewProject(strings.Repeat("x", 100), blueprint.ModeQuick, blueprint.Blueprint{})
	prepare(p, time.Now())
	if n := len([]rune(p.Title)); n != 60 || !strings.HasSuffix(p.Title, "...") {
		t.Errorf("Title = %q (%d)", p.Title, n)
	}
}

func TestProjectSummary(t *testing.T) {
	p := Project{ID: "id", Title: "T", Mode: blueprint.ModeQuick}
	p.Blueprint.Feasibility.Level = blueprint.FeasibilityHigh
	s := p.Summary()
	if s.ID != "id" || s.Feasibility != blueprint.FeasibilityHigh {
		t.Errorf("Summary = %+v", s)
	}
}

// Runs against a live server only when BLUEPRINT_TEST_MONGO is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("BLUEPRINT_TEST_MONGO")
	if uri == "" {
		t.Skip("BLUEPRINT_TEST_MONGO not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s, err := NewMongoStore(ctx, uri, "blueprint_test_"+strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Database().Drop(context.Background())
		_ = s.Close()
	}()
	s.now = clock()
	testStore(t, s)
}
