package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps projects in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]Project
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: map[string]Project{}, now: time.Now}
}

func (s *MemoryStore) Save(ctx context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepare(p, s.now())
	s.projects[p.ID] = *p
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Project, error) {
	s.mu.RLock()
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	s.mu.RUnlock()
	return newestFirst(out, limitOrDefault(limit)), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// newestFirst sorts by creation time, then ID, and truncates to limit.
func newestFirst(ps []Project, limit int) []Project {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
	if len(ps) > limit {
		ps = ps[:limit]
	}
	return ps
}

var _ Store = (*MemoryStore)(nil)
