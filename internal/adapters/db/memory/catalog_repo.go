// Package memory keeps catalog entries in process memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type CatalogRepo struct {
	mu      sync.RWMutex
	ids     ports.IDGenerator
	entries map[string]*domain.CatalogEntry
	now     func() time.Time
}

func NewCatalogRepo(ids ports.IDGenerator) *CatalogRepo {
	return &CatalogRepo{ids: ids, entries: map[string]*domain.CatalogEntry{}, now: func() time.Time { return time.Now().UTC() }}
}

func (r *CatalogRepo) Create(_ context.Context, e *domain.CatalogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	e.ID = r.ids.NewID()
	e.CreatedAt, e.UpdatedAt = now, now
	r.entries[e.ID] = clone(e)
	return nil
}

func (r *CatalogRepo) Get(_ context.Context, id string) (*domain.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(e), nil
}

func (r *CatalogRepo) List(_ context.Context) ([]*domain.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(*domain.CatalogEntry) bool { return true }), nil
}

func (r *CatalogRepo) Update(_ context.Context, id string, patch domain.CatalogPatch) (*domain.CatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	patch.Apply(e)
	e.UpdatedAt = r.now()
	return clone(e), nil
}

func (r *CatalogRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *CatalogRepo) Search(_ context.Context, query string) ([]*domain.CatalogEntry, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(e *domain.CatalogEntry) bool {
		if q == "" {
			return true
		}
		for _, f := range []string{e.Title, e.Description, e.Category, e.Brand} {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}), nil
}

// sorted returns matching entries, most recently modified first.
func (r *CatalogRepo) sorted(keep func(*domain.CatalogEntry) bool) []*domain.CatalogEntry {
	out := make([]*domain.CatalogEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, clone(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func clone(e *domain.CatalogEntry) *domain.CatalogEntry {
	c := *e
	c.Price = copyFloat(e.Price)
	c.UnitPrice = copyFloat(e.UnitPrice)
	c.Total = copyFloat(e.Total)
	c.Tags = append([]string(nil), e.Tags...)
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
