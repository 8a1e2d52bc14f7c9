// Package catalog exposes the stored catalog: CRUD, search and export.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

// ErrInvalid wraps rejected user input.
var ErrInvalid = errors.New("invalid catalog entry")

type Exporters interface {
	Get(format string) (ports.Exporter, bool)
	Formats() []string
}

type Service struct {
	Repo      ports.CatalogRepository
	Exporters Exporters
	Events    ports.EventEmitter
}

func New(repo ports.CatalogRepository, exporters Exporters, events ports.EventEmitter) *Service {
	return &Service{Repo: repo, Exporters: exporters, Events: events}
}

func (s *Service) List(ctx context.Context) ([]*domain.CatalogEntry, error) { return s.Repo.List(ctx) }

func (s *Service) Get(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	return s.Repo.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, q string) ([]*domain.CatalogEntry, error) {
	return s.Repo.Search(ctx, q)
}

// Create stores a manually entered product. Title and category fall back to
// the same defaults extraction uses.
func (s *Service) Create(ctx context.Context, e *domain.CatalogEntry) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		e.Title = domain.DefaultTitle
	}
	if strings.TrimSpace(e.Category) == "" {
		e.Category = domain.DefaultCategory
	}
	if e.Quantity <= 0 {
		e.Quantity = 1
	}
	if err := validate(e); err != nil {
		return err
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return err
	}
	s.emit("catalog.entry.created", e)
	return nil
}

func (s *Service) Update(ctx context.Context, id string, patch domain.CatalogPatch) (*domain.CatalogEntry, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalid)
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalid)
	}
	if err := checkAmounts(patch.Price, patch.UnitPrice, patch.Total); err != nil {
		return nil, err
	}
	e, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.emit("catalog.entry.updated", e)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Events != nil {
		s.Events.Emit("catalog.entry.deleted", map[string]any{"id": id})
	}
	return nil
}

// Export renders the whole catalog and returns the payload with its content type.
func (s *Service) Export(ctx context.Context, format string) ([]byte, string, error) {
	ex, ok := s.Exporters.Get(format)
	if !ok {
		return nil, "", fmt.Errorf("%w: unsupported export format %q (have %s)", ErrInvalid, format, strings.Join(s.Exporters.Formats(), ", "))
	}
	entries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, "", err
	}
	b, err := ex.Export(entries)
	if err != nil {
		return nil, "", fmt.Errorf("export %s: %w", format, err)
	}
	return b, ex.ContentType(), nil
}

func validate(e *domain.CatalogEntry) error {
	return checkAmounts(e.Price, e.UnitPrice, e.Total)
}

func checkAmounts(price, unitPrice, total *float64) error {
	for _, a := range []struct {
		name string
		v    *float64
	}{{"price", price}, {"unit_price", unitPrice}, {"total", total}} {
		if a.v != nil && *a.v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, a.name)
		}
	}
	return nil
}

func (s *Service) emit(name string, e *domain.CatalogEntry) {
	if s.Events != nil {
		s.Events.Emit(name, map[string]any{"id": e.ID, "title": e.Title, "category": e.Category})
	}
}
