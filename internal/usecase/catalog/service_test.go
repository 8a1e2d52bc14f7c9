package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"voicecat/internal/adapters/db/memory"
	csvexp "voicecat/internal/adapters/exporter/csv"
	jsonexp "voicecat/internal/adapters/exporter/json"
	"voicecat/internal/adapters/exporter/registry"
	"voicecat/internal/adapters/ids"
	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type names []string

func (n *names) Emit(name string, _ any) { *n = append(*n, name) }

func newService() (*Service, *names) {
	ev := &names{}
	return New(memory.NewCatalogRepo(ids.NewSequence("c", 0)), registry.New(csvexp.New(), jsonexp.New()), ev), ev
}

func TestCreateAppliesDefaults(t *testing.T) {
	s, ev := newService()
	e := &domain.CatalogEntry{Title: "  "}
	if err := s.Create(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if e.ID != "c1" || e.Title != domain.DefaultTitle || e.Category != domain.DefaultCategory || e.Quantity != 1 {
		t.Errorf("entry = %+v", e)
	}
	if len(*ev) != 1 || (*ev)[0] != "catalog.entry.created" {
		t.Errorf("events = %v", *ev)
	}
	neg := -1.0
	if err := s.Create(context.Background(), &domain.CatalogEntry{Title: "x", Price: &neg}); !errors.Is(err, ErrInvalid) {
		t.Errorf("negative price error = %v", err)
	}
	if err := s.Create(context.Background(), &domain.CatalogEntry{Title: "x", Total: &neg}); !errors.Is(err, ErrInvalid) {
		t.Errorf("negative total error = %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	s, _ := newService()
	e := &domain.CatalogEntry{Title: "Rice"}
	_ = s.Create(context.Background(), e)
	empty, zero, neg := " ", 0.0, -1.0
	tests := []domain.CatalogPatch{{Title: &empty}, {Quantity: &zero}, {Price: &neg}, {UnitPrice: &neg}, {Total: &neg}}
	for _, p := range tests {
		if _, err := s.Update(context.Background(), e.ID, p); !errors.Is(err, ErrInvalid) {
			t.Errorf("Update(%+v) error = %v, want ErrInvalid", p, err)
		}
	}
	title := "Ponni Rice"
	got, err := s.Update(context.Background(), e.ID, domain.CatalogPatch{Title: &title})
	if err != nil || got.Title != title {
		t.Errorf("Update = %+v, %v", got, err)
	}
	if _, err := s.Update(context.Background(), "nope", domain.CatalogPatch{Title: &title}); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}
}

func TestExport(t *testing.T) {
	s, _ := newService()
	_ = s.Create(context.Background(), &domain.CatalogEntry{Title: "Turmeric"})
	b, ct, err := s.Export(context.Background(), "CSV")
	if err != nil || !strings.HasPrefix(ct, "text/csv") || !strings.Contains(string(b), "Turmeric") {
		t.Errorf("Export(csv) = %q, %q, %v", b, ct, err)
	}
	if _, _, err := s.Export(context.Background(), "xml"); !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), "csv, json") {
		t.Errorf("Export(xml) error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, ev := newService()
	e := &domain.CatalogEntry{Title: "Lamp"}
	_ = s.Create(context.Background(), e)
	if err := s.Delete(context.Background(), e.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(context.Background(), e.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
	if (*ev)[len(*ev)-1] != "catalog.entry.deleted" {
		t.Errorf("events = %v", *ev)
	}
}
