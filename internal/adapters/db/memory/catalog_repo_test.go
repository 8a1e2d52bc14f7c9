package memory

import (
	"context"
	"errors"
	"testing"

	"voicecat/internal/adapters/ids"
	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

func TestCatalogRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewCatalogRepo(ids.NewSequence("p", 0))
	price := 500.0
	e := &domain.CatalogEntry{Title: "Silk Saree", Category: "Clothing & Accessories > Women", Price: &price, Quantity: 1}
	if err := r.Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID != "p1" || e.UpdatedAt.IsZero() {
		t.Fatalf("Create did not assign id/timestamps: %+v", e)
	}

	title := "Cotton Saree"
	got, err := r.Update(ctx, e.ID, domain.CatalogPatch{Title: &title, ClearPrice: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != title || got.Price != nil {
		t.Errorf("Update result = %+v", got)
	}
	if got.UpdatedAt.Before(e.UpdatedAt) {
		t.Errorf("UpdatedAt moved backwards")
	}

	found, _ := r.Search(ctx, "cotton")
	if len(found) != 1 || found[0].ID != e.ID {
		t.Errorf("Search(cotton) = %v", found)
	}
	none, _ := r.Search(ctx, "turmeric")
	if len(none) != 0 {
		t.Errorf("Search(turmeric) = %v, want empty", none)
	}

	if err := r.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Get(ctx, e.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := r.Delete(ctx, e.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestCatalogRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewCatalogRepo(ids.NewUUID())
	e := &domain.CatalogEntry{Title: "Lamp", Tags: []string{"brass"}}
	_ = r.Create(ctx, e)
	got, _ := r.Get(ctx, e.ID)
	got.Title = "changed"
	got.Tags[0] = "changed"
	again, _ := r.Get(ctx, e.ID)
	if again.Title != "Lamp" || again.Tags[0] != "brass" {
		t.Errorf("stored entry was mutated through a returned copy: %+v", again)
	}
}
