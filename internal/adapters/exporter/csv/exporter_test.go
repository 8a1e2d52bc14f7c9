package csv

import (
	"strings"
	"testing"
	"time"

	"voicecat/internal/domain"
)

func TestExport(t *testing.T) {
	price, rate, total := 1500.5, 40.0, 100.0
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	entries := []*domain.CatalogEntry{
		{ID: "e1", Title: "Silk Saree", Description: "Red, handwoven", Category: "Clothing & Accessories > Women",
			Price: &price, Quantity: 1, Tags: []string{"silk", "saree"}, SourceLanguage: domain.Tamil, CreatedAt: ts, UpdatedAt: ts},
		{ID: "e2", Title: "Rice", Price: &rate, UnitPrice: &rate, Total: &total, Quantity: 2.5, Unit: "kg", CreatedAt: ts, UpdatedAt: ts},
	}
	out, err := New().Export(entries)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "id,title,description,category,price") {
		t.Errorf("header = %q", lines[0])
	}
	want1 := `e1,Silk Saree,"Red, handwoven",Clothing & Accessories > Women,1500.5,1,,,,,,,,,silk|saree,ta,2024-03-01T09:30:00Z,2024-03-01T09:30:00Z`
	if lines[1] != want1 {
		t.Errorf("row 1 = %q\nwant    %q", lines[1], want1)
	}
	if !strings.HasPrefix(lines[2], "e2,Rice,,,40,2.5,kg,40,100,") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestExportSemicolon(t *testing.T) {
	out, _ := (&Exporter{Comma: ';'}).Export(nil)
	if !strings.HasPrefix(string(out), "id;title;") {
		t.Errorf("output = %q", out)
	}
}
