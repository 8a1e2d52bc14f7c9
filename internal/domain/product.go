package domain

import (
	"strings"
	"time"
)

// DefaultTitle is used when no qualifying title tokens exist.
const DefaultTitle = "Product"

// DefaultCategory is used when no taxonomy keyword matches.
const DefaultCategory = "General"

type ExtractedProduct struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit,omitempty"`
	// UnitPrice is set when the price is a rate ("90 rupees per kg");
	// Total is then the rate applied to Quantity.
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	Total      *float64 `json:"total,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	Color      string   `json:"color,omitempty"`
	Size       string   `json:"size,omitempty"`
	Material   string   `json:"material,omitempty"`
	Origin     string   `json:"origin,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Subcategory returns the part of the category after the last ">" separator.
func (p ExtractedProduct) Subcategory() string {
	if i := strings.LastIndex(p.Category, ">"); i >= 0 {
		return strings.TrimSpace(p.Category[i+1:])
	}
	return p.Category
}

// ExtractionResult reports which strategy produced Details, or why none did.
type ExtractionResult struct {
	Success bool              `json:"success"`
	Method  string            `json:"method,omitempty"` // llm | rules
	Details *ExtractedProduct `json:"details,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type CatalogEntry struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Price          *float64  `json:"price"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit,omitempty"`
	UnitPrice      *float64  `json:"unit_price,omitempty"`
	Total          *float64  `json:"total,omitempty"`
	Brand          string    `json:"brand,omitempty"`
	Color          string    `json:"color,omitempty"`
	Size           string    `json:"size,omitempty"`
	Material       string    `json:"material,omitempty"`
	Origin         string    `json:"origin,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	SourceLanguage Language  `json:"source_language,omitempty"`
	Transcript     string    `json:"transcript,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCatalogEntry copies the extracted fields; ID and timestamps are set by storage.
func NewCatalogEntry(p ExtractedProduct) *CatalogEntry {
	return &CatalogEntry{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		Total:       p.Total,
		Brand:       p.Brand,
		Color:       p.Color,
		Size:        p.Size,
		Material:    p.Material,
		Origin:      p.Origin,
		Tags:        p.Tags,
	}
}

// CatalogPatch is a partial update; nil fields are left untouched.
type CatalogPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price"`
	ClearPrice  bool      `json:"clear_price"`
	UnitPrice   *float64  `json:"unit_price"`
	Total       *float64  `json:"total"`
	Quantity    *float64  `json:"quantity"`
	Unit        *string   `json:"unit"`
	Brand       *string   `json:"brand"`
	Color       *string   `json:"color"`
	Size        *string   `json:"size"`
	Material    *string   `json:"material"`
	Origin      *string   `json:"origin"`
	Tags        *[]string `json:"tags"`
}

// Apply writes the non-nil patch fields onto e.
func (p CatalogPatch) Apply(e *CatalogEntry) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setNum := func(dst **float64, v *float64) {
		if v != nil {
			n := *v
			*dst = &n
		}
	}
	setStr(&e.Title, p.Title)
	setStr(&e.Description, p.Description)
	setStr(&e.Category, p.Category)
	setStr(&e.Unit, p.Unit)
	setStr(&e.Brand, p.Brand)
	setStr(&e.Color, p.Color)
	setStr(&e.Size, p.Size)
	setStr(&e.Material, p.Material)
	setStr(&e.Origin, p.Origin)
	if p.ClearPrice {
		e.Price, e.UnitPrice, e.Total = nil, nil, nil
	} else {
		setNum(&e.Price, p.Price)
		setNum(&e.UnitPrice, p.UnitPrice)
		setNum(&e.Total, p.Total)
	}
	if p.Quantity != nil {
		e.Quantity = *p.Quantity
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), (*p.Tags)...)
	}
}
