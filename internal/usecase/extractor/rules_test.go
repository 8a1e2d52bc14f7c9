package extractor

import (
	"context"
	"strings"
	"testing"

	"voicecat/internal/domain"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"is the and or", "Product"},
		{"", "Product"},
		{"saree 500 rupees", "Saree 500 Rupees"},
		{"this saree costs 500 rupees", "Saree 500 Rupees"},
		{"Fresh ORGANIC Turmeric powder", "Fresh ORGANIC Turmeric"},
		{"LED lamp 200 rupees", "LED Lamp 200"},
		{"iron tawa", "Iron Tawa"},
		{"a big, red (cotton) shirt!", "Big Red Cotton"},
		{"to be or no", "Product"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Title(tt.in); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"this saree costs 500 rupees", ptr(500)},
		{"a nice saree", nil},
		{"silk saree 1,500 rupees", ptr(1500)},
		{"lakh grouping 1,00,000 rupees", ptr(100000)},
		{"oil 250.50 rupees per litre", ptr(250.5)},
		{"imported tea 12 dollars", ptr(12)},
		{"mango 80rs a dozen", ptr(80)},
		{"turmeric ₹120", ptr(120)},
		{"turmeric 120₹", ptr(120)},
		{"candle $5", ptr(5)},
		{"2 kg rice", nil},
		{"rice 2 kg 90 INR", ptr(90)},
		{"zero is not unknown: 0 rupees", ptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Price(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Price(%q) = %v, want nil", tt.in, *got)
			case tt.want != nil && got == nil:
				t.Errorf("Price(%q) = nil, want %v", tt.in, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("Price(%q) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestQuantity(t *testing.T) {
	tests := []struct {
		in       string
		wantQty  float64
		wantUnit string
	}{
		{"2 kg rice", 2, "kg"},
		{"some rice", 1, ""},
		{"coconut oil 1.5 litres 300 rupees", 1.5, "litres"},
		{"500 grams turmeric", 500, "grams"},
		{"soap 3 pieces", 3, "pieces"},
		{"pickle 2 jars", 2, "jars"},
		{"saree 500 rupees", 1, ""},
		{"0 kg is not a quantity", 1, ""},
		{"2,500 ml coconut oil", 2500, "ml"},
		{"1,000 grams of turmeric", 1000, "grams"},
		{"rice 1,00,000 kg lot", 100000, "kg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			qty, unit := Quantity(tt.in)
			if qty != tt.wantQty || unit != tt.wantUnit {
				t.Errorf("Quantity(%q) = (%v, %q), want (%v, %q)", tt.in, qty, unit, tt.wantQty, tt.wantUnit)
			}
		})
	}
}

func TestUnitPricing(t *testing.T) {
	tests := []struct {
		in        string
		wantRate  *float64
		wantTotal *float64
	}{
		{"ponni rice 2 kg 90 rupees per kg", ptr(90), ptr(180)},
		{"turmeric 500 grams ₹120 per kg", ptr(120), ptr(60)},
		{"coconut oil 2 litres 250 rs/litre", ptr(250), ptr(500)},
		{"neem soap 3 pieces 20 rupees each", ptr(20), ptr(60)},
		{"mango 80rs a dozen", ptr(80), ptr(80)},
		{"eggs 6 pieces 72 rupees a dozen", ptr(72), ptr(36)},
		{"rice 2 kg 90 rupees per litre", ptr(90), nil},
		{"saree 500 rupees", nil, nil},
		{"500 rupees a nice saree", nil, nil},
		{"rate 90 per kg", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			qty, unit := Quantity(tt.in)
			rate, total := UnitPricing(tt.in, qty, unit)
			if !sameAmount(rate, tt.wantRate) || !sameAmount(total, tt.wantTotal) {
				t.Errorf("UnitPricing(%q) = (%v, %v), want (%v, %v)", tt.in, deref(rate), deref(total), deref(tt.wantRate), deref(tt.wantTotal))
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fresh ORGANIC Turmeric", "Food & Beverages > Spices"},
		{"fresh organic turmeric", "Food & Beverages > Spices"},
		{"saree 500 rupees", "Clothing & Accessories > Women"},
		{"herbal hair oil 200 ml", "Health & Beauty > Hair Care"},
		{"cold pressed coconut oil", "Food & Beverages > Oils"},
		{"neem soap 3 pieces", "Health & Beauty > Soap"},
		{"ponni rice 25 kg", "Food & Beverages > Grains & Pulses"},
		{"fresh tomatoes", "Food & Beverages > Fruits & Vegetables"},
		{"terracotta lamp", "Home & Kitchen > Decor"},
		{"spoil the soil", "General"},
		{"", "General"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Categorize(tt.in); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		text     string
		contains []string
	}{
		{"handmade terracotta lamp 150 rupees", []string{"Handcrafted", "₹150"}},
		{"fresh tomatoes 2 kg", []string{"Farm-fresh"}},
		{"ponni rice", []string{"Quality Ponni Rice", "grains & pulses"}},
		{"groundnut oil 1 litre", []string{"Traditional", "oils"}},
		{"turmeric powder 100 grams", []string{"Traditional", "spices"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p, err := NewRules().Extract(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Extract(%q) error: %v", tt.text, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(p.Description, want) {
					t.Errorf("description %q missing %q", p.Description, want)
				}
			}
		})
	}
}

func TestRulesExtract(t *testing.T) {
	p, err := NewRules().Extract(context.Background(), "saree 500 rupees")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if p.Title != "Saree 500 Rupees" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Price == nil || *p.Price != 500 {
		t.Errorf("Price = %v, want 500", p.Price)
	}
	if p.Quantity != 1 {
		t.Errorf("Quantity = %v, want 1", p.Quantity)
	}
	if p.Category != "Clothing & Accessories > Women" {
		t.Errorf("Category = %q", p.Category)
	}
	if p.Description == "" {
		t.Error("Description is empty")
	}
}

func TestRulesExtractRate(t *testing.T) {
	p, err := NewRules().Extract(context.Background(), "ponni rice 25 kg 60 rupees per kg")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if p.Price == nil || *p.Price != 60 || p.Quantity != 25 || p.Unit != "kg" {
		t.Errorf("price/quantity = %v %v %q", deref(p.Price), p.Quantity, p.Unit)
	}
	if p.UnitPrice == nil || *p.UnitPrice != 60 || p.Total == nil || *p.Total != 1500 {
		t.Errorf("unit price/total = %v / %v, want 60 / 1500", deref(p.UnitPrice), deref(p.Total))
	}
}

func TestRulesExtractInvalidEncoding(t *testing.T) {
	_, err := NewRules().Extract(context.Background(), "saree \xff\xfe")
	if err != ErrInvalidEncoding {
		t.Errorf("Extract error = %v, want %v", err, ErrInvalidEncoding)
	}
}

func TestRulesNeverEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "is the and or", "12", "₹"} {
		p, err := NewRules().Extract(context.Background(), in)
		if err != nil {
			t.Fatalf("Extract(%q) error: %v", in, err)
		}
		if p.Title == "" || p.Category == "" || p.Description == "" || p.Quantity <= 0 {
			t.Errorf("Extract(%q) returned incomplete record %+v", in, p)
		}
		if p.Title != domain.DefaultTitle && in != "12" {
			t.Errorf("Extract(%q).Title = %q, want %q", in, p.Title, domain.DefaultTitle)
		}
	}
}

func ptr(v float64) *float64 { return &v }

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func sameAmount(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
