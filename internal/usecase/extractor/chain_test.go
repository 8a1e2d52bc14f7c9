package extractor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"voicecat/internal/domain"
)

type extractFunc func(ctx context.Context, text string) (domain.ExtractedProduct, error)

func (f extractFunc) Extract(ctx context.Context, text string) (domain.ExtractedProduct, error) {
	return f(ctx, text)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestChainUsesPrimary(t *testing.T) {
	price := 1200.0
	primary := extractFunc(func(context.Context, string) (domain.ExtractedProduct, error) {
		return domain.ExtractedProduct{Title: "Kanchipuram Silk Saree", Category: "Clothing & Accessories > Women", Price: &price, Quantity: 1, Description: "Silk."}, nil
	})
	res := NewChain(primary, time.Second, quietLogger()).Run(context.Background(), "silk saree 1200 rupees")
	if !res.Success || res.Method != MethodLLM {
		t.Fatalf("result = %+v, want llm success", res)
	}
	if res.Details.Title != "Kanchipuram Silk Saree" {
		t.Errorf("Title = %q", res.Details.Title)
	}
}

func TestChainDropsPriceWithoutCurrency(t *testing.T) {
	tests := []struct {
		text      string
		llmPrice  float64
		wantPrice *float64
	}{
		{"a nice saree", 250, nil},
		{"2 kg rice", 2, nil},
		{"silk saree 1,500 rupees", 1500000, ptr(1500)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			primary := extractFunc(func(context.Context, string) (domain.ExtractedProduct, error) {
				price := tt.llmPrice
				return domain.ExtractedProduct{Title: "Saree", Category: "General", Price: &price, Quantity: 1, Description: "x"}, nil
			})
			res := NewChain(primary, time.Second, quietLogger()).Run(context.Background(), tt.text)
			if !res.Success || res.Method != MethodLLM {
				t.Fatalf("result = %+v, want llm success", res)
			}
			if !sameAmount(res.Details.Price, tt.wantPrice) {
				t.Errorf("Details.Price = %v, want %v", deref(res.Details.Price), deref(tt.wantPrice))
			}
		})
	}
}

func TestChainDerivesRateTotalForLLM(t *testing.T) {
	primary := extractFunc(func(context.Context, string) (domain.ExtractedProduct, error) {
		invented := 999.0
		return domain.ExtractedProduct{Title: "Ponni Rice", Category: "General", Quantity: 5, Unit: "kilograms", Total: &invented, Description: "x"}, nil
	})
	res := NewChain(primary, time.Second, quietLogger()).Run(context.Background(), "ponni rice 5 kg 60 rupees per kg")
	if !res.Success || res.Method != MethodLLM {
		t.Fatalf("result = %+v, want llm success", res)
	}
	d := res.Details
	if !sameAmount(d.UnitPrice, ptr(60)) || !sameAmount(d.Total, ptr(300)) {
		t.Errorf("unit price/total = %v / %v, want 60 / 300", deref(d.UnitPrice), deref(d.Total))
	}
}

func TestChainFallsBackOnPrimaryError(t *testing.T) {
	primary := extractFunc(func(context.Context, string) (domain.ExtractedProduct, error) {
		return domain.ExtractedProduct{}, errors.New("quota exceeded")
	})
	res := NewChain(primary, time.Second, quietLogger()).Run(context.Background(), "saree 500 rupees")
	if !res.Success || res.Method != MethodRules || res.Details == nil {
		t.Fatalf("result = %+v, want rules success", res)
	}
	if res.Details.Title != "Saree 500 Rupees" {
		t.Errorf("Title = %q", res.Details.Title)
	}
}

func TestChainFallsBackOnTimeout(t *testing.T) {
	primary := extractFunc(func(ctx context.Context, _ string) (domain.ExtractedProduct, error) {
		<-ctx.Done()
		return domain.ExtractedProduct{}, ctx.Err()
	})
	res := NewChain(primary, 10*time.Millisecond, quietLogger()).Run(context.Background(), "2 kg rice")
	if !res.Success || res.Method != MethodRules {
		t.Fatalf("result = %+v, want rules success", res)
	}
	if res.Details.Quantity != 2 {
		t.Errorf("Quantity = %v, want 2", res.Details.Quantity)
	}
}

func TestChainFallsBackOnPrimaryPanic(t *testing.T) {
	primary := extractFunc(func(context.Context, string) (domain.ExtractedProduct, error) {
		panic("malformed response")
	})
	res := NewChain(primary, 0, quietLogger()).Run(context.Background(), "some rice")
	if !res.Success || res.Method != MethodRules {
		t.Fatalf("result = %+v, want rules success", res)
	}
}

func TestChainWithoutPrimary(t *testing.T) {
	res := NewChain(nil, 0, quietLogger()).Run(context.Background(), "neem soap")
	if !res.Success || res.Method != MethodRules {
		t.Fatalf("result = %+v, want rules success", res)
	}
}

func TestChainReportsFallbackFailure(t *testing.T) {
	c := NewChain(nil, 0, quietLogger())
	c.Fallback = extractFunc(func(context.Context, string) (domain.ExtractedProduct, error) {
		panic("unexpected encoding")
	})
	res := c.Run(context.Background(), "anything")
	if res.Success || res.Details != nil {
		t.Fatalf("result = %+v, want failure without details", res)
	}
	if res.Error != "extractor panic: unexpected encoding" {
		t.Errorf("Error = %q", res.Error)
	}

	res = NewChain(nil, 0, quietLogger()).Run(context.Background(), "bad \xff")
	if res.Success || res.Error != ErrInvalidEncoding.Error() {
		t.Errorf("invalid encoding result = %+v", res)
	}
}

func TestSanitize(t *testing.T) {
	neg := -5.0
	p := Sanitize(domain.ExtractedProduct{
		Category:   "Apparel",
		Price:      &neg,
		Quantity:   0,
		Confidence: 3,
		Tags:       []string{" silk ", ""},
	}, "silk saree 3 pieces")
	if p.Title != "Silk Saree Pieces" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Category != "Clothing & Accessories > Women" {
		t.Errorf("Category = %q", p.Category)
	}
	if p.Price != nil {
		t.Errorf("Price = %v, want nil", *p.Price)
	}
	if p.Quantity != 3 || p.Unit != "pieces" {
		t.Errorf("Quantity = %v %q", p.Quantity, p.Unit)
	}
	if p.Confidence != 1 {
		t.Errorf("Confidence = %v", p.Confidence)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "silk" {
		t.Errorf("Tags = %v", p.Tags)
	}
	if p.Description == "" {
		t.Error("Description is empty")
	}
}

func TestSanitizeKeepsKnownCategory(t *testing.T) {
	p := Sanitize(domain.ExtractedProduct{Title: "Widget", Category: "General", Quantity: 4}, "widget")
	if p.Category != "General" || p.Quantity != 4 {
		t.Errorf("Sanitize changed valid fields: %+v", p)
	}
}
