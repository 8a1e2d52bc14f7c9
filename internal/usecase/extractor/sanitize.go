package extractor

import (
	"strings"

	"voicecat/internal/domain"
)

// Sanitize forces an LLM-produced record into the same invariants the rule
// extractor guarantees, borrowing rule-derived values where fields are unusable.
func Sanitize(p domain.ExtractedProduct, text string) domain.ExtractedProduct {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		p.Title = Title(text)
	}
	p.Category = strings.TrimSpace(p.Category)
	if !IsKnownCategory(p.Category) {
		c := Categorize(p.Category + " " + p.Title)
		if c == domain.DefaultCategory {
			c = Categorize(text)
		}
		p.Category = c
	}
	// A price needs a currency token in the text; the rule amount wins.
	p.Price = Price(text)
	if p.Quantity <= 0 {
		p.Quantity, p.Unit = Quantity(text)
	}
	p.UnitPrice, p.Total = UnitPricing(text, p.Quantity, p.Unit)
	if p.Confidence < 0 {
		p.Confidence = 0
	} else if p.Confidence > 1 {
		p.Confidence = 1
	}
	tags := p.Tags[:0]
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	if strings.TrimSpace(p.Description) == "" {
		p.Description = Describe(text, p)
	}
	return p
}
