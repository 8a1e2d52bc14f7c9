package extractor

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"voicecat/internal/domain"
)

// ErrInvalidEncoding is returned for input that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("input text is not valid UTF-8")

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "from": {}, "into": {}, "are": {}, "was": {},
	"were": {}, "has": {}, "have": {}, "its": {}, "our": {}, "your": {},
	"very": {}, "only": {}, "per": {}, "each": {}, "also": {}, "some": {},
	"nice": {}, "good": {}, "price": {}, "priced": {}, "cost": {}, "costs": {},
	"costing": {}, "rate": {}, "sell": {}, "selling": {}, "sold": {},
	"available": {}, "just": {},
}

const maxTitleWords = 3

const units = `kgs?|kilos?|kilograms?|grams?|gms?|g|litres?|liters?|ltrs?|l|ml|pieces?|pcs|pc|packs?|packets?|bottles?|jars?|dozens?|units?|box|boxes|bags?|meters?|metres?`

var (
	amount       = `(\d+(?:,\d+)*(?:\.\d+)?)`
	priceAfterRE = regexp.MustCompile(`(?i)` + amount + `\s*(?:rupees?\b|rs\b\.?|inr\b|dollars?\b|usd\b|₹|\$)`)
	priceFirstRE = regexp.MustCompile(`(?i)(?:₹|\$|\brs\.?|\binr\b|\busd\b)\s*` + amount)
	quantityRE   = regexp.MustCompile(`(?i)\b` + amount + `\s*(` + units + `)\b`)
	// perUnitRE matches right after a price: "per kg", "/kg", "a dozen", "each".
	perUnitRE = regexp.MustCompile(`(?i)^\s*(?:(?:/|per\b|an?\b)\s*(` + units + `)\b|each\b|apiece\b)`)
)

// Rules is the deterministic fallback extractor. It makes no external calls.
type Rules struct{}

func NewRules() *Rules { return &Rules{} }

func (Rules) Extract(_ context.Context, text string) (domain.ExtractedProduct, error) {
	if !utf8.ValidString(text) {
		return domain.ExtractedProduct{}, ErrInvalidEncoding
	}
	qty, unit := Quantity(text)
	p := domain.ExtractedProduct{
		Title:    Title(text),
		Category: Categorize(text),
		Price:    Price(text),
		Quantity: qty,
		Unit:     unit,
	}
	p.UnitPrice, p.Total = UnitPricing(text, qty, unit)
	p.Description = Describe(text, p)
	return p, nil
}

// Title keeps the first three tokens longer than two characters that are not
// stop words, with the first letter of each upper-cased. It returns domain.DefaultTitle when none qualify.
func Title(text string) string {
	kept := make([]string, 0, maxTitleWords)
	for _, tok := range strings.Fields(text) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(tok)]; stop {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == maxTitleWords {
			break
		}
	}
	if len(kept) == 0 {
		return domain.DefaultTitle
	}
	// Casers keep state; one per call. NoLower keeps "LED" as spoken.
	return cases.Title(language.English, cases.NoLower).String(strings.Join(kept, " "))
}

// Price returns nil unless an amount sits next to a currency token.
func Price(text string) *float64 {
	v, _ := priceMatch(text)
	return v
}

// priceMatch returns the price and the offset just past its match.
func priceMatch(text string) (*float64, int) {
	loc := priceAfterRE.FindStringSubmatchIndex(text)
	if loc == nil {
		loc = priceFirstRE.FindStringSubmatchIndex(text)
	}
	if loc == nil {
		return nil, 0
	}
	v, ok := parseAmount(text[loc[2]:loc[3]])
	if !ok {
		return nil, 0
	}
	return &v, loc[1]
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v, err == nil
}

// Quantity returns the first amount followed by a unit keyword, or 1.
func Quantity(text string) (float64, string) {
	m := quantityRE.FindStringSubmatch(text)
	if m == nil {
		return 1, ""
	}
	v, ok := parseAmount(m[1])
	if !ok || v <= 0 {
		return 1, ""
	}
	return v, strings.ToLower(m[2])
}

// UnitPricing treats the price as a rate when a per-unit phrase follows it
// and returns that rate with its total for qty of unit. Both are nil for a
// flat price. Total is nil when the two units cannot be compared.
func UnitPricing(text string, qty float64, unit string) (rate, total *float64) {
	price, end := priceMatch(text)
	if price == nil {
		return nil, nil
	}
	m := perUnitRE.FindStringSubmatch(text[end:])
	if m == nil {
		return nil, nil
	}
	r := *price
	if t, ok := applyRate(r, qty, unit, m[1]); ok {
		return &r, &t
	}
	return &r, nil
}

type measure struct {
	dim    string
	factor float64
}

var measures = map[string]measure{
	"g": {"mass", 1}, "kg": {"mass", 1000},
	"ml": {"volume", 1}, "l": {"volume", 1000},
	"piece": {"count", 1}, "dozen": {"count", 12},
}

func canonicalUnit(u string) string {
	switch u = strings.ToLower(u); u {
	case "kg", "kgs", "kilo", "kilos", "kilogram", "kilograms":
		return "kg"
	case "g", "gm", "gms", "gram", "grams":
		return "g"
	case "l", "litre", "litres", "liter", "liters", "ltr", "ltrs":
		return "l"
	case "piece", "pieces", "pc", "pcs", "unit", "units":
		return "piece"
	case "dozen", "dozens":
		return "dozen"
	case "packet", "packets", "packs":
		return "pack"
	case "boxes":
		return "box"
	case "meters", "metre", "metres":
		return "meter"
	}
	return strings.TrimSuffix(u, "s")
}

func measureOf(u string) measure {
	c := canonicalUnit(u)
	if m, ok := measures[c]; ok {
		return m
	}
	return measure{dim: c, factor: 1}
}

// applyRate converts qty into the rate's unit and rounds to two decimals.
func applyRate(rate, qty float64, qtyUnit, rateUnit string) (float64, bool) {
	t := rate * qty
	if qtyUnit != "" && rateUnit != "" {
		q, r := measureOf(qtyUnit), measureOf(rateUnit)
		if q.dim != r.dim {
			return 0, false
		}
		t = rate * qty * q.factor / r.factor
	}
	return math.Round(t*100) / 100, true
}
