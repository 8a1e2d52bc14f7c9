package httpclient

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"voicecat/internal/domain"
)

var productSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"category":    map[string]any{"type": "string"},
		"price":       map[string]any{"type": []string{"number", "null"}},
		"quantity":    map[string]any{"type": "number"},
		"unit":        map[string]any{"type": "string"},
		"brand":       map[string]any{"type": "string"},
		"color":       map[string]any{"type": "string"},
		"size":        map[string]any{"type": "string"},
		"material":    map[string]any{"type": "string"},
		"origin":      map[string]any{"type": "string"},
		"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"confidence":  map[string]any{"type": "number"},
	},
	"required": []string{"title", "description", "category", "price", "quantity", "unit",
		"brand", "color", "size", "material", "origin", "tags", "confidence"},
	"additionalProperties": false,
}

var translationRE = regexp.MustCompile(`(?s)"translation"\s*:\s*"(.*?)"`)

// stripFence returns the body of the first fenced code block, if any.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	idx := strings.Index(s, "```")
	if idx < 0 {
		return s
	}
	rest := strings.TrimPrefix(s[idx+3:], "json")
	if j := strings.Index(rest, "```"); j >= 0 {
		return strings.TrimSpace(rest[:j])
	}
	return s
}

// embeddedObject returns the outermost {...} span of s.
func embeddedObject(s string) (string, bool) {
	i := strings.Index(s, "{")
	j := strings.LastIndex(s, "}")
	if i < 0 || j <= i {
		return "", false
	}
	return s[i : j+1], true
}

func extractTranslation(content string) (string, error) {
	s := stripFence(content)
	var obj struct {
		Translation string `json:"translation"`
	}
	candidates := []string{s}
	if inner, ok := embeddedObject(s); ok && inner != s {
		candidates = append(candidates, inner)
	}
	for _, c := range candidates {
		if err := json.Unmarshal([]byte(c), &obj); err == nil && obj.Translation != "" {
			return obj.Translation, nil
		}
		if m := translationRE.FindStringSubmatch(c); len(m) == 2 {
			t := strings.ReplaceAll(m[1], `\n`, "\n")
			return strings.ReplaceAll(t, `\"`, `"`), nil
		}
	}
	// Plain text answer when JSON mode was not respected.
	if !strings.Contains(s, "{") {
		lower := strings.ToLower(s)
		for _, k := range []string{"translation:", "translated:", "result:", "output:"} {
			if pos := strings.Index(lower, k); pos >= 0 && pos < 80 {
				if cand := strings.TrimSpace(s[pos+len(k):]); cand != "" {
					return cand, nil
				}
			}
		}
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("failed to parse translation JSON; content: %s", abbreviate(s, 2000))
}

// llmProduct mirrors productSchema but tolerates numbers sent as strings.
type llmProduct struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       any    `json:"price"`
	Quantity    any    `json:"quantity"`
	Unit        string `json:"unit"`
	Brand       string `json:"brand"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Material    string `json:"material"`
	Origin      string `json:"origin"`
	Tags        any    `json:"tags"`
	Confidence  any    `json:"confidence"`
}

func extractProduct(content string) (domain.ExtractedProduct, error) {
	s := stripFence(content)
	var raw llmProduct
	err := json.Unmarshal([]byte(s), &raw)
	if err != nil {
		inner, ok := embeddedObject(s)
		if !ok {
			return domain.ExtractedProduct{}, fmt.Errorf("failed to parse product JSON; content: %s", abbreviate(s, 2000))
		}
		if err = json.Unmarshal([]byte(inner), &raw); err != nil {
			return domain.ExtractedProduct{}, fmt.Errorf("failed to parse product JSON: %w", err)
		}
	}
	p := domain.ExtractedProduct{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Category:    strings.TrimSpace(raw.Category),
		Price:       toFloat(raw.Price),
		Unit:        raw.Unit,
		Brand:       raw.Brand,
		Color:       raw.Color,
		Size:        raw.Size,
		Material:    raw.Material,
		Origin:      raw.Origin,
		Tags:        toStrings(raw.Tags),
	}
	if q := toFloat(raw.Quantity); q != nil {
		p.Quantity = *q
	}
	if c := toFloat(raw.Confidence); c != nil {
		p.Confidence = *c
	}
	return p, nil
}

var numberRE = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

func toFloat(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case string:
		m := numberRE.FindString(x)
		if m == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(x, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
