package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"voicecat/internal/domain"
)

var artisanalWords = []string{"handmade", "hand made", "homemade", "home made", "handcrafted", "handwoven", "natural", "organic"}

// Describe picks a description template from keywords in text and the
// already derived title, category and price.
func Describe(text string, p domain.ExtractedProduct) string {
	words := " " + wordString(text) + " "
	sub := p.Subcategory()
	var desc string
	switch {
	case containsAny(words, artisanalWords):
		desc = fmt.Sprintf("Handcrafted %s made with natural, traditional methods. An authentic %s product from local artisans.", p.Title, strings.ToLower(sub))
	case containsAny(words, []string{"fresh"}) || sub == "Fruits & Vegetables":
		desc = fmt.Sprintf("Farm-fresh %s sourced directly from local growers. Quality %s picked at peak freshness.", p.Title, strings.ToLower(sub))
	case sub == "Oils" || sub == "Spices":
		desc = fmt.Sprintf("Traditional %s for authentic home cooking. Pure %s with rich aroma and flavour.", p.Title, strings.ToLower(sub))
	default:
		desc = fmt.Sprintf("Quality %s from our %s collection.", p.Title, strings.ToLower(sub))
	}
	if p.Price != nil {
		desc += " Available at ₹" + strconv.FormatFloat(*p.Price, 'f', -1, 64) + "."
	}
	return desc
}

func containsAny(padded string, words []string) bool {
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			return true
		}
	}
	return false
}
