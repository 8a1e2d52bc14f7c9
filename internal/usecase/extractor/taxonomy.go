package extractor

import (
	"strings"
	"unicode"

	"voicecat/internal/domain"
)

// Category is one taxonomy label ("Top > Sub") with its trigger keywords.
type Category struct {
	Label    string
	Keywords []string
}

// Taxonomy is checked in order; the first label with a matching keyword wins.
// Entries whose keywords overlap a later entry ("hair oil" vs "oil") must
// come first.
var Taxonomy = []Category{
	{"Health & Beauty > Soap", []string{"soap", "soaps", "body wash", "bodywash", "soap bar"}},
	{"Health & Beauty > Hair Care", []string{"shampoo", "hair oil", "conditioner", "hair pack", "shikakai"}},
	{"Health & Beauty > Skin Care", []string{"cream", "lotion", "moisturizer", "face wash", "face pack", "sandalwood powder"}},
	{"Clothing & Accessories > Women", []string{"saree", "sarees", "kurti", "kurtis", "blouse", "lehenga", "dupatta", "salwar", "churidar", "nightie"}},
	{"Clothing & Accessories > Men", []string{"shirt", "shirts", "dhoti", "lungi", "veshti", "kurta", "trousers", "pant", "pants"}},
	{"Clothing & Accessories > Jewelry", []string{"necklace", "bangle", "bangles", "earring", "earrings", "anklet", "anklets", "chain", "ring", "rings"}},
	{"Food & Beverages > Spices", []string{"turmeric", "chilli", "chili", "pepper", "cumin", "coriander", "cardamom", "masala", "spice", "spices", "clove", "cloves", "cinnamon", "curry powder", "sambar powder", "manjal"}},
	{"Food & Beverages > Oils", []string{"oil", "oils", "ghee", "gingelly", "ennai"}},
	{"Food & Beverages > Grains & Pulses", []string{"rice", "wheat", "dal", "lentil", "lentils", "millet", "millets", "flour", "atta", "ragi", "arisi"}},
	{"Food & Beverages > Fruits & Vegetables", []string{"vegetable", "vegetables", "fruit", "fruits", "tomato", "tomatoes", "onion", "onions", "potato", "potatoes", "banana", "bananas", "mango", "mangoes", "brinjal", "carrot", "carrots", "coconut", "coconuts", "greens", "spinach"}},
	{"Food & Beverages > Snacks & Sweets", []string{"sweet", "sweets", "snack", "snacks", "murukku", "laddu", "ladoo", "halwa", "chips", "biscuit", "biscuits", "mixture"}},
	{"Food & Beverages > Dairy", []string{"milk", "curd", "paneer", "butter", "cheese", "buttermilk"}},
	{"Food & Beverages > Beverages", []string{"tea", "coffee", "juice", "drink", "drinks"}},
	{"Home & Kitchen > Cookware", []string{"pot", "pots", "pan", "pans", "vessel", "vessels", "kadai", "tawa", "utensil", "utensils", "cooker"}},
	{"Home & Kitchen > Decor", []string{"lamp", "lamps", "candle", "candles", "wall hanging", "basket", "baskets", "mat", "mats"}},
	{"Handicrafts > Pottery", []string{"clay", "pottery", "terracotta"}},
	{"Handicrafts > Woodwork", []string{"wooden", "wood", "carving", "carved"}},
}

// Labels returns every taxonomy label plus the default.
func Labels() []string {
	out := make([]string, 0, len(Taxonomy)+1)
	for _, c := range Taxonomy {
		out = append(out, c.Label)
	}
	return append(out, domain.DefaultCategory)
}

// IsKnownCategory reports whether label is a taxonomy label or the default.
func IsKnownCategory(label string) bool {
	for _, l := range Labels() {
		if l == label {
			return true
		}
	}
	return false
}

// Categorize maps free text to a taxonomy label, ignoring case and punctuation.
func Categorize(text string) string {
	padded := " " + wordString(text) + " "
	for _, c := range Taxonomy {
		for _, kw := range c.Keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return c.Label
			}
		}
	}
	return domain.DefaultCategory
}

// wordString lowercases text and reduces it to single-space separated words.
func wordString(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}
