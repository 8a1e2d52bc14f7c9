// Package postprocess repairs systematic mistranslations in machine
// translated product descriptions.
package postprocess

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
	fn   func(re *regexp.Regexp, s string) string
}

func (r rule) apply(s string) string {
	if r.fn != nil {
		return r.fn(r.re, s)
	}
	return r.re.ReplaceAllString(s, r.repl)
}

const currencyVariants = `rupai|rupaye|rupaiya|rupiya|rupee|rupe|roopees|roopee|rupay|rupayi|rupayalu|rooba|rs|inr`

// abbrevDot is the dot of "Rs." when an amount or a lower-case word follows.
// A dot before a capital ends the sentence and stays.
const abbrevDot = `(?:\.(\s*\d|\s+[a-z]))?`

// Currency and noun fixes come first so the numeric pass only ever sees the
// canonical "rupees".
var rules = []rule{
	// "500rs", "500 Rs.", "1,200 rupaye" keep their number.
	{re: regexp.MustCompile(`(\d)\s*(?i:` + currencyVariants + `)\b` + abbrevDot), repl: "$1 rupees$2"},
	{re: regexp.MustCompile(`\b(?i:` + currencyVariants + `)\b` + abbrevDot), repl: "rupees$1"},
	{re: regexp.MustCompile(`(?i)\brupees\b`), repl: "rupees"},

	{re: regexp.MustCompile(`(?i)\bthat this\b`), repl: "this"},
	{re: regexp.MustCompile(`(?i)\bthis one\b`), repl: "this"},
	{re: regexp.MustCompile(`(?i)\bintha\b`), repl: "this"},
	{re: regexp.MustCompile(`(?i)\bantha\b`), repl: "that"},

	{re: regexp.MustCompile(`(?i)\b(?:pudavai|podavai|sari|sarree|saaree|saari|sadi|seere|chira)\b`), repl: "saree"},

	// Currency before the amount: "₹ 500", "rupees 500".
	{re: regexp.MustCompile(`(?i)(?:₹|\brupees)\s*(\d[\d,]*(?:\.\d+)?)`), fn: moveCurrencyAfter},
	{re: regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*rupees\b`), repl: "$1 rupees"},
}

// moveCurrencyAfter rewrites "rupees 500" as "500 rupees" unless the currency
// word already belongs to a preceding amount ("500 rupees 2 kg").
func moveCurrencyAfter(re *regexp.Regexp, s string) string {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range locs {
		before := strings.TrimRight(s[:m[0]], " \t")
		if n := len(before); n > 0 && before[n-1] >= '0' && before[n-1] <= '9' {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(s[m[2]:m[3]])
		b.WriteString(" rupees")
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

var spaceRE = regexp.MustCompile(`[ \t]+`)

// Process applies the substitution list in order.
func Process(translated string) string {
	out := translated
	for _, r := range rules {
		out = r.apply(out)
	}
	out = spaceRE.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

type PostProcessor struct{}

func New() *PostProcessor { return &PostProcessor{} }

func (PostProcessor) Process(translated string) string { return Process(translated) }
