// Package normalizer rewrites known speech-to-text mis-hearings in raw
// transcripts before language detection and translation.
package normalizer

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Rules run top to bottom. A replacement never matches any pattern in the
// list, which keeps Normalize idempotent.
var rules = []rule{
	// Tamil garment noun: "pudavai" (saree).
	{regexp.MustCompile(`(?i)\b(?:purawai|puravai|poodavai|pudawai|budavai)\b`), "pudavai"},
	// Tamil currency word.
	{regexp.MustCompile(`(?i)\b(?:roobai|rubai|rupaai|ruba)\b`), "rupai"},
	// Tamil produce and pantry words.
	{regexp.MustCompile(`(?i)\b(?:manchal|mancal|manjul)\b`), "manjal"},
	{regexp.MustCompile(`(?i)\b(?:yennai|yennay|ennay)\b`), "ennai"},
	{regexp.MustCompile(`(?i)\b(?:arishi|arisee|harisi)\b`), "arisi"},
	{regexp.MustCompile(`(?i)\b(?:velai|wilai)\b`), "vilai"},
	// Demonstrative "intha" heard as the English filler "in the"/"in tha".
	{regexp.MustCompile(`(?i)\b(?:in\s+tha|indha|inda)\b`), "intha"},
	// Hindi price word.
	{regexp.MustCompile(`(?i)\b(?:kimat|keemath)\b`), "keemat"},
}

var spaceRE = regexp.MustCompile(`\s+`)

// Normalize applies the substitution list in order and collapses whitespace.
func Normalize(text string) string {
	out := text
	for _, r := range rules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	out = spaceRE.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Normalizer adapts Normalize to an injectable value.
type Normalizer struct{}

func New() *Normalizer { return &Normalizer{} }

func (Normalizer) Normalize(text string) string { return Normalize(text) }
