// Package langdetect guesses the spoken language of a normalized transcript.
//
// Lexical and script markers win over the statistical guess, because
// romanized transcripts of Indian languages are routinely misclassified by
// n-gram models.
package langdetect

import (
	"regexp"

	"github.com/abadojack/whatlanggo"

	"voicecat/internal/domain"
)

// Identifier returns an ISO 639-3 code for text, or "" when unsure.
type Identifier func(text string) string

// Whatlang is the default statistical identifier.
func Whatlang(text string) string {
	return whatlanggo.DetectLang(text).Iso6393()
}

type languagePatterns struct {
	lang     domain.Language
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// Checked in order; the first language with any matching pattern wins.
// Marathi precedes Hindi so the shared Devanagari range only decides Hindi
// after Marathi-specific markers were ruled out.
var markerTable = []languagePatterns{
	{domain.Tamil, compile(
		`\p{Tamil}`,
		`(?i)\b(?:pudavai|rupai|intha|manjal|ennai|arisi|vilai|irukku|kilo\s+vilai)\b`,
	)},
	{domain.Telugu, compile(
		`\p{Telugu}`,
		`(?i)\b(?:chira|rupayalu|unnadi|dhara|biyyam|idi)\b`,
	)},
	{domain.Kannada, compile(
		`\p{Kannada}`,
		`(?i)\b(?:seere|bele|akki|rupayi|ide)\b`,
	)},
	{domain.Malayalam, compile(
		`\p{Malayalam}`,
		`(?i)\b(?:rooba|vila|undu|ari|mundu|venam)\b`,
	)},
	{domain.Marathi, compile(
		`आहे|किंमत|साडी`,
		`(?i)\b(?:aahe|ahe|kimmat|sadi|kiti)\b`,
	)},
	{domain.Hindi, compile(
		`\p{Devanagari}`,
		`(?i)\b(?:hai|rupaye|keemat|kapda|wala|kitna)\b`,
	)},
}

var iso6393 = map[string]domain.Language{
	"tam": domain.Tamil,
	"hin": domain.Hindi,
	"tel": domain.Telugu,
	"mal": domain.Malayalam,
	"kan": domain.Kannada,
	"mar": domain.Marathi,
}

type Detector struct {
	identify Identifier
	fallback domain.Language
}

type Option func(*Detector)

// WithIdentifier replaces the statistical identifier.
func WithIdentifier(id Identifier) Option {
	return func(d *Detector) { d.identify = id }
}

// New returns a Detector that falls back to def for unrecognized input.
// An unsupported def becomes Tamil.
func New(def domain.Language, opts ...Option) *Detector {
	if !def.IsSupported() {
		def = domain.Tamil
	}
	d := &Detector{identify: Whatlang, fallback: def}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Default is the language returned when nothing else matches.
func (d *Detector) Default() domain.Language { return d.fallback }

// Detect never fails: any panic inside the identifier yields the default.
func (d *Detector) Detect(text string) (lang domain.Language) {
	defer func() {
		if r := recover(); r != nil {
			lang = d.fallback
		}
	}()
	guess := ""
	if d.identify != nil {
		guess = d.identify(text)
	}
	if l, ok := MatchMarkers(text); ok {
		return l
	}
	if l, ok := iso6393[guess]; ok {
		return l
	}
	return d.fallback
}

// MatchMarkers reports the first language whose marker patterns match text.
func MatchMarkers(text string) (domain.Language, bool) {
	for _, lp := range markerTable {
		for _, re := range lp.patterns {
			if re.MatchString(text) {
				return lp.lang, true
			}
		}
	}
	return domain.Unknown, false
}
