package domain

// Language is the internal two-letter code of a spoken source language.
type Language string

const (
	Tamil     Language = "ta"
	Hindi     Language = "hi"
	Telugu    Language = "te"
	Malayalam Language = "ml"
	Kannada   Language = "kn"
	Marathi   Language = "mr"
	// English is only accepted as a caller hint; it skips translation.
	English Language = "en"
	Unknown Language = ""
)

// SupportedLanguages is the fixed detection set, in detection priority order.
var SupportedLanguages = []Language{Tamil, Telugu, Kannada, Malayalam, Marathi, Hindi}

var languageNames = map[Language]string{
	Tamil:     "Tamil",
	Hindi:     "Hindi",
	Telugu:    "Telugu",
	Malayalam: "Malayalam",
	Kannada:   "Kannada",
	Marathi:   "Marathi",
	English:   "English",
}

// Name returns the English display name, or the raw code when unknown.
func (l Language) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return string(l)
}

// IsSupported reports whether l is one of the detectable source languages.
func (l Language) IsSupported() bool {
	for _, s := range SupportedLanguages {
		if s == l {
			return true
		}
	}
	return false
}
