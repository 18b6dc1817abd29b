package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// tableLanguages mirrors the window's language table.
var tableLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Russian,
	lingua.Spanish,
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector that only distinguishes the languages the window
// offers, which keeps it small and makes short inputs more reliable.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(tableLanguages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
