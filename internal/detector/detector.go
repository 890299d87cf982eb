package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Guarded are the languages a pair is checked against: the supported ones
// plus neighbours that machine translation commonly produces by mistake.
var Guarded = []lingua.Language{
	lingua.Czech,
	lingua.English,
	lingua.Slovak,
	lingua.Polish,
	lingua.German,
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector restricted to languages, or to Guarded when none
// are given. Building is slow; reuse the instance.
func New(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = Guarded
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the upper-case ISO 639-1 code of text.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
