// Package detector identifies the language of subtitle text. The merge
// heuristics are tuned to English continuations, so the pipeline warns when
// an input file detects as something else.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua language detector. Building one is expensive;
// construct once and reuse.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
