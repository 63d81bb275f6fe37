// Package detector provides a local language screen over lingua-go.
//
// The screen is advisory: the authoritative language check is made by the
// deterministic assessment call. The detector exists so the CLI can warn an
// operator early when a freshly composed poem does not even look English.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua language detector. Building one is expensive;
// reuse the instance.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over all languages lingua supports.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

// Detect returns the most likely language of text, with ok=false when the
// text is empty or the language cannot be determined.
func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// ScreensAsEnglish reports whether text screens as English. ok=false means
// the detector could not decide, in which case the caller should not warn.
func (d *Detector) ScreensAsEnglish(text string) (english bool, ok bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return false, false
	}
	return lang == lingua.English, true
}
