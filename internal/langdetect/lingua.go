// Package langdetect tags ingested records with an ISO 639-1 language code.
// Most of the corpus is mainland-market news, so Han-dominant text is tagged
// zh without touching the statistical detector.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectISO6391 returns a lowercase two-letter code, or "" when the text is
// too short or the language cannot be determined.
func DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	hanCount := 0
	for _, r := range sample {
		if !unicode.IsLetter(r) {
			continue
		}
		letterCount++
		if unicode.Is(unicode.Han, r) {
			hanCount++
		}
	}
	if letterCount < 6 {
		return ""
	}
	if hanCount*2 > letterCount {
		return "zh"
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
