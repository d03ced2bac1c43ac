// Package similarity computes the cheap lexical fingerprints used for
// duplicate detection: a content hash for exact-match short-circuits and
// character-bigram sets compared with Jaccard similarity.
package similarity

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"horse.fit/newswash/internal/textnorm"
)

const (
	// DefaultBigramMaxChars caps how much of a long article feeds the
	// bigram set. Wire duplicates diverge within the first paragraphs, so
	// anything past this only adds cost.
	DefaultBigramMaxChars = 1800

	// DefaultHashMaxChars caps the normalized prefix that feeds ContentHash.
	DefaultHashMaxChars = 800
)

// Bigrams returns the set of 2-rune shingles over the normalized,
// whitespace-stripped text. The raw input is truncated to maxChars runes
// before normalization. Text shorter than two runes yields an empty set.
func Bigrams(text string, maxChars int) map[string]struct{} {
	truncated := truncateRunes(text, maxChars)
	stripped := strings.ReplaceAll(textnorm.Normalize(truncated), " ", "")

	runes := []rune(stripped)
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

// Jaccard returns |a∩b| / |a∪b|. Two empty sets count as identical (1) so
// that records with identical empty content are not treated as unrelated.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	inter := 0
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for x := range small {
		if _, ok := large[x]; ok {
			inter++
		}
	}

	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// ContentHash returns a hex SHA-1 digest over the normalized text capped at
// maxChars runes. Used only as a fast equality signal, never persisted.
func ContentHash(text string, maxChars int) string {
	normalized := truncateRunes(textnorm.Normalize(text), maxChars)
	digest := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(digest[:])
}

func truncateRunes(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
