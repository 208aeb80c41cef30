// Package keyword implements the text normalization and word-pattern
// compilation used by word-match triggers.
package keyword

import (
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds away diacritics and compatibility forms so that decorated
// text ("𝓫𝓪𝓷𝓪𝓷𝓪", "bánana") matches plain configured words. Lower-casing is
// left to the pattern compiler since case sensitivity is per-trigger.
func Normalize(text string) string {
	// the transform chain must be re-built per call to avoid a race on the
	// internal norm state
	normFunc := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(normFunc, text)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		return text
	}
	return out
}

// Slugify strips everything but letters and digits and lower-cases the rest.
func Slugify(orig string) string {
	var b strings.Builder
	for _, r := range orig {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
