package categorize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases, strips diacritics and non-alphanumerics, and
// collapses whitespace, so "PÃO DE AÇÚCAR*123" and "pao de acucar 123"
// compare equal. Establishment strings are normalized this way both when
// rules are learned and when they are matched. The transform chain is built
// per call; chained transformers carry state and must not be shared across
// goroutines.
func Normalize(s string) string {
	lowered := strings.ToLower(s)

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	pendingSpace := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}
