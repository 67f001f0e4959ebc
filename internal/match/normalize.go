package match

import (
	"strings"
	"unicode"
)

// NormalizeName lowercases s and keeps only letters and digits, so board
// spellings like "nice!nano_v2", "Nice-Nano V2" and "nicenanov2" compare equal.
func NormalizeName(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}
