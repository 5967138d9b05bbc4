package freight

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
)

// Normalize folds a place name for matching: diacritics are transliterated,
// case is lowered, apostrophes are dropped and any other punctuation becomes
// a single space. "Manawatū-Whanganui" and "manawatu whanganui" normalize equally.
func Normalize(s string) string {
	s = strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r == '\'' || r == '`':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}
