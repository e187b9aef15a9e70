package league

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases, strips diacritics and punctuation, collapses
// whitespace, then resolves through the alias map. Alias keys must
// already be normalized.
func Normalize(s string, aliases map[string]string) string {
	if s == "" {
		return ""
	}
	key := normalizeKey(s)
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

func normalizeKey(s string) string {
	s = stripDiacritics(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if r == '.' || r == '\'' {
			return -1
		}
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, s)
	return collapseWhitespace(s)
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) { // combining accents
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
