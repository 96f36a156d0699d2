package downloads

import (
	"strings"
	"unicode"
)

// SafeName derives a filesystem-safe base name from a search query. Only
// letters, digits, hyphens and spaces survive; trailing spaces are trimmed.
// The caller prefixes the download id, so identical track names never
// collide on disk.
func SafeName(query string) string {
	var b strings.Builder
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == ' ' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimRight(b.String(), " ")
	if name == "" {
		return "track"
	}
	return name
}
