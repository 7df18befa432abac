package pkg

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9\s-]+`)
	slugWhitespace  = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify makes a URL slug out of a title: transliterated to ASCII, lowercased,
// non-alphanumeric characters stripped and spaces replaced with hyphens.
func Slugify(s string) string {
	slug := strings.ToLower(unidecode.Unidecode(s))
	slug = strings.ReplaceAll(slug, "_", " ")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = multipleHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// IsValidSlug checks the slug contains only [a-z0-9] groups separated by single hyphens
func IsValidSlug(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
