package shared

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns an arbitrary title into a URL-safe slug: transliterated to
// ASCII, lower-cased, non-alphanumeric runs collapsed to a single hyphen.
func Slugify(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
