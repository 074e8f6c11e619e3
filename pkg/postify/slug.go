package postify

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const defaultSlug = "post"

// Slugify converts a title into a lower-case URL token made of ASCII
// letters, digits, underscores and single hyphens.
//
// Accented letters are decomposed and stripped of their marks, any other
// non-ASCII character is dropped. A title with nothing left yields "post".
func Slugify(title string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
		runes.Map(unicode.ToLower),
	)
	ascii, _, err := transform.String(t, title)
	if err != nil {
		ascii = strings.ToLower(title)
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range ascii {
		switch {
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		case r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}

	slug := strings.Trim(b.String(), "-_")
	if slug == "" {
		return defaultSlug
	}
	return slug
}

// suffixedSlug appends a collision counter to a base slug.
func suffixedSlug(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}
