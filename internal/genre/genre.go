// Package genre provides genre normalization and aliasing over the catalog
// taxonomy, so URL and query inputs like "sci-fi" resolve to the labels the
// classifier actually assigns.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// canonicalAliases maps slugified variations to catalog genre labels.
var canonicalAliases = map[string]string{
	// Science Fiction variations
	"sci-fi":  "Science Fiction",
	"scifi":   "Science Fiction",
	"sf":      "Science Fiction",
	"syfy":    "Science Fiction",
	"science": "Science Fiction",

	// Mystery/Thriller variations
	"mystery":  "Mystery/Thriller",
	"thriller": "Mystery/Thriller",
	"suspense": "Mystery/Thriller",
	"crime":    "Mystery/Thriller",

	// Biography/Memoir variations
	"biography":     "Biography/Memoir",
	"memoir":        "Biography/Memoir",
	"autobiography": "Biography/Memoir",

	// Children/Young Adult variations
	"ya":          "Children/Young Adult",
	"young-adult": "Children/Young Adult",
	"teen":        "Children/Young Adult",
	"children":    "Children/Young Adult",
	"kids":        "Children/Young Adult",

	// Single-word catalog labels
	"romance":    "Romance",
	"romantic":   "Romance",
	"fantasy":    "Fantasy",
	"horror":     "Horror",
	"scary":      "Horror",
	"history":    "History",
	"historical": "History",

	// Default bucket
	"fiction":         "General Fiction",
	"general":         "General Fiction",
	"general-fiction": "General Fiction",
}

// Slugify converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Mystery/Thriller" -> "mystery-thriller".
func Slugify(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	// Lowercase.
	s = strings.ToLower(s)

	// Replace non-alphanumeric with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	// Trim leading/trailing hyphens.
	s = strings.Trim(s, "-")

	return s
}

// Canonical maps a raw genre string to the catalog label it refers to.
// Matching is slug-based, so "Sci-Fi", "sci fi", and "SCIFI" all resolve
// to "Science Fiction". Known catalog labels pass through unchanged, and
// unrecognized input is returned as-is so the caller's filter simply
// matches nothing.
func Canonical(raw string, known []string) string {
	slug := Slugify(raw)
	if slug == "" {
		return raw
	}

	for _, label := range known {
		if Slugify(label) == slug {
			return label
		}
	}
	if label, ok := canonicalAliases[slug]; ok {
		return label
	}
	return raw
}
