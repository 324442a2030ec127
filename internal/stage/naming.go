// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stage names capture folders and stages their contents in a
// private working directory before moving them into place.
package stage

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// UnknownDate stands in for a missing publish date in folder names.
	UnknownDate = "unknown-date"

	untitledSlug = "untitled"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_]+`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// Slugify converts text to a filesystem-safe ASCII slug of [a-z0-9-]:
// accents are folded (NFKD, non-ASCII dropped), punctuation removed,
// whitespace and underscores become single hyphens, and leading or trailing
// hyphens are trimmed. "Hello   World!! " becomes "hello-world".
func Slugify(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isNonASCII))), text)
	if err != nil {
		folded = text
	}
	s := strings.ToLower(folded)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}

// FolderName builds "{source} - {publishDate or unknown-date} - {title slug}".
// source is the capture domain or the PDF file stem. Characters that cannot
// appear in a path component are replaced with hyphens; a title with no
// ASCII-foldable characters slugs to "untitled".
func FolderName(source, publishDate, title string) string {
	date := strings.TrimSpace(publishDate)
	if date == "" {
		date = UnknownDate
	}
	slug := Slugify(title)
	if slug == "" {
		slug = untitledSlug
	}
	return pathSafe(source) + " - " + pathSafe(date) + " - " + slug
}

// pathSafe replaces characters that are illegal or special in path
// components on common filesystems.
func pathSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
