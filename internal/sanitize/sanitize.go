// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize strips embedded CSS data URIs from captured HTML before
// it is handed to the generic HTML-to-Markdown converter.
//
// The converter extracts <img> payloads into files on its own, but CSS
// backgrounds and fonts would otherwise end up inline in its output and blow
// the context budget of the generative merge. Only the url(...) token of a
// match is rewritten; every other byte is preserved.
package sanitize

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// dataURIPattern matches a CSS url() whose argument is a data URI, quoted
// with ", ', the &quot; entity (inline style attributes), or unquoted.
var dataURIPattern = regexp.MustCompile(`(?i)url\(\s*(?:"data:[^"]*"|'data:[^']*'|&quot;data:(?s:.*?)&quot;|data:[^)]*)\s*\)`)

// Regions where CSS can appear: <style> element bodies (an unterminated one
// runs to the end of the document) and quoted style attributes.
var (
	styleElementPattern   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?(?:</style\s*>|\z)`)
	styleAttributePattern = regexp.MustCompile(`(?is)\sstyle\s*=\s*(?:"[^"]*"|'[^']*')`)
)

const (
	imagePlaceholder = "none"
	fontPlaceholder  = "url()"
)

// StripDataURIs replaces every CSS url(data:...) reference in html with an
// inert placeholder: "none" for images and backgrounds, "url()" for fonts.
// Only references inside <style> elements and style attributes are CSS;
// the same text in page content is left alone, as are <img src="data:...">
// attributes. Applying StripDataURIs to its own output is a no-op.
func StripDataURIs(html string) string {
	matches := dataURIPattern.FindAllStringIndex(html, -1)
	if len(matches) == 0 {
		return html
	}
	regions := styleRegions(html)
	lower := asciiLower(html)

	var b strings.Builder
	b.Grow(len(html))
	prev, r := 0, 0
	for _, m := range matches {
		for r < len(regions) && regions[r].end <= m[0] {
			r++
		}
		if r == len(regions) || regions[r].start > m[0] || regions[r].end < m[1] {
			continue
		}
		b.WriteString(html[prev:m[0]])
		if isFontContext(lower[regions[r].start:m[0]]) {
			b.WriteString(fontPlaceholder)
		} else {
			b.WriteString(imagePlaceholder)
		}
		prev = m[1]
	}
	if prev == 0 {
		return html
	}
	b.WriteString(html[prev:])
	return b.String()
}

// region is a half-open byte range of html.
type region struct{ start, end int }

// styleRegions returns the CSS-bearing ranges of html, sorted and merged.
func styleRegions(html string) []region {
	var all []region
	for _, p := range []*regexp.Regexp{styleElementPattern, styleAttributePattern} {
		for _, m := range p.FindAllStringIndex(html, -1) {
			all = append(all, region{m[0], m[1]})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].start < all[j].start })

	var merged []region
	for _, rg := range all {
		if n := len(merged); n > 0 && rg.start <= merged[n-1].end {
			if rg.end > merged[n-1].end {
				merged[n-1].end = rg.end
			}
			continue
		}
		merged = append(merged, rg)
	}
	return merged
}

// asciiLower lower-cases ASCII letters only, so byte offsets are unchanged.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// File sanitizes the HTML file at path in place. The file is rewritten only
// when something was stripped; changed reports whether that happened.
func File(path string) (changed bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	html := string(data)
	cleaned := StripDataURIs(html)
	if cleaned == html {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// isFontContext reports whether a url() starting right after prefix belongs
// to a font declaration: the src descriptor, any font* property, or any
// declaration nested in an @font-face block. prefix is the lower-cased text
// of the enclosing style region up to the url().
func isFontContext(prefix string) bool {
	prop := declarationProperty(prefix)
	if prop == "src" || strings.HasPrefix(prop, "font") {
		return true
	}

	brace := strings.LastIndexAny(prefix, "{}")
	if brace < 0 || prefix[brace] != '{' {
		return false
	}
	head := strings.TrimRight(prefix[:brace], " \t\r\n")
	start := strings.LastIndexAny(head, "};>")
	return strings.HasPrefix(strings.TrimSpace(head[start+1:]), "@font-face")
}

// declarationProperty returns the name of the CSS property whose value is
// being written at the end of prefix, or "" when none is found.
func declarationProperty(prefix string) string {
	decl := prefix[strings.LastIndexAny(prefix, ";{\n")+1:]
	if i := strings.LastIndex(decl, "style="); i >= 0 {
		decl = decl[i+len("style="):]
	}
	decl = strings.TrimLeft(decl, "\"' \t\r")
	colon := strings.Index(decl, ":")
	if colon < 0 {
		return ""
	}
	return strings.TrimSpace(decl[:colon])
}
