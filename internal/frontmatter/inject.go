// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"strings"

	"github.com/pdiddy/capture/pkg/types"
)

// InjectFields adds caller-owned provenance to a document whose frontmatter
// was written by a generator that only knows title, publish_date and tags.
// Missing domain, url, hackernews (when non-empty) and capture_date lines are
// inserted directly after the title line; every other byte is kept. Text
// without a frontmatter block or without a title line is returned unchanged.
func InjectFields(markdown string, prov types.Provenance) string {
	lines := strings.Split(markdown, "\n")
	if len(lines) == 0 || trimCR(lines[0]) != delimiter {
		return markdown
	}
	end := closingDelimiter(lines, 1)
	if end < 0 {
		return markdown
	}

	titleAt := -1
	present := make(map[string]bool)
	for i := 1; i < end; i++ {
		key, _, ok := strings.Cut(lines[i], ":")
		if !ok || key == "" || strings.ContainsAny(key[:1], " \t-") {
			continue
		}
		present[key] = true
		if key == "title" && titleAt < 0 {
			titleAt = i
		}
	}
	if titleAt < 0 {
		return markdown
	}

	fields := []struct{ key, value string }{
		{"domain", prov.Domain},
		{"url", prov.URL},
		{"hackernews", prov.Hackernews},
		{"capture_date", prov.CaptureDate},
	}
	var inserted []string
	for _, f := range fields {
		if present[f.key] || (f.key == "hackernews" && f.value == "") {
			continue
		}
		inserted = append(inserted, fieldLine(f.key, f.value))
	}
	if len(inserted) == 0 {
		return markdown
	}

	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:titleAt+1]...)
	out = append(out, inserted...)
	out = append(out, lines[titleAt+1:]...)
	return strings.Join(out, "\n")
}
