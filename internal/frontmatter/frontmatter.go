// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter renders, parses and repairs the YAML header of a
// captured document.
//
// The wire format is a fixed-order block delimited by lines of exactly three
// hyphens:
//
//	---
//	title: "..."
//	domain: ...
//	url: ...
//	hackernews: ...      (optional)
//	capture_date: ...
//	publish_date: ...    (optional)
//	tags:                (optional)
//	  - ...
//	---
//
// followed by one blank line and the Markdown body.
package frontmatter

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/capture/pkg/types"
)

const delimiter = "---"

// Document is a parsed canonical document.
type Document struct {
	// Record holds the parsed frontmatter. It is the zero value when
	// HasFrontmatter is false.
	Record types.FrontmatterRecord

	// Body is everything after the frontmatter block and its blank line.
	Body string

	// HasFrontmatter reports whether a delimited block was found.
	HasFrontmatter bool
}

// Render builds a canonical document from extracted metadata, caller
// provenance and a Markdown body.
func Render(meta types.CaptureMetadata, prov types.Provenance, body string) string {
	return RenderRecord(types.NewFrontmatterRecord(meta, prov), body)
}

// RenderRecord emits rec in wire order. Hackernews, PublishDate and Tags are
// omitted when empty.
func RenderRecord(rec types.FrontmatterRecord, body string) string {
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	fmt.Fprintf(&b, "title: %q\n", validUTF8(rec.Title))
	writeField(&b, "domain", rec.Domain)
	writeField(&b, "url", rec.URL)
	if rec.Hackernews != "" {
		writeField(&b, "hackernews", rec.Hackernews)
	}
	writeField(&b, "capture_date", rec.CaptureDate)
	if rec.PublishDate != "" {
		writeField(&b, "publish_date", rec.PublishDate)
	}
	if len(rec.Tags) > 0 {
		b.WriteString("tags:\n")
		for _, tag := range rec.Tags {
			fmt.Fprintf(&b, "  - %s\n", scalar(tag))
		}
	}
	b.WriteString(delimiter + "\n\n")
	b.WriteString(body)
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(fieldLine(key, value))
	b.WriteString("\n")
}

// fieldLine formats one top-level key. Empty values render as a bare key,
// which YAML reads back as null.
func fieldLine(key, value string) string {
	if value == "" {
		return key + ":"
	}
	return key + ": " + scalar(value)
}

// Parse splits doc into frontmatter and body. A document that does not open
// with a delimiter line, or has no closing delimiter line, has no
// frontmatter; that is not an error. A delimited block that is not valid
// YAML is an error.
func Parse(doc string) (Document, error) {
	block, body, ok := split(doc)
	if !ok {
		return Document{Body: doc}, nil
	}

	var rec types.FrontmatterRecord
	if err := yaml.Unmarshal([]byte(block), &rec); err != nil {
		return Document{}, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return Document{Record: rec, Body: body, HasFrontmatter: true}, nil
}

// split returns the text between the first two delimiter lines and the body
// after the closing line, minus the single blank separator line.
func split(doc string) (block, body string, ok bool) {
	first, rest, _ := cutLine(doc)
	if !isDelimiter(first) {
		return "", "", false
	}

	var lines []string
	for {
		line, tail, more := cutLine(rest)
		if isDelimiter(line) {
			body = tail
			if !more {
				body = ""
			}
			break
		}
		if !more {
			return "", "", false
		}
		lines = append(lines, line)
		rest = tail
	}

	if strings.HasPrefix(body, "\r\n") {
		body = body[2:]
	} else if strings.HasPrefix(body, "\n") {
		body = body[1:]
	}
	return strings.Join(lines, "\n"), body, true
}

// cutLine returns the first line of s (without its terminator) and the rest.
// more is false when s had no newline.
func cutLine(s string) (line, rest string, more bool) {
	line, rest, more = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, more
}

func isDelimiter(line string) bool {
	return line == delimiter
}

// scalar renders s as a plain YAML scalar when that round-trips as the same
// string, and as a double-quoted scalar otherwise.
func scalar(s string) string {
	s = validUTF8(s)
	if s != "" && needsQuoting(s) {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// validUTF8 replaces invalid byte sequences with U+FFFD. YAML streams must
// be valid UTF-8, and a Go \xNN escape reads back as a different rune.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// reservedScalars resolve to non-string YAML values when left plain.
var reservedScalars = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true, "on": true, "off": true,
	"null": true, "~": true, "y": true, "n": true,
}

func needsQuoting(s string) bool {
	if reservedScalars[strings.ToLower(s)] {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s[:1], "-?:,[]{}#&*!|>'\"%@`") {
		return true
	}
	if strings.Contains(s, ": ") || strings.Contains(s, " #") || strings.HasSuffix(s, ":") {
		return true
	}
	return strings.ContainsAny(s, "\n\r\t")
}
