// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"regexp"
	"strings"
)

// openingFence is a wrapping fence a generator may put around its whole
// answer: bare, or tagged as markdown, md or yaml.
var openingFence = regexp.MustCompile("(?i)^```(?:markdown|md|yaml)?[ \t]*$")

const closingFence = "```"

// StripGeneratedFences removes a single code fence wrapping generated
// Markdown. The opening fence is either the first non-blank line or the
// first non-blank line after a leading frontmatter block; the closing fence
// must be the last non-blank line. Fences inside the body are kept, and text
// without a wrapping fence is returned unchanged.
//
// A document that merely starts and ends with code blocks looks the same as
// a wrapped one. A fence tagged markdown, md or yaml is always a wrapper. A
// bare opening fence is a wrapper only when every fenced block between it
// and the closing fence opens with an info string ("```go"); otherwise the
// bare fence is taken to open the body's own first code block and the text
// is returned unchanged.
func StripGeneratedFences(text string) string {
	lines := strings.Split(text, "\n")

	first := nextContent(lines, 0)
	if first < 0 {
		return text
	}

	open := -1
	switch {
	case openingFence.MatchString(trimCR(lines[first])):
		open = first
	case trimCR(lines[first]) == delimiter:
		end := closingDelimiter(lines, first+1)
		if end < 0 {
			return text
		}
		if next := nextContent(lines, end+1); next >= 0 && openingFence.MatchString(trimCR(lines[next])) {
			open = next
		}
	}
	if open < 0 {
		return text
	}

	last := prevContent(lines, len(lines)-1)
	if last <= open || strings.TrimSpace(lines[last]) != closingFence {
		return text
	}
	if isBareFence(lines[open]) && !taggedInnerBlocks(lines[open+1:last]) {
		return text
	}

	out := make([]string, 0, len(lines)-2)
	out = append(out, lines[:open]...)
	out = append(out, lines[open+1:last]...)
	out = append(out, lines[last+1:]...)
	return strings.Join(out, "\n")
}

func isBareFence(line string) bool {
	return strings.TrimSpace(line) == closingFence
}

// taggedInnerBlocks reports whether lines hold only complete fenced blocks
// whose opening fences carry an info string.
func taggedInnerBlocks(lines []string) bool {
	inside := false
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), closingFence) {
			continue
		}
		switch {
		case !inside && isBareFence(line):
			return false
		case !inside:
			inside = true
		case isBareFence(line):
			inside = false
		}
	}
	return !inside
}

// closingDelimiter returns the index of the first delimiter line at or after
// from, or -1.
func closingDelimiter(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if trimCR(lines[i]) == delimiter {
			return i
		}
	}
	return -1
}

func nextContent(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

func prevContent(lines []string, from int) int {
	for i := from; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

func trimCR(line string) string {
	return strings.TrimSuffix(line, "\r")
}
