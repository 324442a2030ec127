// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// singleFileHeader is how far into a SingleFile snapshot its provenance
// comment is searched for.
const singleFileHeader = 2000

var singleFileURL = regexp.MustCompile(`url:\s*(https?://\S+)`)

// SourceURL recovers the page URL a local HTML file was saved from. It reads
// the SingleFile provenance comment near the top of the file, then falls back
// to <link rel="canonical">. The query string is dropped. It returns "" when
// neither is present.
func SourceURL(htmlPath string) (string, error) {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", htmlPath, err)
	}

	head := data
	if len(head) > singleFileHeader {
		head = head[:singleFileHeader]
	}
	if m := singleFileURL.FindSubmatch(head); m != nil {
		return stripQuery(string(m[1])), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", nil
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		href = strings.TrimSpace(href)
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			return stripQuery(href), nil
		}
	}
	return "", nil
}

func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
