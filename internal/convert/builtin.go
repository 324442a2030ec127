// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// BuiltinConverter converts HTML in process with html-to-markdown. Inline
// data-URI images are written to files first so the Markdown references
// them by path.
type BuiltinConverter struct{}

// Convert implements Converter.
func (BuiltinConverter) Convert(htmlPath, workDir string) (string, error) {
	f, err := os.Open(htmlPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", htmlPath, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", htmlPath, err)
	}

	if err := extractInlineImages(doc, workDir); err != nil {
		return "", err
	}

	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", htmlPath, err)
	}

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}

// extractInlineImages rewrites every <img src="data:..."> to a file under
// workDir/images. Images that cannot be decoded are left in place.
func extractInlineImages(doc *goquery.Document, workDir string) error {
	var writeErr error
	n := 0
	doc.Find(`img[src^="data:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		data, ext, ok := decodeDataURI(src)
		if !ok {
			return true
		}
		if n == 0 {
			if err := os.MkdirAll(filepath.Join(workDir, MediaDir), 0o755); err != nil {
				writeErr = fmt.Errorf("creating media directory: %w", err)
				return false
			}
		}
		n++
		rel := fmt.Sprintf("%s/image-%d%s", MediaDir, n, ext)
		if err := os.WriteFile(filepath.Join(workDir, filepath.FromSlash(rel)), data, 0o644); err != nil {
			writeErr = fmt.Errorf("writing %s: %w", rel, err)
			return false
		}
		s.SetAttr("src", rel)
		return true
	})
	return writeErr
}

// knownExtensions covers the image types browsers inline. mime's table is
// consulted for anything else.
var knownExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
}

// decodeDataURI decodes a data: URI into its payload and a file extension.
func decodeDataURI(uri string) ([]byte, string, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", false
	}

	isBase64 := false
	params := strings.Split(meta, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return nil, "", false
			}
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", false
		}
		data = []byte(unescaped)
	}
	if len(data) == 0 {
		return nil, "", false
	}

	ext, ok := knownExtensions[mediaType]
	if !ok {
		if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = ".bin"
		}
	}
	return data, ext, true
}
