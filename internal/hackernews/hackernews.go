// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hackernews finds the Hacker News discussion of a URL through the
// Algolia search API. Lookups are best effort: every failure reads as "no
// thread".
package hackernews

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/capture/internal/httputil"
	"github.com/pdiddy/capture/pkg/types"
)

// DefaultBaseURL is the Algolia HN search API root.
const DefaultBaseURL = "https://hn.algolia.com/api/v1"

// DefaultTimeout bounds one lookup.
const DefaultTimeout = 10 * time.Second

// itemURL is the permalink prefix of a story.
const itemURL = "https://news.ycombinator.com/item?id="

type searchResponse struct {
	Hits []hit `json:"hits"`
}

type hit struct {
	ObjectID    string `json:"objectID"`
	NumComments int    `json:"num_comments"`
}

// Client performs thread lookups.
type Client struct {
	cfg        types.HackerNewsConfig
	httpClient *http.Client
}

// New creates a Client. An empty base URL and zero timeout take the
// defaults.
func New(cfg types.HackerNewsConfig, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Lookup returns the permalink of the story about target with the most
// comments, or "" when there is none or the search fails.
func (c *Client) Lookup(ctx context.Context, target string) string {
	if target == "" {
		return ""
	}

	q := url.Values{}
	q.Set("query", target)
	q.Set("restrictSearchableAttributes", "url")
	q.Set("tags", "story")

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, c.cfg.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	var sr searchResponse
	if err := httputil.DoJSON(ctx, c.httpClient, req, &sr); err != nil {
		return ""
	}

	best, ok := mostDiscussed(sr.Hits)
	if !ok {
		return ""
	}
	return itemURL + best.ObjectID
}

// mostDiscussed picks the hit with the highest comment count. The earliest
// hit wins a tie.
func mostDiscussed(hits []hit) (hit, bool) {
	var best hit
	found := false
	for _, h := range hits {
		if h.ObjectID == "" {
			continue
		}
		if !found || h.NumComments > best.NumComments {
			best = h
			found = true
		}
	}
	return best, found
}
