// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reducto is a client for the Reducto document-structure API. It
// turns a PDF into Markdown that keeps equations and tables intact.
package reducto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/capture/internal/httputil"
	"github.com/pdiddy/capture/pkg/types"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://platform.reducto.ai"

// Default request budgets.
const (
	DefaultUploadTimeout = 120 * time.Second
	DefaultParseTimeout  = 300 * time.Second
)

// ErrNoFileID is returned when the upload succeeds but the response names
// no file. The service was reachable; its answer was unusable.
var ErrNoFileID = errors.New("reducto: upload response has no file identifier")

// ErrNoAPIKey is returned when a parse is attempted without a credential.
var ErrNoAPIKey = errors.New("reducto: API key is not set")

// Client talks to the upload and parse endpoints.
type Client struct {
	cfg        types.ReductoConfig
	httpClient *http.Client
}

// New creates a Client. Zero timeouts and an empty base URL take the
// production defaults.
func New(cfg types.ReductoConfig, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}
	if cfg.ParseTimeout <= 0 {
		cfg.ParseTimeout = DefaultParseTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// uploadResponse lists the identifier fields the service has used. The first
// non-empty one wins.
type uploadResponse struct {
	FileID  string `json:"file_id"`
	FileURL string `json:"file_url"`
	URL     string `json:"url"`
}

type parseRequest struct {
	DocumentURL string `json:"document_url"`
}

type parseResponse struct {
	Result struct {
		Chunks []struct {
			Content string `json:"content"`
		} `json:"chunks"`
	} `json:"result"`
}

// Parse uploads the PDF at path and returns its chunks joined by a blank
// line.
func (c *Client) Parse(ctx context.Context, path string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}
	id, err := c.upload(ctx, path)
	if err != nil {
		return "", err
	}
	return c.parse(ctx, id)
}

func (c *Client) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.UploadTimeout)
	defer cancel()

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var up uploadResponse
	if err := httputil.DoJSON(ctx, c.httpClient, req, &up); err != nil {
		return "", fmt.Errorf("reducto upload: %w", err)
	}

	for _, id := range []string{up.FileID, up.FileURL, up.URL} {
		if id != "" {
			return id, nil
		}
	}
	return "", ErrNoFileID
}

func (c *Client) parse(ctx context.Context, id string) (string, error) {
	payload, err := json.Marshal(parseRequest{DocumentURL: id})
	if err != nil {
		return "", fmt.Errorf("encoding parse request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ParseTimeout)
	defer cancel()

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/parse", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating parse request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	var pr parseResponse
	if err := httputil.DoJSON(ctx, c.httpClient, req, &pr); err != nil {
		return "", fmt.Errorf("reducto parse: %w", err)
	}

	parts := make([]string, 0, len(pr.Result.Chunks))
	for _, ch := range pr.Result.Chunks {
		parts = append(parts, ch.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
}
