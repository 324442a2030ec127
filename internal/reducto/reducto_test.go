// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reducto

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/capture/internal/httputil"
	"github.com/pdiddy/capture/pkg/types"
)

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

// fakeService serves /upload and /parse. uploadBody is returned verbatim.
func fakeService(t *testing.T, uploadBody string, parseStatus int) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/upload":
			f, hdr, err := r.FormFile("file")
			if !assert.NoError(t, err) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "paper.pdf", hdr.Filename)
			assert.Equal(t, "%PDF-1.4 fake", string(data))
			w.Write([]byte(uploadBody))
		case "/parse":
			var req parseRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "file-123", req.DocumentURL)
			if parseStatus != http.StatusOK {
				w.WriteHeader(parseStatus)
				return
			}
			w.Write([]byte(`{"result":{"chunks":[{"content":"# Doc"},{"content":"$x^2$"}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts, &seen
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		uploadBody string
	}{
		{name: "file_id", uploadBody: `{"file_id":"file-123"}`},
		{name: "file_url", uploadBody: `{"file_url":"file-123"}`},
		{name: "url", uploadBody: `{"url":"file-123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, seen := fakeService(t, tt.uploadBody, http.StatusOK)
			c := New(types.ReductoConfig{BaseURL: ts.URL + "/", APIKey: "test-key"}, ts.Client())

			got, err := c.Parse(context.Background(), writePDF(t))
			require.NoError(t, err)
			assert.Equal(t, "# Doc\n\n$x^2$", got)
			assert.Equal(t, []string{"/upload", "/parse"}, *seen)
		})
	}
}

func TestParse_NoFileID(t *testing.T) {
	ts, seen := fakeService(t, `{"status":"ok"}`, http.StatusOK)
	c := New(types.ReductoConfig{BaseURL: ts.URL, APIKey: "test-key"}, ts.Client())

	_, err := c.Parse(context.Background(), writePDF(t))
	assert.ErrorIs(t, err, ErrNoFileID)
	assert.Equal(t, []string{"/upload"}, *seen)
}

func TestParse_TransportFailure(t *testing.T) {
	ts, _ := fakeService(t, `{"file_id":"file-123"}`, http.StatusBadGateway)
	c := New(types.ReductoConfig{BaseURL: ts.URL, APIKey: "test-key"}, ts.Client())

	_, err := c.Parse(context.Background(), writePDF(t))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoFileID))

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestParse_NoAPIKey(t *testing.T) {
	c := New(types.ReductoConfig{}, nil)
	_, err := c.Parse(context.Background(), writePDF(t))
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewDefaults(t *testing.T) {
	c := New(types.ReductoConfig{}, nil)
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, DefaultUploadTimeout, c.cfg.UploadTimeout)
	assert.Equal(t, DefaultParseTimeout, c.cfg.ParseTimeout)
}
