// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/capture/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "catalog.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRecordAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "example.com - 2024-01-02 - hello", "/out/example.com - 2024-01-02 - hello", types.FrontmatterRecord{
		Title: "Hello", Domain: "example.com", URL: "https://example.com/hello",
		CaptureDate: "2024-02-01", PublishDate: "2024-01-02", Tags: []string{"go", "web"},
	}))
	require.NoError(t, s.Record(ctx, "paper - unknown-date - attention", "/out/paper - unknown-date - attention", types.FrontmatterRecord{
		Title: "Attention", Domain: "paper", CaptureDate: "2024-03-01", Tags: []string{"ml"},
	}))

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Attention", all[0].Record.Title)
	assert.Equal(t, []string{"go", "web"}, all[1].Record.Tags)
	assert.Equal(t, "https://example.com/hello", all[1].Record.URL)
	assert.False(t, all[1].UpdatedAt.IsZero())

	byTag, err := s.List(ctx, Filter{Tag: "web"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Hello", byTag[0].Record.Title)

	byDomain, err := s.List(ctx, Filter{Domain: "paper"})
	require.NoError(t, err)
	require.Len(t, byDomain, 1)
	assert.Equal(t, "Attention", byDomain[0].Record.Title)

	none, err := s.List(ctx, Filter{Tag: "web", Domain: "paper"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordUpsertReplacesTags(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := types.FrontmatterRecord{Title: "Old", Domain: "x", CaptureDate: "2024-01-01", Tags: []string{"a", "b"}}
	require.NoError(t, s.Record(ctx, "f", "/out/f", rec))

	rec.Title = "New"
	rec.Tags = []string{"c"}
	require.NoError(t, s.Record(ctx, "f", "/out/f", rec))

	entries, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "New", entries[0].Record.Title)
	assert.Equal(t, []string{"c"}, entries[0].Record.Tags)

	stale, err := s.List(ctx, Filter{Tag: "a"})
	require.NoError(t, err)
	assert.Empty(t, stale)
}
