// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/capture/internal/toolchain"
)

func noFallback() (string, bool) { return "", false }

func TestResolver(t *testing.T) {
	tests := []struct {
		name      string
		explicit  string
		available map[string]bool
		fallback  func() (string, bool)
		want      string
		wantErr   bool
	}{
		{
			name:      "explicit wins",
			explicit:  "/opt/brave/brave",
			available: map[string]bool{"chrome": true},
			fallback:  noFallback,
			want:      "/opt/brave/brave",
		},
		{
			name:      "first candidate on path",
			available: map[string]bool{"google-chrome": true, "chromium-browser": true},
			fallback:  noFallback,
			want:      "/usr/bin/google-chrome",
		},
		{
			name:     "launcher fallback",
			fallback: func() (string, bool) { return "/Applications/Chromium.app/chromium", true },
			want:     "/Applications/Chromium.app/chromium",
		},
		{
			name:     "nothing found",
			fallback: noFallback,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{
				Explicit: tt.explicit,
				Runner:   &toolchain.FakeRunner{Available: tt.available},
				Fallback: tt.fallback,
			}
			got, err := r.Resolve()
			if tt.wantErr {
				assert.True(t, IsNoBrowser(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolverMemoizes(t *testing.T) {
	calls := 0
	r := &Resolver{Runner: &toolchain.FakeRunner{}, Fallback: func() (string, bool) {
		calls++
		return "/bin/chrome", true
	}}
	for i := 0; i < 3; i++ {
		got, err := r.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "/bin/chrome", got)
	}
	assert.Equal(t, 1, calls)
}

func TestSingleFileSnapshot(t *testing.T) {
	runner := &toolchain.FakeRunner{Available: map[string]bool{"chromium": true}}
	s := NewSingleFile(&Resolver{Runner: runner, Fallback: noFallback}, runner)

	require.NoError(t, s.Snapshot(context.Background(), "https://example.com/a", "/tmp/w/page.html"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "single-file", calls[0].Name)
	assert.Equal(t, []string{"--browser-executable-path", "/usr/bin/chromium", "https://example.com/a", "/tmp/w/page.html"}, calls[0].Args)
}

func TestSingleFileSnapshotErrors(t *testing.T) {
	runner := &toolchain.FakeRunner{}
	s := NewSingleFile(&Resolver{Runner: runner, Fallback: noFallback}, runner)
	err := s.Snapshot(context.Background(), "https://example.com", "/tmp/out.html")
	assert.ErrorIs(t, err, ErrNoBrowser)
	assert.Empty(t, runner.Calls())

	failing := &toolchain.FakeRunner{Handle: func(toolchain.Command, string) (string, error) {
		return "", errors.New("exit status 1")
	}}
	s = NewSingleFile(&Resolver{Explicit: "chrome", Runner: failing}, failing)
	err = s.Snapshot(context.Background(), "https://example.com", "/tmp/out.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capturing https://example.com")
}

func TestChromePrinterNoBrowser(t *testing.T) {
	p := NewChromePrinter(&Resolver{Runner: &toolchain.FakeRunner{}, Fallback: noFallback})
	err := p.PrintPDF(context.Background(), "page.html", "page.pdf")
	assert.ErrorIs(t, err, ErrNoBrowser)
}
