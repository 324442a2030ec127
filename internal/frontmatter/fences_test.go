// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripGeneratedFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "markdown tagged wrapper",
			in:   "```markdown\n# Doc\n\nText.\n```\n",
			want: "# Doc\n\nText.\n",
		},
		{
			name: "bare wrapper",
			in:   "```\n# Doc\n```",
			want: "# Doc",
		},
		{
			name: "md tag with uppercase and trailing space",
			in:   "```MD \n# Doc\n```",
			want: "# Doc",
		},
		{
			name: "fence after frontmatter",
			in:   "---\ntitle: \"T\"\n---\n```markdown\n# Doc\n```\n",
			want: "---\ntitle: \"T\"\n---\n# Doc\n",
		},
		{
			name: "fence after frontmatter and blank line",
			in:   "---\ntitle: \"T\"\n---\n\n```md\n# Doc\n```",
			want: "---\ntitle: \"T\"\n---\n\n# Doc",
		},
		{
			name: "wrapper kept around inner body fence",
			in:   "```markdown\n# Doc\n\n```go\nfmt.Println()\n```\n```\n",
			want: "# Doc\n\n```go\nfmt.Println()\n```\n",
		},
		{
			name: "body ending in code block is not a wrapper",
			in:   "# Doc\n\n```\ncode\n```\n",
			want: "# Doc\n\n```\ncode\n```\n",
		},
		{
			name: "leading language fence is body content",
			in:   "```python\nprint(1)\n```\n",
			want: "```python\nprint(1)\n```\n",
		},
		{
			name: "opening without closing",
			in:   "```markdown\n# Doc\n",
			want: "```markdown\n# Doc\n",
		},
		{
			name: "frontmatter without fence",
			in:   "---\ntitle: T\n---\n\n# Doc\n```\n",
			want: "---\ntitle: T\n---\n\n# Doc\n```\n",
		},
		{
			name: "bare wrapper around tagged inner block",
			in:   "```\n# Doc\n\n```go\nx := 1\n```\n```\n",
			want: "# Doc\n\n```go\nx := 1\n```\n",
		},
		{
			name: "body opening and closing with untagged code blocks",
			in:   "```\n$ make\n```\n\nprose\n\n```\nok\n```\n",
			want: "```\n$ make\n```\n\nprose\n\n```\nok\n```\n",
		},
		{
			name: "bare fence after frontmatter opening a body block",
			in:   "---\ntitle: \"T\"\n---\n\n```\na\n```\n\ntext\n\n```\nb\n```\n",
			want: "---\ntitle: \"T\"\n---\n\n```\na\n```\n\ntext\n\n```\nb\n```\n",
		},
		{
			name: "blank",
			in:   "\n\n",
			want: "\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripGeneratedFences(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StripGeneratedFences(got), "not idempotent")
		})
	}
}
