// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/capture/internal/toolchain"
)

// CommandBackend runs an external script. The prompt is written to its
// stdin; a schema is passed as `--schema <file>` and an attachment as
// `--file <path>`. Stdout is the response.
type CommandBackend struct {
	Argv   []string
	Runner toolchain.Runner
}

// Generate implements Backend.
func (c *CommandBackend) Generate(_ context.Context, r Request) (string, error) {
	if len(c.Argv) == 0 {
		return "", fmt.Errorf("command backend has no command")
	}
	args := append([]string(nil), c.Argv[1:]...)

	if r.Schema != nil {
		dir, err := os.MkdirTemp("", "capture-schema-*")
		if err != nil {
			return "", fmt.Errorf("creating schema dir: %w", err)
		}
		defer os.RemoveAll(dir)

		data, err := json.Marshal(r.Schema)
		if err != nil {
			return "", fmt.Errorf("encoding schema: %w", err)
		}
		path := filepath.Join(dir, "schema.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("writing schema: %w", err)
		}
		args = append(args, "--schema", path)
	}
	if r.AttachmentPath != "" {
		args = append(args, "--file", r.AttachmentPath)
	}

	out, err := toolchain.Output(c.Runner, toolchain.Command{
		Name:  c.Argv[0],
		Args:  args,
		Stdin: strings.NewReader(r.Prompt),
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
