// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolchain

import (
	"fmt"
	"io"
	"sync"
)

// FakeRunner is a scripted Runner for tests. Programs in Available resolve
// on LookPath; Run records every command and answers through Handle.
type FakeRunner struct {
	// Available lists the program names LookPath resolves.
	Available map[string]bool

	// Handle produces the output of a command. Returning an error simulates
	// a non-zero exit. A nil Handle succeeds with no output.
	Handle func(cmd Command, stdin string) (string, error)

	mu    sync.Mutex
	calls []Command
}

// LookPath implements Runner.
func (f *FakeRunner) LookPath(file string) (string, error) {
	if f.Available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
}

// Run implements Runner.
func (f *FakeRunner) Run(cmd Command) error {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	var stdin string
	if cmd.Stdin != nil {
		data, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return err
		}
		stdin = string(data)
	}
	if f.Handle == nil {
		return nil
	}
	out, err := f.Handle(cmd, stdin)
	if err != nil {
		return err
	}
	if cmd.Stdout != nil {
		if _, err := io.WriteString(cmd.Stdout, out); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns the commands run so far.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}
