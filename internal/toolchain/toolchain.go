// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain runs the external programs the capture pipeline shells
// out to (single-file, pandoc, dprint, a generative-model script) behind a
// small interface that tests replace with canned output.
package toolchain

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one process invocation.
type Command struct {
	// Name is the program, resolved on PATH.
	Name string
	// Args are the arguments after Name.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdin is fed to the process when non-nil.
	Stdin io.Reader
	// Stdout receives the process output when non-nil.
	Stdout io.Writer
}

// String renders the command line for messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner locates and runs programs.
type Runner interface {
	// LookPath reports the resolved path of file, or an error when it is not
	// on PATH.
	LookPath(file string) (string, error)

	// Run executes cmd to completion. A non-zero exit is an error carrying
	// the tail of the process's stderr.
	Run(cmd Command) error
}

// OSRunner is the production Runner backed by os/exec. Processes run with
// no timeout; they rely on the tool's own behavior.
type OSRunner struct{}

// LookPath implements Runner.
func (OSRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// maxStderr caps how much stderr is quoted in an error.
const maxStderr = 2048

// Run implements Runner.
func (OSRunner) Run(c Command) error {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderr {
			msg = "..." + msg[len(msg)-maxStderr:]
		}
		if msg == "" {
			return fmt.Errorf("running %s: %w", c.Name, err)
		}
		return fmt.Errorf("running %s: %w: %s", c.Name, err, msg)
	}
	return nil
}

// Output runs cmd and returns its stdout as a string.
func Output(r Runner, cmd Command) (string, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := r.Run(cmd); err != nil {
		return "", err
	}
	return out.String(), nil
}

// FirstAvailable returns the first candidate that LookPath resolves, and
// false when none does.
func FirstAvailable(r Runner, candidates []string) (string, bool) {
	for _, c := range candidates {
		if _, err := r.LookPath(c); err == nil {
			return c, true
		}
	}
	return "", false
}
