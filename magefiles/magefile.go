//go:build mage

// Package main contains Mage build targets for capture developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/capture/internal/browser"
	"github.com/pdiddy/capture/internal/toolchain"
)

const (
	binDir  = "bin"
	binName = "capture"
	cmdPkg  = "./cmd/capture"
)

// sourceDirs are the trees counted by Stats.
var sourceDirs = []string{"cmd", "internal", "pkg", "magefiles"}

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Lint and Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// externalTools are the programs capture shells out to, with what needs them.
var externalTools = []struct {
	name string
	use  string
}{
	{"single-file", "URL snapshots"},
	{"pandoc", "HTML conversion (converter.backend: pandoc)"},
	{"dprint", "Markdown formatting (formatter.enabled)"},
}

// Doctor reports which external tools and browsers are available.
func Doctor() error {
	runner := toolchain.OSRunner{}
	missing := 0
	for _, tool := range externalTools {
		path, err := runner.LookPath(tool.name)
		if err != nil {
			missing++
			fmt.Printf("  missing  %-12s %s\n", tool.name, tool.use)
			continue
		}
		fmt.Printf("  ok       %-12s %s\n", tool.name, path)
	}

	exe, err := browser.NewResolver("", runner).Resolve()
	if err != nil {
		missing++
		fmt.Printf("  missing  %-12s %v\n", "browser", err)
	} else {
		fmt.Printf("  ok       %-12s %s\n", "browser", exe)
	}

	if missing > 0 {
		return fmt.Errorf("%d tool(s) missing", missing)
	}
	return nil
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	var prodLines, testLines int
	for _, dir := range sourceDirs {
		prod, test, err := countGoLines(dir)
		if err != nil {
			return err
		}
		prodLines += prod
		testLines += test
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// countGoLines walks root and counts non-blank lines in Go files, split
// into production and _test.go files.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(data)
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// countDocWords counts words in the Markdown files directly under root.
func countDocWords(root string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*.md"))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
	}
	return total, nil
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}
