// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API credentials. A credential is read from the
// process environment first (optionally populated from a .env file) and
// then from a directory of plain-text files, where each filename is the key
// name and the trimmed file contents are the value.
//
// Known credentials: REDUCTO_API_KEY (reducto-api-key), ANTHROPIC_API_KEY
// (anthropic-api-key), OPENAI_API_KEY (openai-api-key).
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Credential names one secret in both of its sources.
type Credential struct {
	// Env is the environment variable.
	Env string
	// File is the filename inside the secrets directory.
	File string
}

// Known credentials.
var (
	Reducto   = Credential{Env: "REDUCTO_API_KEY", File: "reducto-api-key"}
	Anthropic = Credential{Env: "ANTHROPIC_API_KEY", File: "anthropic-api-key"}
	OpenAI    = Credential{Env: "OPENAI_API_KEY", File: "openai-api-key"}
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// LoadDotenv loads the given .env files into the environment without
// overriding variables that are already set. Missing files are skipped.
// It returns the files that were loaded.
func LoadDotenv(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("loading %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// Store resolves credentials against the environment and a loaded secrets
// directory.
type Store struct {
	files  map[string]string
	getenv func(string) string
}

// NewStore wraps the map returned by Load.
func NewStore(files map[string]string) *Store {
	if files == nil {
		files = map[string]string{}
	}
	return &Store{files: files, getenv: os.Getenv}
}

// Get returns the credential value, preferring the environment. It
// returns "" when neither source has it.
func (s *Store) Get(c Credential) string {
	if v := strings.TrimSpace(s.getenv(c.Env)); v != "" {
		return v
	}
	return s.files[c.File]
}

// Names lists the secret files that were loaded.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.files))
	for k := range s.files {
		names = append(names, k)
	}
	return names
}
