// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package templates manages reusable prompt templates and composes the
// final prompt from a template plus command-line overrides.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lmtdev/lmt/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTemplateNotFound indicates the named template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateExists indicates a rename target already exists.
	ErrTemplateExists = errors.New("template already exists")

	// ErrConflictingSources indicates a template and a --system
	// override were both supplied for one request.
	ErrConflictingSources = errors.New("conflicting system prompt sources: use a template or --system, not both")
)

// =============================================================================
// TEMPLATE
// =============================================================================

// Template is one stored prompt template. Any field may be empty; a
// missing YAML key reads as the zero value.
type Template struct {
	// System seeds the system prompt.
	System string `yaml:"system"`

	// User is prepended to the user prompt.
	User string `yaml:"user"`

	// Model overrides the default model unless the command line names
	// one explicitly.
	Model string `yaml:"model"`
}

// Starter is the seed content written when a new template is created.
const Starter = `# Prompt template.
# Any field may be left empty.

# Instructions that frame every request made with this template.
system:

# Text prepended to the prompt you pass on the command line.
user:

# Model to use with this template (id or alias). Leave empty for the default.
model:
`

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes templates as YAML files in a directory, one
// file per template.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore returns the store at the user's config directory,
// ~/.config/lmt/templates on most systems.
func DefaultStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return NewStore(filepath.Join(base, "lmt", "templates")), nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path a template name maps to.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// Exists reports whether a template is stored under name.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Load reads and parses a template by name.
func (s *Store) Load(name string) (*Template, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("failed to read template %q: %w", name, err)
	}

	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
	}
	return &tmpl, nil
}

// Save writes raw template content under name, creating the directory
// if needed.
func (s *Store) Save(name string, content []byte) error {
	return util.AtomicWriteFile(s.Path(name), content, 0644)
}

// List returns the stored template names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a stored template.
func (s *Store) Delete(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return os.Remove(s.Path(name))
}

// Rename moves a template to a new name. The target must not exist.
func (s *Store) Rename(oldName, newName string) error {
	if !s.Exists(oldName) {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, oldName)
	}
	if s.Exists(newName) {
		return fmt.Errorf("%w: %q", ErrTemplateExists, newName)
	}
	return os.Rename(s.Path(oldName), s.Path(newName))
}
