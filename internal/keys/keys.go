// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package keys stores the API key on disk with restrictive
// permissions.
package keys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmtdev/lmt/internal/util"
)

// EnvVar overrides the stored key when set.
const EnvVar = "OPENAI_API_KEY"

// ErrNoKey indicates no API key is available from the environment or
// the key file.
var ErrNoKey = errors.New("no API key configured")

// Store reads and writes the API key file.
type Store struct {
	path string
}

// NewStore creates a store for the given key file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore returns the store at ~/.config/lmt/api_key.
func DefaultStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return NewStore(filepath.Join(base, "lmt", "api_key")), nil
}

// Path returns the key file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the API key. The environment variable wins over the
// file; a missing key yields ErrNoKey.
func (s *Store) Read() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvVar)); key != "" {
		return key, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoKey
		}
		return "", fmt.Errorf("failed to read key file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

// Write stores the key with owner-only permissions. The parent
// directory is tightened to 0700 as well.
func (s *Store) Write(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("refusing to store an empty key")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := util.AtomicWriteFile(s.path, []byte(key+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}
