// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lmtdev/lmt/internal/keys"
)

// runKey manages the stored API key.
func runKey(args []string) error {
	p := NewArgParser(args)

	store, err := keys.DefaultStore()
	if err != nil {
		return err
	}

	switch p.Subcommand() {
	case "set":
		return keySet(store)
	case "edit":
		return openEditor(store.Path())
	case "path":
		fmt.Println(store.Path())
		return nil
	case "", "help":
		fmt.Println("Usage: lmt key <set|edit|path>")
		return nil
	default:
		return usagef("unknown key subcommand %q", p.Subcommand())
	}
}

// keySet reads a key without echoing it and stores it with owner-only
// permissions.
func keySet(store *keys.Store) error {
	var key string

	if IsStdinTTY() {
		fmt.Fprint(os.Stderr, "Paste your API key (input hidden): ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = string(raw)
	} else {
		// Piped in, e.g. from a secrets manager.
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read key from stdin: %w", err)
		}
		key = line
	}

	if err := store.Write(strings.TrimSpace(key)); err != nil {
		return err
	}

	fmt.Printf("%s key stored at %s\n", SuccessStyle.Render("[OK]"), store.Path())
	return nil
}
