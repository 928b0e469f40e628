// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// lmt is a terminal client for OpenAI-compatible chat APIs: compose a
// prompt from a template and flags, stream the answer as live-rendered
// markdown, and keep track of tokens and cost.
package main

import (
	"os"

	"github.com/lmtdev/lmt/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
