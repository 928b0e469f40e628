// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package cli implements the lmt command-line interface: the default
// prompt command plus the models, templates, key, and usage commands.
package cli

import (
	"fmt"
	"io"
	"os"
)

// Version is the lmt release version.
const Version = "0.1.0"

const usageText = `lmt - talk to language models from your terminal

Usage:
  lmt [flags] [prompt...]          Send a prompt (default command)
  lmt prompt [flags] [prompt...]   Same, spelled out
  lmt models                       List known models, aliases, and prices
  lmt templates <subcommand>       Manage prompt templates
  lmt key <subcommand>             Manage the API key
  lmt usage [recent]               Show recorded request totals
  lmt version                      Print the version
  lmt help                         Show this help

Prompt flags:
  -m, --model <name>        Model id or alias (default from config)
  -t, --template <name>     Compose with a stored template
  -s, --system <text>       System prompt (conflicts with --template)
      --temperature <n>     Sampling temperature, 0 to 2 (default 1)
  -e, --emoji               Ask for an emoji-rich answer
      --tokens              Count tokens and estimate cost, send nothing
      --no-stream           Wait for the full response instead of streaming
  -r, --raw                 Print the response verbatim, no formatting
  -R, --rich                Force formatting even when piping
      --debug               Show the composed request on stderr

Piped input is used as the prompt. With both piped input and prompt
arguments, the two are joined with a "___" separator line.
`

// Run dispatches the command line and returns the process exit code.
func Run(args []string) int {
	err := dispatch(args)
	if err != nil {
		ReportError(os.Stderr, err)
	}
	return ExitCode(err)
}

func dispatch(args []string) error {
	if len(args) == 0 {
		printUsage(os.Stdout)
		return nil
	}

	switch args[0] {
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return nil
	case "version", "--version":
		fmt.Printf("lmt %s\n", Version)
		return nil
	case "models":
		return runModels(args[1:])
	case "templates":
		return runTemplates(args[1:])
	case "key":
		return runKey(args[1:])
	case "usage":
		return runUsage(args[1:])
	case "prompt":
		return runPrompt(args[1:])
	default:
		// Anything else is prompt text.
		return runPrompt(args)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}
