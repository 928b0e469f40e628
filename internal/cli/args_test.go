// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgParserFlagFormats(t *testing.T) {
	p := NewArgParser([]string{"--model", "gpt-4o", "--template=code", "-s", "be brief", "--debug"})

	assert.Equal(t, "gpt-4o", p.Flag("model"))
	assert.Equal(t, "code", p.Flag("template"))
	assert.Equal(t, "be brief", p.Flag("s"))
	assert.True(t, p.BoolFlag("debug"))
	assert.False(t, p.BoolFlag("tokens"))
}

func TestArgParserPositionals(t *testing.T) {
	p := NewArgParser([]string{"explain", "this", "thing", "--model", "4o"})

	assert.Equal(t, "explain", p.Subcommand())
	assert.Equal(t, 3, p.PositionalCount())
	assert.Equal(t, "explain this thing", strings.Join(p.PositionalFrom(0), " "))
	assert.Equal(t, "", p.Positional(5))
}

func TestArgParserBoolFlagDoesNotEatPrompt(t *testing.T) {
	p := NewArgParser([]string{"--tokens", "what is a monad"})

	assert.True(t, p.BoolFlag("tokens"))
	assert.Equal(t, "what is a monad", strings.Join(p.PositionalFrom(0), " "))
}

func TestArgParserShortBoolCluster(t *testing.T) {
	p := NewArgParser([]string{"-R", "hello"})
	assert.True(t, p.BoolFlag("R"))
	assert.Equal(t, "hello", p.Positional(0))
}

func TestArgParserExplicitBoolValue(t *testing.T) {
	p := NewArgParser([]string{"--debug=true", "--no-stream=false"})
	assert.True(t, p.BoolFlag("debug"))
	assert.False(t, p.BoolFlag("no-stream"))
	assert.True(t, p.HasFlag("no-stream"))
}

func TestArgParserStringFlagTakesDashValue(t *testing.T) {
	// A value-taking flag consumes the next token even when it looks
	// like a flag, so out-of-range numbers reach validation.
	p := NewArgParser([]string{"--temperature", "-1", "hi"})
	assert.Equal(t, "-1", p.Flag("temperature"))
	assert.Equal(t, "hi", p.Positional(0))
}

func TestArgParserAnyHelpers(t *testing.T) {
	p := NewArgParser([]string{"-m", "4o", "-e", "hi"})

	assert.Equal(t, "4o", p.AnyFlag("model", "m"))
	assert.Equal(t, "", p.AnyFlag("template", "t"))
	assert.True(t, p.AnyBoolFlag("emoji", "e"))
	assert.False(t, p.AnyBoolFlag("raw", "r"))
}

func TestArgParserFlagFloat(t *testing.T) {
	p := NewArgParser([]string{"--temperature", "0.7"})

	got, err := p.FlagFloat("temperature", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 0.7, got)

	got, err = p.FlagFloat("missing", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	p = NewArgParser([]string{"--temperature", "hot"})
	_, err = p.FlagFloat("temperature", 1.0)
	assert.Error(t, err)
}
