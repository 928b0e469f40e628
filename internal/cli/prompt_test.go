// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lmtdev/lmt/internal/templates"
)

func TestMergeStdin(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		positional string
		want       string
	}{
		{"positional only", "", "explain this", "explain this"},
		{"stdin only", "piped content\n", "", "piped content"},
		{
			"both joined with separator",
			"func main() {}\n",
			"what does this do",
			"func main() {}\n___\nwhat does this do",
		},
		{"stdin whitespace stripped", "  \n\tpadded\n\n", "", "padded"},
		{"both empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeStdin(tt.stdin, tt.positional))
		})
	}
}

func TestPrintDebug(t *testing.T) {
	var buf strings.Builder
	printDebug(&buf, templates.ComposedPrompt{
		System: "be brief",
		User:   "hello",
		Model:  "gpt-4o-mini",
	}, 0.7)

	out := buf.String()
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "0.7")
	assert.Contains(t, out, `"be brief"`)
	assert.Contains(t, out, `"hello"`)
}

func TestPrintStatus(t *testing.T) {
	var buf strings.Builder
	printStatus(&buf, "gpt-4o-mini", 120, 45, 0.000018, 1536*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "120 prompt")
	assert.Contains(t, out, "45 completion")
	assert.Contains(t, out, "$0.000018")
	assert.Contains(t, out, "1.54s")
}
