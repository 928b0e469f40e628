// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawModeWritesFragmentsVerbatim(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Raw: true})

	r.WriteFragment("Hel")
	r.WriteFragment("lo ")
	r.WriteFragment("*world*")

	// Raw output is append-only: exactly the fragments, no repaints,
	// no markdown interpretation.
	assert.Equal(t, "Hel"+"lo "+"*world*", buf.String())

	final := r.Finalize()
	assert.Equal(t, "Hello *world*\n", final)
	assert.Equal(t, "Hello *world*\n", buf.String())
}

func TestRawFinalizeAppendsNewlineExactlyOnce(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Raw: true})

	r.WriteFragment("already terminated\n")
	final := r.Finalize()

	assert.Equal(t, "already terminated\n", final)
	assert.Equal(t, "already terminated\n", buf.String())
}

func TestRawFinalizeEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Raw: true})

	assert.Equal(t, "", r.Finalize())
	assert.Equal(t, "", buf.String())
}

func TestFormattedFinalizeShowsFullRendering(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Style: "notty", WordWrap: 80, RefreshPerSecond: 1})

	r.WriteFragment("# Title\n\nBody ")
	r.WriteFragment("text")
	final := r.Finalize()

	assert.Equal(t, "# Title\n\nBody text\n", final)

	// The last painted block is the rendering of the full text.
	full := r.renderMarkdown(r.Text())
	assert.True(t, strings.HasSuffix(buf.String(), full),
		"display must end with the rendering of the full concatenation")
}

func TestFormattedAccumulatesInOrder(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Style: "notty"})

	for _, frag := range []string{"one ", "two ", "three"} {
		r.WriteFragment(frag)
	}
	assert.Equal(t, "one two three", r.Text())
}

func TestStaticRaw(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Raw: true})

	r.Static("plain answer")
	assert.Equal(t, "plain answer\n", buf.String())
}

func TestStaticFormatted(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Style: "notty"})

	r.Static("**bold** answer")
	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "bold")
	// Markdown markers are consumed by the formatting pass.
	assert.NotContains(t, buf.String(), "**")
}

func TestCountRows(t *testing.T) {
	r := New(&bytes.Buffer{}, Options{Raw: true, Width: 10})

	tests := []struct {
		name  string
		block string
		want  int
	}{
		{"empty", "", 0},
		{"single line", "hello\n", 1},
		{"two lines", "one\ntwo\n", 2},
		{"wrapped line", strings.Repeat("x", 25) + "\n", 3},
		{"blank line counts", "a\n\nb\n", 3},
		{"ansi is zero width", "\x1b[1mhi\x1b[0m\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.countRows(tt.block))
		})
	}
}

func TestPickRaw(t *testing.T) {
	tests := []struct {
		name      string
		tty       bool
		forceRaw  bool
		forceRich bool
		want      bool
	}{
		{"tty defaults to formatted", true, false, false, false},
		{"pipe defaults to raw", false, false, false, true},
		{"rich overrides pipe", false, false, true, false},
		{"raw flag wins on tty", true, true, false, true},
		{"raw flag beats rich", true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PickRaw(tt.tty, tt.forceRaw, tt.forceRich))
		})
	}
}
