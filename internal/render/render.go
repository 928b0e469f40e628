// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package render displays a streamed response, either verbatim (raw
// mode) or as markdown re-rendered in place as fragments arrive
// (formatted mode).
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/time/rate"

	"github.com/lmtdev/lmt/internal/util"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Renderer.
type Options struct {
	// Raw writes fragments verbatim with no markdown pass.
	Raw bool

	// WordWrap is the markdown wrap column. Defaults to 80.
	WordWrap int

	// Width is the terminal width used to compute how many rows the
	// painted block occupies. Defaults to WordWrap.
	Width int

	// RefreshPerSecond caps in-place repaints. Defaults to 30. The
	// final repaint is never throttled.
	RefreshPerSecond int

	// Style is the glamour style name. Empty selects the terminal's
	// auto style.
	Style string
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer accumulates streamed fragments and keeps the terminal
// showing the rendering of everything received so far. Fragments are
// appended in arrival order; raw mode output is append-only and never
// repainted.
type Renderer struct {
	out     io.Writer
	term    *termenv.Output
	md      *glamour.TermRenderer
	limiter *rate.Limiter

	raw   bool
	width int

	acc          strings.Builder
	paintedLines int
}

// New creates a renderer writing to out.
func New(out io.Writer, opts Options) *Renderer {
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}
	if opts.Width <= 0 {
		opts.Width = opts.WordWrap
	}
	if opts.RefreshPerSecond <= 0 {
		opts.RefreshPerSecond = 30
	}

	r := &Renderer{
		out:     out,
		term:    termenv.NewOutput(out),
		limiter: rate.NewLimiter(rate.Limit(opts.RefreshPerSecond), 1),
		raw:     opts.Raw,
		width:   opts.Width,
	}

	if !opts.Raw {
		styleOpt := glamour.WithAutoStyle()
		if opts.Style != "" {
			styleOpt = glamour.WithStandardStyle(opts.Style)
		}
		md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(opts.WordWrap))
		if err != nil {
			// Degrade to raw output rather than fail the request.
			r.raw = true
		} else {
			r.md = md
		}
	}

	return r
}

// WriteFragment appends one streamed fragment. In raw mode it is
// written through immediately; in formatted mode the display catches
// up on the next repaint tick.
func (r *Renderer) WriteFragment(text string) {
	r.acc.WriteString(text)

	if r.raw {
		io.WriteString(r.out, text)
		return
	}

	if r.limiter.Allow() {
		r.repaint()
	}
}

// Finalize flushes the display so it shows the rendering of the full
// accumulated text, and returns that text normalized to end with
// exactly one newline.
func (r *Renderer) Finalize() string {
	text := util.EnsureTrailingNewline(r.acc.String())

	if r.raw {
		// Fragments already went through verbatim; only the closing
		// newline may be missing.
		if r.acc.Len() > 0 && !strings.HasSuffix(r.acc.String(), "\n") {
			io.WriteString(r.out, "\n")
		}
		return text
	}

	r.repaint()
	return text
}

// Static renders a complete (non-streamed) response in one pass.
func (r *Renderer) Static(text string) {
	text = util.EnsureTrailingNewline(text)
	if r.raw {
		io.WriteString(r.out, text)
		return
	}
	io.WriteString(r.out, r.renderMarkdown(text))
}

// Text returns the accumulated raw text received so far.
func (r *Renderer) Text() string {
	return r.acc.String()
}

// =============================================================================
// REPAINT
// =============================================================================

// repaint erases the previously painted block and paints the rendering
// of the full accumulated text.
func (r *Renderer) repaint() {
	rendered := r.renderMarkdown(r.acc.String())
	rendered = util.EnsureTrailingNewline(rendered)

	for i := 0; i < r.paintedLines; i++ {
		r.term.CursorUp(1)
		r.term.ClearLine()
	}

	io.WriteString(r.out, rendered)
	r.paintedLines = r.countRows(rendered)
}

// renderMarkdown runs the glamour pass, falling back to the input on
// render failure.
func (r *Renderer) renderMarkdown(text string) string {
	if r.md == nil {
		return text
	}
	rendered, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return rendered
}

// countRows computes how many terminal rows the painted block
// occupies, accounting for lines wider than the terminal wrapping onto
// extra rows. ANSI sequences do not contribute to width.
func (r *Renderer) countRows(block string) int {
	block = strings.TrimSuffix(block, "\n")
	if block == "" {
		return 0
	}

	rows := 0
	for _, line := range strings.Split(block, "\n") {
		w := ansi.PrintableRuneWidth(line)
		if w <= r.width {
			rows++
			continue
		}
		rows += (w + r.width - 1) / r.width
	}
	return rows
}

// =============================================================================
// MODE SELECTION
// =============================================================================

// PickRaw decides the output mode: raw whenever stdout is not a
// terminal, unless formatting is forced; an explicit raw request
// always wins.
func PickRaw(stdoutIsTTY, forceRaw, forceRich bool) bool {
	if forceRaw {
		return true
	}
	if forceRich {
		return false
	}
	return !stdoutIsTTY
}
