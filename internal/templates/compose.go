// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package templates

import (
	"strings"

	"github.com/lmtdev/lmt/internal/util"
)

// emojiDirective is appended to the system prompt when emoji mode is
// requested.
const emojiDirective = "Add plenty of emojis as a colorful way to convey emotions. However, don't mention it."

// Overrides carries the command-line contributions to a prompt.
type Overrides struct {
	// System is the --system flag. Mutually exclusive with a template.
	System string

	// User is the prompt text from arguments or stdin.
	User string

	// Model is the --model flag value, empty when not given.
	Model string

	// Emoji enables the emoji directive.
	Emoji bool
}

// ComposedPrompt is the fully merged prompt, ready to be counted or
// sent.
type ComposedPrompt struct {
	System string
	User   string
	Model  string
}

// Compose merges a template (may be nil) with the command-line
// overrides and resolves the model name. The model precedence is:
// explicit flag, then template, then defaultModel. A flag value equal
// to defaultModel counts as unset, so a template's model choice is not
// shadowed by the flag's default.
func Compose(tmpl *Template, ov Overrides, defaultModel string) ComposedPrompt {
	if tmpl == nil {
		tmpl = &Template{}
	}

	system := mergeField(tmpl.System, ov.System)
	user := mergeField(tmpl.User, ov.User)

	if ov.Emoji {
		system = addEmojiDirective(system)
	}

	model := defaultModel
	switch {
	case ov.Model != "" && ov.Model != defaultModel:
		model = ov.Model
	case tmpl.Model != "":
		model = tmpl.Model
	}

	return ComposedPrompt{System: system, User: user, Model: model}
}

// mergeField joins a template field with its override: the template
// part is stripped of trailing whitespace, the override is appended
// verbatim.
func mergeField(templateField, override string) string {
	return util.TrimTrailingSpace(templateField) + override
}

// addEmojiDirective appends the emoji instruction to a system prompt.
// A non-empty prompt gets sentence-terminating punctuation first so
// the directive reads as its own sentence.
func addEmojiDirective(system string) string {
	system = util.TrimTrailingSpace(system)
	if system == "" {
		return emojiDirective
	}
	if !strings.HasSuffix(system, ".") && !strings.HasSuffix(system, "!") && !strings.HasSuffix(system, "?") {
		system += "."
	}
	return system + " " + emojiDirective
}
