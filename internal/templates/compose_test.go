// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const defaultModel = "gpt-4o-mini"

func TestComposeNoTemplate(t *testing.T) {
	got := Compose(nil, Overrides{System: "be terse", User: "hello"}, defaultModel)
	assert.Equal(t, "be terse", got.System)
	assert.Equal(t, "hello", got.User)
	assert.Equal(t, defaultModel, got.Model)
}

func TestComposeMergesTemplateFields(t *testing.T) {
	tmpl := &Template{
		System: "You are a shell expert.\n\n",
		User:   "Explain this command:\n",
	}
	got := Compose(tmpl, Overrides{User: "ls -la"}, defaultModel)

	assert.Equal(t, "You are a shell expert.", got.System)
	assert.Equal(t, "Explain this command:ls -la", got.User)
}

func TestComposeModelPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		template string
		flag     string
		want     string
	}{
		{"flag wins over template", "gpt-4", "gpt-4o", "gpt-4o"},
		{"template wins when flag unset", "gpt-4", "", "gpt-4"},
		{"flag at default does not shadow template", "gpt-4", defaultModel, "gpt-4"},
		{"default when neither set", "", "", defaultModel},
		{"flag alone", "", "gpt-4-turbo", "gpt-4-turbo"},
		{"explicit default with no template model", "", defaultModel, defaultModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(&Template{Model: tt.template}, Overrides{Model: tt.flag}, defaultModel)
			assert.Equal(t, tt.want, got.Model)
		})
	}
}

func TestComposeEmoji(t *testing.T) {
	tests := []struct {
		name   string
		system string
		want   string
	}{
		{
			"empty system gets directive alone",
			"",
			emojiDirective,
		},
		{
			"period not doubled",
			"You are helpful.",
			"You are helpful. " + emojiDirective,
		},
		{
			"missing period added",
			"You are helpful",
			"You are helpful. " + emojiDirective,
		},
		{
			"exclamation kept",
			"Be loud!",
			"Be loud! " + emojiDirective,
		},
		{
			"trailing whitespace stripped first",
			"You are helpful.  \n",
			"You are helpful. " + emojiDirective,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(nil, Overrides{System: tt.system, Emoji: true}, defaultModel)
			assert.Equal(t, tt.want, got.System)
		})
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	tmpl := &Template{System: "sys", User: "usr", Model: "gpt-4"}
	ov := Overrides{User: " tail", Emoji: true}

	first := Compose(tmpl, ov, defaultModel)
	second := Compose(tmpl, ov, defaultModel)
	assert.Equal(t, first, second)
}
