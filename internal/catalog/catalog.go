// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package catalog holds the model catalog: canonical model identifiers,
// their short aliases, input pricing, and tokenizer encodings.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidModel indicates a name that resolves to no catalog entry.
	ErrInvalidModel = errors.New("invalid model")

	// ErrUnknownModel indicates a model with no pricing or encoding data.
	ErrUnknownModel = errors.New("unknown model")
)

// =============================================================================
// MODEL TABLE
// =============================================================================

// DefaultModel is used when neither the command line nor a template
// names a model.
const DefaultModel = "gpt-4o-mini"

// FallbackEncoding is used to count tokens for models the catalog does
// not know about.
const FallbackEncoding = "o200k_base"

// Model describes one catalog entry.
type Model struct {
	// ID is the canonical identifier sent over the wire.
	ID string

	// Aliases are accepted shorthands, stored lowercase.
	Aliases []string

	// InputPricePerMTok is the USD price per million input tokens.
	InputPricePerMTok float64

	// Encoding is the tokenizer encoding name for this model.
	Encoding string
}

// models is the authoritative table. Prices are input prices per 1M
// tokens, current as of the last catalog refresh.
var models = []Model{
	{ID: "chatgpt-4o-latest", InputPricePerMTok: 5.00, Encoding: "o200k_base"},
	{ID: "gpt-3.5-turbo", Aliases: []string{"chatgpt", "3.5"}, InputPricePerMTok: 0.50, Encoding: "cl100k_base"},
	{ID: "gpt-3.5-turbo-instruct", Aliases: []string{"3.5-instruct"}, InputPricePerMTok: 1.50, Encoding: "cl100k_base"},
	{ID: "gpt-4", Aliases: []string{"4", "gpt4"}, InputPricePerMTok: 30.00, Encoding: "cl100k_base"},
	{ID: "gpt-4-32k", Aliases: []string{"4-32k", "gpt4-32k"}, InputPricePerMTok: 60.00, Encoding: "cl100k_base"},
	{ID: "gpt-4-turbo", Aliases: []string{"4t", "4-turbo", "gpt4-turbo"}, InputPricePerMTok: 10.00, Encoding: "cl100k_base"},
	{ID: "gpt-4.1", Aliases: []string{"4.1"}, InputPricePerMTok: 2.00, Encoding: "o200k_base"},
	{ID: "gpt-4.1-mini", Aliases: []string{"4.1-mini", "4.1mini"}, InputPricePerMTok: 0.40, Encoding: "o200k_base"},
	{ID: "gpt-4.1-nano", Aliases: []string{"4.1-nano", "4.1nano"}, InputPricePerMTok: 0.10, Encoding: "o200k_base"},
	{ID: "gpt-4.5-preview", Aliases: []string{"4.5"}, InputPricePerMTok: 75.00, Encoding: "o200k_base"},
	{ID: "gpt-4o", Aliases: []string{"4o"}, InputPricePerMTok: 2.50, Encoding: "o200k_base"},
	{ID: "gpt-4o-mini", Aliases: []string{"4o-mini", "4omini", "4om"}, InputPricePerMTok: 0.15, Encoding: "o200k_base"},
	{ID: "o1", InputPricePerMTok: 15.00, Encoding: "o200k_base"},
	{ID: "o1-mini", InputPricePerMTok: 1.10, Encoding: "o200k_base"},
	{ID: "o1-preview", InputPricePerMTok: 15.00, Encoding: "o200k_base"},
	{ID: "o3", InputPricePerMTok: 2.00, Encoding: "o200k_base"},
	{ID: "o3-mini", InputPricePerMTok: 1.10, Encoding: "o200k_base"},
	{ID: "o4-mini", InputPricePerMTok: 1.10, Encoding: "o200k_base"},
}

// =============================================================================
// LOOKUP
// =============================================================================

// index maps every canonical id and alias (lowercase) to its entry.
var index = func() map[string]*Model {
	m := make(map[string]*Model, len(models)*2)
	for i := range models {
		entry := &models[i]
		m[strings.ToLower(entry.ID)] = entry
		for _, alias := range entry.Aliases {
			m[alias] = entry
		}
	}
	return m
}()

// Resolve maps a user-supplied model name (canonical id or alias, any
// case) to its canonical identifier.
func Resolve(name string) (string, error) {
	entry, ok := index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidModel, name)
	}
	return entry.ID, nil
}

// InputPrice returns the USD price per million input tokens for a
// canonical model id.
func InputPrice(id string) (float64, error) {
	entry, ok := index[strings.ToLower(id)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return entry.InputPricePerMTok, nil
}

// Encoding returns the tokenizer encoding name for a canonical model
// id, or ErrUnknownModel when the catalog has no entry. Callers that
// must never fail fall back to FallbackEncoding.
func Encoding(id string) (string, error) {
	entry, ok := index[strings.ToLower(id)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return entry.Encoding, nil
}

// List returns all catalog entries sorted by canonical id.
func List() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
