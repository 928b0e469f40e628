// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package tokens counts prompt tokens and estimates request cost
// before anything is sent over the wire.
package tokens

import (
	"fmt"
	"io"

	"github.com/pkoukk/tiktoken-go"

	"github.com/lmtdev/lmt/internal/catalog"
	"github.com/lmtdev/lmt/internal/openai"
)

// Message accounting constants for the chat completions format. Every
// message carries a fixed framing overhead, a named message costs one
// extra token, and the assistant reply is primed with three.
const (
	tokensPerMessage = 3
	tokensPerName    = 1
	replyPriming     = 3
)

// Encoder turns text into a token count.
type Encoder interface {
	Count(text string) int
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(text string) int

// Count implements Encoder.
func (f EncoderFunc) Count(text string) int { return f(text) }

// tiktokenEncoder wraps a BPE encoding from the tiktoken tables.
type tiktokenEncoder struct {
	enc *tiktoken.Tiktoken
}

func (t *tiktokenEncoder) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// =============================================================================
// ACCOUNTANT
// =============================================================================

// Accountant resolves the right encoder per model and produces token
// counts and cost estimates.
type Accountant struct {
	// encoderFor loads an encoder by encoding name. Overridable so
	// tests do not depend on downloaded BPE tables.
	encoderFor func(encoding string) (Encoder, error)

	// warn receives non-fatal notices, e.g. the unknown-model
	// encoding fallback. Never stdout.
	warn io.Writer
}

// NewAccountant returns an accountant backed by tiktoken encodings.
// Warnings go to w; pass io.Discard to silence them.
func NewAccountant(w io.Writer) *Accountant {
	return &Accountant{
		encoderFor: func(encoding string) (Encoder, error) {
			enc, err := tiktoken.GetEncoding(encoding)
			if err != nil {
				return nil, fmt.Errorf("failed to load encoding %q: %w", encoding, err)
			}
			return &tiktokenEncoder{enc: enc}, nil
		},
		warn: w,
	}
}

// NewAccountantWith returns an accountant using a custom encoder
// loader. Used by tests and by callers that cache encoders.
func NewAccountantWith(w io.Writer, encoderFor func(encoding string) (Encoder, error)) *Accountant {
	return &Accountant{encoderFor: encoderFor, warn: w}
}

// encoderForModel picks the encoder for a model, falling back to the
// catalog's default encoding for unknown models with a warning. The
// fallback is deliberate: counting must degrade, never abort.
func (a *Accountant) encoderForModel(model string) (Encoder, error) {
	encoding, err := catalog.Encoding(model)
	if err != nil {
		if a.warn != nil {
			fmt.Fprintf(a.warn, "Warning: model %q has no known encoding, falling back to %s.\n", model, catalog.FallbackEncoding)
		}
		encoding = catalog.FallbackEncoding
	}
	return a.encoderFor(encoding)
}

// CountText counts the tokens of a single piece of text under the
// model's encoding.
func (a *Accountant) CountText(text, model string) (int, error) {
	enc, err := a.encoderForModel(model)
	if err != nil {
		return 0, err
	}
	return enc.Count(text), nil
}

// CountMessages counts the tokens a message list will consume in a
// chat completions request, including per-message framing and the
// reply priming tokens.
func (a *Accountant) CountMessages(messages []openai.ChatMessage, model string) (int, error) {
	enc, err := a.encoderForModel(model)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, msg := range messages {
		total += tokensPerMessage
		total += enc.Count(msg.Role)
		total += enc.Count(msg.Content)
		if msg.Name != "" {
			total += tokensPerName
			total += enc.Count(msg.Name)
		}
	}
	total += replyPriming
	return total, nil
}

// =============================================================================
// COST
// =============================================================================

// Cost converts a token count into a USD cost for the model's input
// pricing. Unknown models yield catalog.ErrUnknownModel: a count can
// degrade to a fallback encoding, a price cannot.
func Cost(tokenCount int, model string) (float64, error) {
	price, err := catalog.InputPrice(model)
	if err != nil {
		return 0, err
	}
	return float64(tokenCount) / 1_000_000 * price, nil
}

// EstimateCost formats the cost to six decimal places.
func EstimateCost(tokenCount int, model string) (string, error) {
	cost, err := Cost(tokenCount, model)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.6f", cost), nil
}
