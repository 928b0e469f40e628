// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package driver turns a composed prompt into exactly one API request
// and reports what came back, how long it took, and what went wrong.
// It never retries: transient failures are classified and surfaced so
// the user decides whether to resend.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lmtdev/lmt/internal/openai"
	"github.com/lmtdev/lmt/internal/templates"
)

// Temperature bounds accepted by the chat completions API.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// ErrInvalidTemperature indicates a temperature outside [0, 2].
var ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")

// Options configures one request.
type Options struct {
	// Temperature for sampling. Zero is meaningful and is sent.
	Temperature float64

	// Stream selects SSE streaming over a one-shot request.
	Stream bool

	// OnFragment receives each content fragment in arrival order.
	// Only used when streaming.
	OnFragment func(text string)
}

// Result is the outcome of a request. On a mid-stream failure the
// fields hold everything received before the error.
type Result struct {
	// Text is the accumulated response content.
	Text string

	// Elapsed is the wall-clock duration of the request.
	Elapsed time.Duration

	// Chunks are the raw stream chunks, retained for inspection.
	Chunks []openai.StreamChunk

	// Response is the raw one-shot response, nil when streaming.
	Response *openai.ChatResponse
}

// Messages builds the wire messages for a composed prompt. The system
// message is always present, mirroring what token accounting counts.
func Messages(prompt templates.ComposedPrompt) []openai.ChatMessage {
	return []openai.ChatMessage{
		openai.NewSystemMessage(prompt.System),
		openai.NewUserMessage(prompt.User),
	}
}

// Send validates the options and performs exactly one chat request.
// A partial Result accompanies a mid-stream error.
func Send(ctx context.Context, client *openai.Client, prompt templates.ComposedPrompt, opts Options) (*Result, error) {
	if opts.Temperature < MinTemperature || opts.Temperature > MaxTemperature {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidTemperature, opts.Temperature)
	}

	temp := opts.Temperature
	req := openai.ChatRequest{
		Model:       prompt.Model,
		Messages:    Messages(prompt),
		Temperature: &temp,
	}

	start := time.Now()

	if !opts.Stream {
		resp, err := client.Chat(ctx, req)
		elapsed := time.Since(start)
		if err != nil {
			return nil, err
		}
		return &Result{
			Text:     resp.GetContent(),
			Elapsed:  elapsed,
			Response: resp,
		}, nil
	}

	var text strings.Builder
	var chunks []openai.StreamChunk

	err := client.ChatStream(ctx, req, func(chunk openai.StreamChunk) {
		chunks = append(chunks, chunk)
		fragment := chunk.GetContent()
		if fragment == "" {
			return
		}
		text.WriteString(fragment)
		if opts.OnFragment != nil {
			opts.OnFragment(fragment)
		}
	})

	result := &Result{
		Text:    text.String(),
		Elapsed: time.Since(start),
		Chunks:  chunks,
	}
	if err != nil {
		return result, err
	}
	return result, nil
}
